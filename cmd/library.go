package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/cinema-cli/cinema/color"
	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/icon"
	"github.com/cinema-cli/cinema/key"
	"github.com/cinema-cli/cinema/library"
	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/open"
	"github.com/cinema-cli/cinema/player"
	"github.com/cinema-cli/cinema/query"
	"github.com/cinema-cli/cinema/style"
	"github.com/cinema-cli/cinema/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.PersistentFlags().StringSliceP("dir", "d", []string{}, "Directories to scan instead of the configured ones")
	lo.Must0(viper.BindPFlag(key.LibraryDirs, libraryCmd.PersistentFlags().Lookup("dir")))
}

// libraryCmd groups commands working on the local movie library.
var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Inspect and maintain the local movie library",
}

// scannedLibrary scans the configured roots. Partial failures are logged; an empty result with errors is fatal.
func scannedLibrary() *library.Library {
	lib := library.New(library.ResolveRoots(viper.GetStringSlice(key.LibraryDirs)))

	erase := util.PrintErasable(fmt.Sprintf("%s Scanning library...", icon.Get(icon.Progress)))
	err := lib.Scan()
	erase()

	if err != nil {
		if len(lib.All()) == 0 {
			handleErr(err)
		}
		log.Warn(err)
	}

	return lib
}

func printMovies(cmd *cobra.Command, movies []*library.Movie, asJson bool) {
	if asJson {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(movies))
		return
	}

	showPaths := viper.GetBool(key.LibraryShowPaths)
	for _, m := range movies {
		line := fmt.Sprintf("%s %s", icon.Get(icon.Movie), style.Bold(m.Title))
		if m.Is3D {
			line += " " + style.Fg(color.Cyan)(m.Format.String())
		}
		if m.Category == library.Trailers {
			line += " " + style.Fg(color.Yellow)("trailer")
		}
		cmd.Println(line)

		if showPaths {
			cmd.Println("  " + style.Faint(m.Path))
		}
	}
}

func init() {
	libraryCmd.AddCommand(libraryListCmd)
	libraryListCmd.Flags().StringP("category", "C", "", "Only list movies of this category (myvideos, trailers)")
	libraryListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	lo.Must0(libraryListCmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"myvideos", "trailers"}, cobra.ShellCompDirectiveNoFileComp
	}))
	libraryListCmd.SetOut(os.Stdout)
}

// libraryListCmd prints every movie found in the library.
var libraryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List movies found in the library directories",
	Run: func(cmd *cobra.Command, args []string) {
		lib := scannedLibrary()

		movies := lib.All()
		if cmd.Flags().Changed("category") {
			movies = lib.List(library.ParseCategory(lo.Must(cmd.Flags().GetString("category"))))
		}

		printMovies(cmd, movies, lo.Must(cmd.Flags().GetBool("json")))
	},
}

func init() {
	libraryCmd.AddCommand(librarySearchCmd)
	librarySearchCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	librarySearchCmd.SetOut(os.Stdout)
}

// librarySearchCmd fuzzy-matches movie titles.
var librarySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search movie titles",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		movies := scannedLibrary().Search(args[0])
		if len(movies) == 0 {
			handleErr(fmt.Errorf("no movies match %q", args[0]))
		}

		if err := query.Remember(args[0], 1); err != nil {
			log.Warnf("remember query: %s", err)
		}

		printMovies(cmd, movies, lo.Must(cmd.Flags().GetBool("json")))
	},
}

func init() {
	libraryCmd.AddCommand(libraryPostersCmd)
	libraryPostersCmd.Flags().IntP("workers", "w", 0, "Posters generated in parallel")
	lo.Must0(viper.BindPFlag(key.LibraryWorkers, libraryPostersCmd.Flags().Lookup("workers")))
}

// libraryPostersCmd generates posters for movies that have none.
var libraryPostersCmd = &cobra.Command{
	Use:   "posters",
	Short: "Generate poster thumbnails for movies without one",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		lib := scannedLibrary()

		erase := util.PrintErasable(fmt.Sprintf("%s Generating posters...", icon.Get(icon.Progress)))
		generated, err := lib.LoadPosters(ctx, player.NewFrameGrabber(), viper.GetInt(key.LibraryWorkers))
		erase()
		handleErr(err)

		fmt.Printf(
			"%s generated %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(generated, "poster", "posters"),
		)
	},
}

func init() {
	libraryCmd.AddCommand(libraryWatchCmd)
	libraryWatchCmd.SetOut(os.Stdout)
}

// libraryWatchCmd rescans whenever the library directories change.
var libraryWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the library directories and report changes",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		lib := scannedLibrary()
		posters := viper.GetBool(key.LibraryPosters)
		if posters {
			CheckDependencies()
		}

		cmd.Printf("%s watching %s\n", icon.Get(icon.Mark), util.Quantify(len(lib.Roots()), "directory", "directories"))

		err := lib.Watch(ctx, func(movies []*library.Movie) {
			cmd.Printf(
				"%s %s %s\n",
				style.Faint(time.Now().Format(time.TimeOnly)),
				icon.Get(icon.Movie),
				util.Quantify(len(movies), "movie", "movies"),
			)

			if !posters {
				return
			}

			if generated, err := lib.LoadPosters(ctx, player.NewFrameGrabber(), viper.GetInt(key.LibraryWorkers)); err != nil {
				log.Warn(err)
			} else if generated > 0 {
				cmd.Printf("%s generated %s\n", icon.Get(icon.Success), util.Quantify(generated, "poster", "posters"))
			}
		})

		if err != nil && ctx.Err() == nil {
			handleErr(err)
		}
	},
}

func init() {
	libraryCmd.AddCommand(libraryOpenCmd)
	libraryOpenCmd.Flags().BoolP("poster", "p", false, "Open the poster instead of the containing directory")
	libraryOpenCmd.Flags().StringP("app", "a", "", "Application to open it with")
}

// libraryOpenCmd shows a movie's directory or poster in the system viewer.
var libraryOpenCmd = &cobra.Command{
	Use:   "open <movie>",
	Short: "Open the directory or the poster of a movie",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		movie, ok := scannedLibrary().Lookup(args[0])
		if !ok {
			handleErr(fmt.Errorf("movie not found: %s", args[0]))
		}

		target := filepath.Dir(movie.Path)
		if lo.Must(cmd.Flags().GetBool("poster")) {
			if movie.Poster == "" {
				handleErr(fmt.Errorf("%s has no poster yet, run `%s library posters` first", movie.Title, constant.Cinema))
			}
			target = movie.Poster
		}

		handleErr(open.StartWith(target, lo.Must(cmd.Flags().GetString("app"))))
	},
}
