// Package cmd implements the command-line interface for cinema.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cinema-cli/cinema/color"
	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/icon"
	"github.com/cinema-cli/cinema/key"
	"github.com/cinema-cli/cinema/library"
	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/player"
	"github.com/cinema-cli/cinema/prefs"
	"github.com/cinema-cli/cinema/style"
	"github.com/cinema-cli/cinema/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("prefs", "P", "", "Preference store backend (json, sqlite, memory)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("prefs", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{prefs.BackendJSON, prefs.BackendSQLite, prefs.BackendMemory}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PrefsBackend, rootCmd.PersistentFlags().Lookup("prefs")))

	rootCmd.Flags().BoolP("resume", "r", true, "Resume the movie from its saved position when it is worth it")
	lo.Must0(viper.BindPFlag(key.PlayerResume, rootCmd.Flags().Lookup("resume")))

	rootCmd.Flags().BoolP("continue", "c", false, "Replay the movie that was playing last")
	rootCmd.Flags().Float64("screen-dist", 0, "Virtual screen distance to persist for the renderer")

	rootCmd.MarkFlagsMutuallyExclusive("continue", "version")
}

// staleGrabAge is how long a grab directory may sit in the temp dir before it counts as abandoned.
const staleGrabAge = time.Hour

// rootCmd plays a movie, or lets the user pick one from the library.
var rootCmd = &cobra.Command{
	Use:   constant.Cinema + " [movie]",
	Short: "A terminal movie player that remembers where you stopped",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal movie player that remembers where you stopped"),
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// frames grabbed by earlier runs are never reused
		if err := player.CleanGrabDirs(where.Temp(), staleGrabAge); err != nil {
			log.Warnf("clean grab dirs: %s", err)
		}
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveDefault
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		a, err := newApp()
		handleErr(err)

		if cmd.Flags().Changed("screen-dist") {
			a.screen.SetParms(lo.Must(cmd.Flags().GetFloat64("screen-dist")))
		}

		movie, err := requestedMovie(a, args, lo.Must(cmd.Flags().GetBool("continue")))
		if err != nil {
			a.Close()
			handleErr(err)
		}

		err = a.play(movie, viper.GetBool(key.PlayerResume))
		a.Close()
		handleErr(err)
	},
}

// requestedMovie resolves what the command line asked for. None means the picker decides.
func requestedMovie(a *app, args []string, continueLast bool) (mo.Option[*library.Movie], error) {
	var target string

	switch {
	case len(args) == 1:
		target = args[0]
	case continueLast:
		target = a.store.GetString(prefs.CurrentMovie, "")
		if target == "" {
			return mo.None[*library.Movie](), fmt.Errorf("no movie was played yet")
		}
	default:
		return mo.None[*library.Movie](), nil
	}

	if err := a.library.Scan(); err != nil {
		log.Warn(err)
	}

	movie, ok := a.library.Lookup(target)
	if !ok {
		return mo.None[*library.Movie](), fmt.Errorf("movie not found: %s", target)
	}

	return mo.Some(movie), nil
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
