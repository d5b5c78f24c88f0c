package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cinema-cli/cinema/color"
	"github.com/cinema-cli/cinema/history"
	"github.com/cinema-cli/cinema/icon"
	"github.com/cinema-cli/cinema/key"
	"github.com/cinema-cli/cinema/library"
	"github.com/cinema-cli/cinema/playback"
	"github.com/cinema-cli/cinema/prefs"
	"github.com/cinema-cli/cinema/style"
	"github.com/cinema-cli/cinema/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(resumeCmd)
}

// resumeCmd groups commands for saved playback positions.
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Inspect or forget saved playback positions",
}

// resolveMoviePath maps a movie argument onto the path its positions are keyed by.
func resolveMoviePath(arg string) string {
	lib := library.New(library.ResolveRoots(viper.GetStringSlice(key.LibraryDirs)))
	_ = lib.Scan()

	if movie, ok := lib.Lookup(arg); ok {
		return movie.Path
	}

	if abs, err := filepath.Abs(arg); err == nil {
		return abs
	}

	return arg
}

func openStore() prefs.Store {
	store, err := prefs.NewStore(viper.GetString(key.PrefsBackend))
	handleErr(err)
	return store
}

func init() {
	resumeCmd.AddCommand(resumeShowCmd)
	resumeShowCmd.SetOut(os.Stdout)
}

// resumeShowCmd prints the saved position of a movie and where it would start.
var resumeShowCmd = &cobra.Command{
	Use:   "show <movie>",
	Short: "Show the saved position of a movie",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := resolveMoviePath(args[0])
		store := openStore()
		defer func() { _ = store.Close() }()

		pos := store.GetInt(prefs.PositionKey(path), 0)
		length := store.GetInt(prefs.LengthKey(path), playback.UnknownDuration)
		startMs, resume := playback.ResumePolicy(pos, length)

		headerStyle := style.New().Bold(true).Foreground(color.HiPurple).Render

		cmd.Println(headerStyle(filepath.Base(path)))
		cmd.Printf("%s %s\n", style.Faint("Position"), util.FormatTime(pos))

		if length == playback.UnknownDuration {
			cmd.Printf("%s %s\n", style.Faint("Length  "), "unknown")
		} else {
			cmd.Printf("%s %s\n", style.Faint("Length  "), util.FormatTime(length))
		}

		if resume {
			cmd.Printf("%s resumes at %s\n", icon.Get(icon.Play), style.Fg(color.Green)(util.FormatTime(startMs)))
		} else {
			cmd.Printf("%s starts from the beginning\n", icon.Get(icon.Play))
		}
	},
}

func init() {
	resumeCmd.AddCommand(resumeListCmd)
	resumeListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	resumeListCmd.SetOut(os.Stdout)
}

// resumeListCmd prints recently played movies.
var resumeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recently played movies",
	Run: func(cmd *cobra.Command, args []string) {
		recent, err := history.Recent()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(recent))
			return
		}

		if len(recent) == 0 {
			cmd.Println(style.Faint("nothing played yet"))
			return
		}

		for _, e := range recent {
			cmd.Printf(
				"%s %s %s\n",
				icon.Get(icon.Movie),
				e.String(),
				style.Faint(fmt.Sprintf("%.0f%%", e.Progress()*100)),
			)
		}
	},
}

func init() {
	resumeCmd.AddCommand(resumeForgetCmd)
}

// resumeForgetCmd drops the saved position of a movie.
var resumeForgetCmd = &cobra.Command{
	Use:   "forget <movie>",
	Short: "Forget the saved position of a movie",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := resolveMoviePath(args[0])
		store := openStore()

		err := errors.Join(
			store.Remove(prefs.PositionKey(path)),
			store.Remove(prefs.LengthKey(path)),
			history.Remove(path),
		)
		if store.GetString(prefs.CurrentMovie, "") == path {
			err = errors.Join(err, store.Remove(prefs.CurrentMovie))
		}
		err = errors.Join(err, store.Close())
		handleErr(err)

		fmt.Printf(
			"%s forgot %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Yellow)(filepath.Base(path)),
		)
	},
}
