package cmd

import (
	"fmt"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/cinema-cli/cinema/icon"
	"github.com/cinema-cli/cinema/util"
	"github.com/cinema-cli/cinema/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is a removable artifact and the flag that selects it.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"generated thumbnails", "thumbnails", mo.Some("t"), where.Thumbnails},
	{"play history", "history", mo.Some("s"), where.History},
	{"search queries", "queries", mo.Some("q"), where.Queries},
	{"preferences file", "prefs", mo.Some("p"), where.Prefs},
	{"preferences database", "prefs-db", mo.None[string](), where.PrefsDB},
	{"temporary files", "temp", mo.None[string](), where.Temp},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes cached artifacts and saved preferences.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached artifacts and saved preferences",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			location := target.location()

			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			exists, err := filesystem.API().Exists(location)
			if err == nil && exists {
				err = util.Delete(location)
			}
			e()

			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
