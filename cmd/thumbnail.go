package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cinema-cli/cinema/color"
	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/icon"
	"github.com/cinema-cli/cinema/player"
	"github.com/cinema-cli/cinema/style"
	"github.com/cinema-cli/cinema/thumbnail"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(thumbnailCmd)
	thumbnailCmd.Flags().Int("width", constant.PosterWidth, "Width of the thumbnail in pixels")
	thumbnailCmd.Flags().Int("height", constant.PosterHeight, "Height of the thumbnail in pixels")
}

// thumbnailCmd writes a poster for a single video.
var thumbnailCmd = &cobra.Command{
	Use:     "thumbnail <video> <out.png>",
	Short:   "Create a poster thumbnail for a video",
	Args:    cobra.ExactArgs(2),
	Example: "  cinema thumbnail ~/Movies/film.mkv film.png --width 320 --height 180",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			width  = lo.Must(cmd.Flags().GetInt("width"))
			height = lo.Must(cmd.Flags().GetInt("height"))
		)

		if width <= 0 || height <= 0 {
			handleErr(fmt.Errorf("invalid thumbnail size %dx%d", width, height))
		}

		CheckDependencies()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		handleErr(thumbnail.Create(ctx, player.NewFrameGrabber(), args[0], args[1], width, height))
		fmt.Printf(
			"%s wrote %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Yellow)(args[1]),
		)
	},
}
