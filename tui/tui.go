// Package tui provides the on-screen playback controls.
package tui

import (
	"time"

	"github.com/cinema-cli/cinema/playback"
	"github.com/cinema-cli/cinema/renderer"
	tea "github.com/charmbracelet/bubbletea"
)

// Player is what the controls drive. *playback.Controller implements it.
type Player interface {
	playback.Transport
	SeekDelta(deltaMs int)
	StopMovie()
	Duration() int
	IsPlaying() bool
	State() playback.State
	Session() playback.Session
	HadPlaybackError() bool
}

// Options configure the controls.
type Options struct {
	Player Player

	// VideoSize reports the decoded geometry, if known.
	VideoSize func() renderer.VideoSize

	// SeekStep is how far the step keys move the playhead, in milliseconds.
	SeekStep int

	// IdleTimeout hides the controls after this long without input. Zero disables it.
	IdleTimeout time.Duration

	ShowHelp bool
}

// Outcome tells the caller why the controls exited.
type Outcome int

const (
	// Quit means the user asked to leave.
	Quit Outcome = iota
	// Picker means the user asked for another movie.
	Picker
	// Finished means the movie played to the end.
	Finished
	// Failed means the movie could not be played.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Quit:
		return "quit"
	case Picker:
		return "picker"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Run shows the controls until the movie ends or the user leaves.
func Run(options *Options) (Outcome, error) {
	final, err := tea.NewProgram(newBubble(options), tea.WithAltScreen()).Run()
	if err != nil {
		return Quit, err
	}

	return final.(*bubble).outcome, nil
}
