package tui

import (
	"github.com/cinema-cli/cinema/color"
	"github.com/cinema-cli/cinema/style"
	"github.com/charmbracelet/bubbles/key"
)

// keymap defines the keyboard interactions of the controls.
type keymap struct {
	quit, forceQuit,
	playPause,
	rewind, fastForward,
	stepBack, stepForward,
	jump,
	hide,
	picker,
	showHelp key.Binding
}

func newKeymap() *keymap {
	return &keymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "k"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		rewind: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "rewind"),
		),
		fastForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "fast forward"),
		),
		stepBack: key.NewBinding(
			key.WithKeys(",", "down", "j"),
			key.WithHelp(",", "step back"),
		),
		stepForward: key.NewBinding(
			key.WithKeys(".", "up"),
			key.WithHelp(".", "step forward"),
		),
		jump: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "jump"),
		),
		hide: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "hide"),
		),
		picker: key.NewBinding(
			key.WithKeys("p", "tab"),
			key.WithHelp("p", "movies"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns the bindings shown in the single-line help.
func (k *keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.rewind, k.fastForward, k.picker, k.quit, k.showHelp}
}

// FullHelp returns the bindings shown in the expanded help.
func (k *keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.playPause, k.rewind, k.fastForward},
		{k.stepBack, k.stepForward, k.jump},
		{k.hide, k.picker, k.quit, k.forceQuit},
	}
}
