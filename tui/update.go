package tui

import (
	"time"

	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/playback"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles key presses, window resizes and the refresh ticker.
func (b *bubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tickMsg:
		return b, b.handleTick(time.Time(msg))
	case tea.KeyMsg:
		return b, b.handleKey(msg)
	}

	return b, nil
}

func (b *bubble) resize(width, height int) {
	b.width, b.height = width, height
	b.helpC.Width = width
	b.progressC.Width = max(width-4, 10)
}

func (b *bubble) handleTick(now time.Time) tea.Cmd {
	b.controls.Tick()
	b.refresh()

	switch {
	case b.player.HadPlaybackError():
		b.outcome = Failed
		return tea.Quit
	case b.state == playback.Finished:
		b.outcome = Finished
		return tea.Quit
	}

	if b.visible && b.idleTimeout > 0 && now.Sub(b.lastInput) > b.idleTimeout {
		b.dispatch(playback.UserTimeout)
	}

	return tick()
}

func (b *bubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	b.lastInput = b.now()

	switch {
	case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
		b.player.StopMovie()
		b.outcome = Quit
		return tea.Quit
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	case !b.visible:
		// the first key only brings the controls back
		b.visible = true
	case key.Matches(msg, b.keymap.playPause):
		b.dispatch(playback.PlayPressed)
	case key.Matches(msg, b.keymap.rewind):
		b.dispatch(playback.RewindPressed)
	case key.Matches(msg, b.keymap.fastForward):
		b.dispatch(playback.FastForwardPressed)
	case key.Matches(msg, b.keymap.stepBack):
		b.player.SeekDelta(-b.seekStep)
	case key.Matches(msg, b.keymap.stepForward):
		b.player.SeekDelta(b.seekStep)
	case key.Matches(msg, b.keymap.jump):
		b.jump(msg.String())
	case key.Matches(msg, b.keymap.hide):
		b.dispatch(playback.CloseUIPressed)
	case key.Matches(msg, b.keymap.picker):
		if b.dispatch(playback.PickerPressed) == playback.OpenPicker {
			b.player.StopMovie()
			b.outcome = Picker
			return tea.Quit
		}
	}

	b.refresh()
	return nil
}

func (b *bubble) dispatch(ev playback.UIEvent) playback.Reaction {
	log.Debugf("tui: %s", ev)

	reaction := b.controls.Dispatch(ev)
	if reaction == playback.HideUI {
		b.visible = false
	}
	return reaction
}

// jump seeks to a tenth of the movie per digit.
func (b *bubble) jump(digit string) {
	if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
		return
	}

	duration := b.player.Duration()
	if duration <= 0 {
		return
	}

	b.controls.Seek(duration * int(digit[0]-'0') / 10)
}
