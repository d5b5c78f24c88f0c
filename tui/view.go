package tui

import (
	"fmt"
	"strings"

	"github.com/cinema-cli/cinema/color"
	"github.com/cinema-cli/cinema/icon"
	"github.com/cinema-cli/cinema/playback"
	"github.com/cinema-cli/cinema/style"
	"github.com/cinema-cli/cinema/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

// View renders the controls, or a single status line while they are hidden.
func (b *bubble) View() string {
	if !b.visible {
		return paddingStyle.Render(style.Faint(b.clip(b.statusLine())))
	}

	session := b.player.Session()
	title := session.DisplayName
	if title == "" {
		title = session.SourcePath
	}

	lines := []string{
		style.Title("Now Playing"),
		"",
		b.clip(icon.Get(icon.Movie) + " " + style.Fg(color.Purple)(title)),
		"",
		b.progressC.ViewAs(b.fraction()),
		b.clip(b.statusLine()),
	}

	if b.videoSize != nil {
		lines = append(lines, style.Faint(b.clip("video "+b.videoSize().String())))
	}

	return b.renderLines(lines)
}

func (b *bubble) statusLine() string {
	times := fmt.Sprintf("%s / %s", util.FormatTime(b.position), util.FormatTime(b.duration))

	if speed := b.controls.Scrubber().Speed(); speed != 0 {
		symbol := icon.Get(icon.FastForward)
		if speed < 0 {
			symbol = icon.Get(icon.Rewind)
		}
		return fmt.Sprintf("%s %dx  %s", symbol, 1<<abs(speed), times)
	}

	switch {
	case b.playing:
		return icon.Get(icon.Play) + "  " + times
	case b.state == playback.Preparing:
		return icon.Get(icon.Progress) + "  " + times
	default:
		return icon.Get(icon.Pause) + "  " + times
	}
}

func (b *bubble) fraction() float64 {
	if b.duration <= 0 {
		return 0
	}
	return util.Clamp(float64(b.position)/float64(b.duration), 0, 1)
}

func (b *bubble) clip(s string) string {
	if b.width <= 4 {
		return s
	}
	return truncate.StringWithTail(s, uint(b.width-4), "…")
}

func (b *bubble) renderLines(lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if b.height > h+4 {
		l += strings.Repeat("\n", b.height-h-4)
	}
	l += "\n" + b.helpC.View(b.keymap)

	return paddingStyle.Render(l)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
