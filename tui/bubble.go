package tui

import (
	"time"

	"github.com/cinema-cli/cinema/playback"
	"github.com/cinema-cli/cinema/renderer"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// bubble is the playback controls model.
type bubble struct {
	player    Player
	controls  *playback.Controls
	videoSize func() renderer.VideoSize
	keymap    *keymap

	helpC     help.Model
	progressC progress.Model

	seekStep    int
	idleTimeout time.Duration
	lastInput   time.Time
	visible     bool

	// snapshot refreshed on every tick
	position, duration int
	playing            bool
	state              playback.State

	outcome       Outcome
	width, height int
	now           func() time.Time
}

type tickMsg time.Time

func newBubble(options *Options) *bubble {
	b := &bubble{
		player:      options.Player,
		controls:    playback.NewControls(options.Player),
		videoSize:   options.VideoSize,
		keymap:      newKeymap(),
		helpC:       help.New(),
		progressC:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		seekStep:    options.SeekStep,
		idleTimeout: options.IdleTimeout,
		visible:     true,
		now:         time.Now,
	}

	if b.seekStep <= 0 {
		b.seekStep = 10000
	}

	b.helpC.ShowAll = options.ShowHelp
	b.lastInput = b.now()
	b.refresh()

	return b
}

func tick() tea.Cmd {
	return tea.Tick(playback.ScrubInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the refresh ticker.
func (b *bubble) Init() tea.Cmd {
	return tick()
}

// refresh takes a fresh snapshot of the player.
func (b *bubble) refresh() {
	b.position = b.player.Position()
	b.duration = b.player.Duration()
	b.playing = b.player.IsPlaying()
	b.state = b.player.State()
}
