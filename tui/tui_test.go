package tui

import (
	"testing"
	"time"

	"github.com/cinema-cli/cinema/playback"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

type stubPlayer struct {
	position, duration int
	playing            bool
	state              playback.State
	failed             bool
	calls              []string
	seeks              []int
}

func (p *stubPlayer) PauseMovie()        { p.calls = append(p.calls, "pause"); p.playing = false }
func (p *stubPlayer) ResumeMovie()       { p.calls = append(p.calls, "resume"); p.playing = true }
func (p *stubPlayer) TogglePlaying()     { p.calls = append(p.calls, "toggle"); p.playing = !p.playing }
func (p *stubPlayer) StopMovie()         { p.calls = append(p.calls, "stop"); p.state = playback.Idle }
func (p *stubPlayer) SetPosition(ms int) { p.seeks = append(p.seeks, ms); p.position = ms }
func (p *stubPlayer) SeekDelta(d int)    { p.SetPosition(p.position + d) }
func (p *stubPlayer) Position() int      { return p.position }
func (p *stubPlayer) Duration() int      { return p.duration }
func (p *stubPlayer) IsPlaying() bool    { return p.playing }
func (p *stubPlayer) HadPlaybackError() bool {
	return p.failed
}
func (p *stubPlayer) State() playback.State { return p.state }
func (p *stubPlayer) Session() playback.Session {
	return playback.Session{DisplayName: "Sintel", State: p.state}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBubble(t *testing.T) {
	Convey("Given controls over a playing movie", t, func() {
		p := &stubPlayer{position: 60000, duration: 600000, playing: true, state: playback.Playing}
		b := newBubble(&Options{Player: p, SeekStep: 5000, IdleTimeout: time.Second})
		b.resize(80, 24)

		Convey("Space toggles playback", func() {
			_, cmd := b.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			So(cmd, ShouldBeNil)
			So(p.calls, ShouldResemble, []string{"toggle"})
			So(b.playing, ShouldBeFalse)
		})

		Convey("Step keys seek relative to the playhead", func() {
			b.Update(runes("."))
			b.Update(runes(","))
			So(p.seeks, ShouldResemble, []int{65000, 60000})
		})

		Convey("Digits jump to a tenth of the movie", func() {
			b.Update(runes("5"))
			So(p.seeks, ShouldResemble, []int{300000})
		})

		Convey("Fast forward scrubs on ticks", func() {
			b.Update(tea.KeyMsg{Type: tea.KeyRight})
			So(p.calls, ShouldResemble, []string{"pause"})
			So(b.controls.Scrubber().Speed(), ShouldEqual, 1)

			_, cmd := b.Update(tickMsg(time.Now()))
			So(cmd, ShouldNotBeNil)
			So(p.seeks, ShouldResemble, []int{60500})
			So(b.View(), ShouldContainSubstring, "2x")
		})

		Convey("Idle controls hide and the next key brings them back", func() {
			b.Update(tickMsg(b.lastInput.Add(2 * time.Second)))
			So(b.visible, ShouldBeFalse)
			So(p.calls, ShouldResemble, []string{"resume"})

			b.Update(tea.KeyMsg{Type: tea.KeyLeft})
			So(b.visible, ShouldBeTrue)
			So(b.controls.Scrubber().Speed(), ShouldEqual, 0)
		})

		Convey("The picker key stops the movie and exits", func() {
			_, cmd := b.Update(runes("p"))
			So(cmd, ShouldNotBeNil)
			So(b.outcome, ShouldEqual, Picker)
			So(p.calls, ShouldResemble, []string{"stop"})
		})

		Convey("Quitting stops the movie", func() {
			_, cmd := b.Update(runes("q"))
			So(cmd, ShouldNotBeNil)
			So(b.outcome, ShouldEqual, Quit)
			So(p.calls, ShouldResemble, []string{"stop"})
		})

		Convey("Reaching the end exits with finished", func() {
			p.state = playback.Finished
			b.Update(tickMsg(time.Now()))
			So(b.outcome, ShouldEqual, Finished)
		})

		Convey("A failed movie exits with failed", func() {
			p.failed = true
			b.Update(tickMsg(time.Now()))
			So(b.outcome, ShouldEqual, Failed)
		})

		Convey("The view shows the title and times", func() {
			view := b.View()
			So(view, ShouldContainSubstring, "Sintel")
			So(view, ShouldContainSubstring, "1:00 / 10:00")
		})
	})
}
