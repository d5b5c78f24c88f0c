package playback

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestScrubStep(t *testing.T) {
	Convey("Each speed level doubles the step", t, func() {
		So(ScrubStep(0), ShouldEqual, 0)
		So(ScrubStep(1), ShouldEqual, 500)
		So(ScrubStep(2), ShouldEqual, 1000)
		So(ScrubStep(5), ShouldEqual, 8000)
		So(ScrubStep(-1), ShouldEqual, -500)
		So(ScrubStep(-5), ShouldEqual, -8000)
	})
}

func TestScrubber(t *testing.T) {
	Convey("Given a scrubber over a playing transport", t, func() {
		tr := &transportRecorder{position: 60000, playing: true}
		s := NewScrubber(tr)
		start := time.Unix(1000, 0)

		Convey("The first fast-forward pauses and captures the position", func() {
			s.FastForward()
			So(s.Speed(), ShouldEqual, 1)
			So(tr.calls, ShouldResemble, []string{"pause"})

			Convey("And ticks move the playhead by the current step", func() {
				So(s.Tick(start), ShouldBeTrue)
				So(tr.seeks, ShouldResemble, []int{60500})

				So(s.Tick(start.Add(100*time.Millisecond)), ShouldBeFalse)

				s.FastForward()
				So(s.Tick(start.Add(300*time.Millisecond)), ShouldBeTrue)
				So(tr.seeks, ShouldResemble, []int{60500, 61500})
			})
		})

		Convey("Stepping back to zero resumes", func() {
			s.FastForward()
			s.Rewind()
			So(s.Speed(), ShouldEqual, 0)
			So(tr.calls, ShouldResemble, []string{"pause", "resume"})
			So(s.Tick(start), ShouldBeFalse)
		})

		Convey("Going past the maximum speed resets and resumes", func() {
			for i := 0; i < MaxSeekSpeed; i++ {
				s.Rewind()
			}
			So(s.Speed(), ShouldEqual, -MaxSeekSpeed)

			s.Rewind()
			So(s.Speed(), ShouldEqual, 0)
			So(tr.calls, ShouldResemble, []string{"pause", "resume"})
		})

		Convey("Rewinding moves backwards", func() {
			s.Rewind()
			s.Rewind()
			s.Tick(start)
			So(tr.seeks, ShouldResemble, []int{59000})
		})

		Convey("Hold delays the next step", func() {
			s.FastForward()
			tr.position = 10000
			s.Hold(start)
			So(s.Tick(start.Add(200*time.Millisecond)), ShouldBeFalse)
			So(s.Tick(start.Add(300*time.Millisecond)), ShouldBeTrue)
			So(tr.seeks, ShouldResemble, []int{10500})
		})
	})
}

func TestControls(t *testing.T) {
	Convey("Given controls over a playing transport", t, func() {
		tr := &transportRecorder{position: 30000, playing: true}
		c := NewControls(tr)
		now := time.Unix(2000, 0)
		c.now = func() time.Time { return now }

		Convey("Play toggles and stops scrubbing", func() {
			c.Dispatch(FastForwardPressed)
			So(c.Dispatch(PlayPressed), ShouldEqual, KeepUI)
			So(c.Scrubber().Speed(), ShouldEqual, 0)
			So(tr.calls, ShouldResemble, []string{"pause", "toggle"})
		})

		Convey("Closing the UI or timing out resumes and hides", func() {
			c.Dispatch(RewindPressed)
			So(c.Dispatch(CloseUIPressed), ShouldEqual, HideUI)
			So(c.Scrubber().Speed(), ShouldEqual, 0)
			So(tr.calls, ShouldResemble, []string{"pause", "resume"})

			So(c.Dispatch(UserTimeout), ShouldEqual, HideUI)
		})

		Convey("The picker is reported back", func() {
			So(c.Dispatch(PickerPressed), ShouldEqual, OpenPicker)
			So(tr.calls, ShouldBeEmpty)
		})

		Convey("Seeking jumps and holds the scrubber", func() {
			c.Seek(90000)
			So(tr.seeks, ShouldResemble, []int{90000})
			So(c.Dispatch(NoEvent), ShouldEqual, KeepUI)
		})

		Convey("Ticks drive trick-play", func() {
			c.Dispatch(FastForwardPressed)
			c.Dispatch(FastForwardPressed)
			So(c.Tick(), ShouldBeTrue)
			So(tr.seeks, ShouldResemble, []int{31000})
		})
	})
}
