package renderer

import (
	"testing"

	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/prefs"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeRotation(t *testing.T) {
	Convey("Rotations snap to quarter turns", t, func() {
		for _, r := range []int{0, 90, 180, 270} {
			So(NormalizeRotation(r), ShouldEqual, r)
		}
		So(NormalizeRotation(45), ShouldEqual, 0)
		So(NormalizeRotation(-90), ShouldEqual, 0)
		So(NormalizeRotation(360), ShouldEqual, 0)
	})
}

func TestScreen(t *testing.T) {
	Convey("Given a screen over a memory store", t, func() {
		store := prefs.NewMemoryStore()
		var resized []VideoSize
		s := NewScreen(store, Options{Title: "cinema", OnResize: func(v VideoSize) { resized = append(resized, v) }})

		Convey("Each surface is unique", func() {
			a := s.PrepareSurface()
			b := s.PrepareSurface()
			So(a.ID, ShouldNotBeEmpty)
			So(a.ID, ShouldNotEqual, b.ID)
			So(b.Title, ShouldEqual, "cinema")
			So(s.Surface(), ShouldResemble, b)
		})

		Convey("Video size changes are normalized and forwarded", func() {
			s.OnVideoSizeChanged(1920, 1080, 33)
			So(s.VideoSize(), ShouldResemble, VideoSize{Width: 1920, Height: 1080})
			So(resized, ShouldHaveLength, 1)
			So(s.VideoSize().String(), ShouldEqual, "1920x1080")

			s.OnVideoSizeChanged(1080, 1920, 90)
			So(s.VideoSize().Rotation, ShouldEqual, 90)
		})

		Convey("A new surface forgets the old size", func() {
			s.OnVideoSizeChanged(640, 480, 0)
			s.PrepareSurface()
			So(s.VideoSize().String(), ShouldEqual, "unknown")
		})

		Convey("The screen distance defaults and persists", func() {
			s.Load()
			So(s.ScreenDist(), ShouldEqual, constant.DefaultScreenDist)

			s.SetParms(2.0)
			s.SetParms(-1)
			So(s.ScreenDist(), ShouldEqual, 2.0)
			So(s.Persist(), ShouldBeNil)

			other := NewScreen(store, Options{})
			other.Load()
			So(other.ScreenDist(), ShouldEqual, 2.0)
		})
	})
}
