package history

import (
	"testing"
	"time"

	"github.com/cinema-cli/cinema/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given two played movies", t, func() {
		earlier := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

		So(Save(Entry{Path: "/m/a.mp4", Title: "A", PositionMs: 30000, DurationMs: 120000, PlayedAt: earlier}), ShouldBeNil)
		So(Save(Entry{Path: "/m/b.mp4", Title: "B", Finished: true, PlayedAt: earlier.Add(time.Hour)}), ShouldBeNil)

		Convey("Recent lists the latest first", func() {
			recent, err := Recent()
			So(err, ShouldBeNil)
			So(len(recent), ShouldBeGreaterThanOrEqualTo, 2)
			So(recent[0].Path, ShouldEqual, "/m/b.mp4")
			So(recent[1].Path, ShouldEqual, "/m/a.mp4")
		})

		Convey("Saving again replaces the entry", func() {
			So(Save(Entry{Path: "/m/a.mp4", Title: "A", PositionMs: 60000, DurationMs: 120000}), ShouldBeNil)

			entries, err := Get()
			So(err, ShouldBeNil)
			So(entries["/m/a.mp4"].PositionMs, ShouldEqual, 60000)
			So(entries["/m/a.mp4"].PlayedAt.After(earlier), ShouldBeTrue)
		})

		Convey("Remove forgets a movie", func() {
			So(Remove("/m/a.mp4"), ShouldBeNil)
			So(Remove("/m/missing.mp4"), ShouldBeNil)

			entries, err := Get()
			So(err, ShouldBeNil)
			So(entries, ShouldNotContainKey, "/m/a.mp4")
		})
	})
}

func TestEntry(t *testing.T) {
	Convey("Progress", t, func() {
		So((&Entry{PositionMs: 30000, DurationMs: 120000}).Progress(), ShouldEqual, 0.25)
		So((&Entry{PositionMs: 30000, DurationMs: -1}).Progress(), ShouldEqual, 0)
		So((&Entry{Finished: true}).Progress(), ShouldEqual, 1)
	})

	Convey("String", t, func() {
		So((&Entry{Title: "A", PositionMs: 61000, DurationMs: 120000}).String(), ShouldEqual, "A : 1:01 / 2:00")
		So((&Entry{Title: "B", Finished: true}).String(), ShouldEqual, "B : finished")
	})
}
