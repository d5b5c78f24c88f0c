package util

import (
	"testing"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("file:name?.txt"), ShouldEqual, "file_name_.txt")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("file__name.txt"), ShouldEqual, "file_name.txt")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-file-name-"), ShouldEqual, "file-name")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "movie", "movies"), ShouldEqual, "1 movie")
		So(Quantify(2, "movie", "movies"), ShouldEqual, "2 movies")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/Big_Buck_Bunny.mp4"), ShouldEqual, "Big_Buck_Bunny")
		So(FileStem("file"), ShouldEqual, "file")
		So(StripExt("/movies/a.b/film.mkv"), ShouldEqual, "/movies/a.b/film")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(-5, 0, 10), ShouldEqual, 0)
		So(Clamp(15, 0, 10), ShouldEqual, 10)
		So(Clamp(7, 0, 10), ShouldEqual, 7)
	})
}

func TestFormatTime(t *testing.T) {
	Convey("FormatTime", t, func() {
		So(FormatTime(0), ShouldEqual, "0:00")
		So(FormatTime(9500), ShouldEqual, "0:09")
		So(FormatTime(75000), ShouldEqual, "1:15")
		So(FormatTime(3723000), ShouldEqual, "1:02:03")
		So(FormatTime(-20), ShouldEqual, "0:00")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/del/inner", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/del/inner/f", []byte("x"), 0o644), ShouldBeNil)

		So(Delete("/tmp/del"), ShouldBeNil)
		So(lo.Must(fs.Exists("/tmp/del")), ShouldBeFalse)
		So(Delete("/tmp/missing"), ShouldNotBeNil)
	})
}
