package where

import (
	"path/filepath"
	"testing"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours the override", func() {
			t.Setenv(EnvConfigPath, "/custom/cinema")
			So(Config(), ShouldEqual, "/custom/cinema")
			So(Prefs(), ShouldEqual, filepath.Join("/custom/cinema", "prefs.json"))
			So(PrefsDB(), ShouldEqual, filepath.Join("/custom/cinema", "prefs.sqlite"))
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Thumbnails()", func() {
			path := Thumbnails()
			So(filepath.Base(path), ShouldEqual, "thumbnails")
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})
	})
}
