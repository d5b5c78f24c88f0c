package cmd

import (
	"testing"

	"github.com/cinema-cli/cinema/config"
	"github.com/cinema-cli/cinema/filesystem"
	"github.com/cinema-cli/cinema/key"
	"github.com/cinema-cli/cinema/library"
	"github.com/cinema-cli/cinema/where"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestParseValue(t *testing.T) {
	Convey("Values take the type of the default", t, func() {
		v, err := parseValue(10000, []string{"5000"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 5000)

		v, err = parseValue(true, []string{"false"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, false)

		v, err = parseValue(1.2, []string{"2.5"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 2.5)

		v, err = parseValue("json", []string{"sqlite"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "sqlite")

		v, err = parseValue([]string{}, []string{"Movies", "Videos"})
		So(err, ShouldBeNil)
		So(v, ShouldResemble, []string{"Movies", "Videos"})
	})

	Convey("Malformed values are rejected", t, func() {
		_, err := parseValue(0, []string{"ten"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(false, []string{"maybe"})
		So(err, ShouldNotBeNil)
	})
}

func TestUnknownKey(t *testing.T) {
	Convey("Typos suggest the closest key", t, func() {
		err := errUnknownKey("player.seek_stp")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, key.PlayerSeekStep)
	})
}

func TestPickerLabel(t *testing.T) {
	Convey("Labels mark stereo movies and trailers", t, func() {
		So(pickerLabel(&library.Movie{Title: "Plain"}), ShouldEqual, "Plain")
		So(pickerLabel(&library.Movie{Title: "Deep", Is3D: true, Format: library.FormatTopBottom3D}), ShouldEqual, "Deep [3DTB]")
		So(pickerLabel(&library.Movie{Title: "Soon", Category: library.Trailers}), ShouldEqual, "Soon (trailer)")
	})
}

func TestEnvVariables(t *testing.T) {
	Convey("Every variable is listed once, sorted", t, func() {
		vars := envVariables()
		So(vars, ShouldContain, where.EnvConfigPath)
		So(vars, ShouldContain, "CINEMA_PLAYER_SEEK_STEP")

		for i := 1; i < len(vars); i++ {
			So(vars[i-1] < vars[i], ShouldBeTrue)
		}
	})
}

func TestValidateValue(t *testing.T) {
	Convey("Values cinema can run with are accepted", t, func() {
		So(validateValue(key.PrefsBackend, "sqlite"), ShouldBeNil)
		So(validateValue(key.PlayerSeekStep, 5000), ShouldBeNil)
		So(validateValue(key.PlayerIdleClose, 0), ShouldBeNil)
		So(validateValue(key.LibraryWorkers, 1), ShouldBeNil)
		So(validateValue(key.IconsVariant, "nerd"), ShouldBeNil)
		So(validateValue(key.LogsLevel, "debug"), ShouldBeNil)
		So(validateValue(key.Player, "mpv"), ShouldBeNil)
		So(validateValue(key.LibraryDirs, []string{"Movies"}), ShouldBeNil)
		So(validateValue(key.TUIShowHelp, false), ShouldBeNil)
	})

	Convey("Values cinema cannot run with are rejected", t, func() {
		err := validateValue(key.PrefsBackend, "redis")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, key.PrefsBackend)
		So(err.Error(), ShouldContainSubstring, "json, sqlite, memory")

		So(validateValue(key.PlayerSeekStep, 0), ShouldNotBeNil)
		So(validateValue(key.PlayerSeekStep, -1000), ShouldNotBeNil)
		So(validateValue(key.PlayerIdleClose, -1), ShouldNotBeNil)
		So(validateValue(key.LibraryWorkers, 0), ShouldNotBeNil)
		So(validateValue(key.IconsVariant, "ascii"), ShouldNotBeNil)
		So(validateValue(key.LogsLevel, "loud"), ShouldNotBeNil)
		So(validateValue(key.Player, "vlc"), ShouldNotBeNil)
		So(validateValue(key.LibraryDirs, []string{"Movies", " "}), ShouldNotBeNil)
		So(validateValue(key.LibraryDirs, []string{}), ShouldNotBeNil)
	})

	Convey("Parsed command-line values go through the same checks", t, func() {
		v, err := parseValue(config.Default[key.LibraryWorkers].Value, []string{"0"})
		So(err, ShouldBeNil)
		So(validateValue(key.LibraryWorkers, v), ShouldNotBeNil)
	})
}
