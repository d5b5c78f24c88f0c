package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Default handlers", t, func() {
		cmd, err := command("linux", "/m/poster.png", "")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"xdg-open", "/m/poster.png"})

		cmd, err = command("darwin", "/m/poster.png", "")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"open", "/m/poster.png"})
	})

	Convey("A named app", t, func() {
		cmd, err := command("darwin", "/m/poster.png", "Preview")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"open", "-a", "Preview", "/m/poster.png"})

		cmd, err = command("linux", "/m/poster.png", "feh")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"feh", "/m/poster.png"})
	})

	Convey("Unknown systems are rejected", t, func() {
		_, err := command("plan9", "/m/poster.png", "")
		So(err, ShouldNotBeNil)
	})
}
