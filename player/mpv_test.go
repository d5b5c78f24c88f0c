package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Cleans local paths", func() {
			got, err := sanitizeMediaTarget("  /movies/../movies/film.mp4 ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "/movies/film.mp4")
		})

		Convey("Accepts http and file URLs", func() {
			_, err := sanitizeMediaTarget("https://example.com/video.mp4")
			So(err, ShouldBeNil)
			_, err = sanitizeMediaTarget("file:///movies/film.mp4")
			So(err, ShouldBeNil)
		})

		Convey("Rejects flag injection, control characters and odd schemes", func() {
			_, err := sanitizeMediaTarget("--script=evil.lua")
			So(err, ShouldNotBeNil)
			_, err = sanitizeMediaTarget("film\n.mp4")
			So(err, ShouldNotBeNil)
			_, err = sanitizeMediaTarget("ftp://example.com/film.mp4")
			So(err, ShouldNotBeNil)
			_, err = sanitizeMediaTarget("   ")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestTranslateEvent(t *testing.T) {
	Convey("translateEvent", t, func() {
		Convey("playback-restart completes a seek", func() {
			ev, ok := translateEvent("playback-restart", map[string]interface{}{"event": "playback-restart"})
			So(ok, ShouldBeTrue)
			So(ev.Kind, ShouldEqual, EventSeekComplete)
		})

		Convey("eof-reached only fires when true", func() {
			ev, ok := translateEvent("eof-reached", true)
			So(ok, ShouldBeTrue)
			So(ev.Kind, ShouldEqual, EventCompletion)

			_, ok = translateEvent("eof-reached", false)
			So(ok, ShouldBeFalse)
		})

		Convey("video-params carries dimensions and rotation", func() {
			ev, ok := translateEvent("video-params", map[string]interface{}{
				"w": 1920.0, "h": 1080.0, "rotate": 90.0,
			})
			So(ok, ShouldBeTrue)
			So(ev, ShouldResemble, Event{Kind: EventVideoSize, Width: 1920, Height: 1080, Rotation: 90})

			_, ok = translateEvent("video-params", nil)
			So(ok, ShouldBeFalse)
		})

		Convey("Unknown notifications are dropped", func() {
			_, ok := translateEvent("time-pos", 12.5)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestMPVStateGuards(t *testing.T) {
	Convey("Given a fresh MPV backend", t, func() {
		m := NewMPV()

		Convey("Commands before Prepare are illegal", func() {
			So(errors.Is(m.Start(), ErrIllegalState), ShouldBeTrue)
			So(errors.Is(m.Pause(), ErrIllegalState), ShouldBeTrue)
			So(errors.Is(m.SeekTo(1000), ErrIllegalState), ShouldBeTrue)
			_, err := m.CurrentPosition()
			So(errors.Is(err, ErrIllegalState), ShouldBeTrue)
			So(errors.Is(m.Prepare(), ErrIllegalState), ShouldBeTrue)
		})

		Convey("A missing file is an I/O failure", func() {
			err := m.SetSource(filepath.Join(t.TempDir(), "missing.mp4"))
			So(errors.Is(err, ErrIO), ShouldBeTrue)
		})

		Convey("A flag-looking source is an invalid argument", func() {
			err := m.SetSource("-vo=null")
			So(errors.Is(err, ErrInvalidArgument), ShouldBeTrue)
		})

		Convey("The source can only be set once", func() {
			path := filepath.Join(t.TempDir(), "film.mp4")
			So(os.WriteFile(path, []byte("x"), 0o644), ShouldBeNil)
			So(m.SetSource(path), ShouldBeNil)
			So(errors.Is(m.SetSource(path), ErrIllegalState), ShouldBeTrue)
			So(errors.Is(m.SetSurface(Surface{Title: "late"}), ErrIllegalState), ShouldBeTrue)
		})

		Convey("Release is idempotent without a process", func() {
			So(m.Release(), ShouldBeNil)
			So(m.Release(), ShouldBeNil)
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given an mpv-like socket", t, func() {
		dir, err := os.MkdirTemp("", "evl")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		socket := filepath.Join(dir, "mpv.sock")
		ln, err := net.Listen("unix", socket)
		So(err, ShouldBeNil)
		defer ln.Close()

		observed := make(chan string, 4)
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			reader := bufio.NewReader(conn)
			for range observedProperties {
				line, err := reader.ReadString('\n')
				if err != nil {
					return
				}
				observed <- line
			}
			_, _ = conn.Write([]byte(`{"request_id":0,"error":"success"}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"property-change","id":1,"name":"eof-reached","data":true}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
			time.Sleep(200 * time.Millisecond)
		}()

		got := make(chan string, 4)
		el := NewEventListener(socket, func(name string, _ interface{}) {
			got <- name
		})
		So(el.Start(), ShouldBeNil)
		defer el.Stop()

		Convey("It registers observers on its own connection and forwards events", func() {
			for range observedProperties {
				So(<-observed, ShouldContainSubstring, "observe_property")
			}
			So(<-got, ShouldEqual, "eof-reached")
			So(<-got, ShouldEqual, "playback-restart")
		})
	})
}

// ipcServer answers every command on socket with reply, which receives the decoded request.
func ipcServer(socket string, reply func(req ipcCommand) string) (net.Listener, *atomic.Int32, error) {
	ln, err := net.Listen("unix", socket)
	if err != nil {
		return nil, nil, err
	}

	var commands atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			go func() {
				defer conn.Close()

				line, err := bufio.NewReader(conn).ReadBytes('\n')
				if err != nil {
					return
				}
				commands.Add(1)

				var req ipcCommand
				if err := json.Unmarshal(line, &req); err != nil {
					return
				}
				_, _ = conn.Write([]byte(reply(req)))
			}()
		}
	}()

	return ln, &commands, nil
}

func TestSendCommand(t *testing.T) {
	Convey("Given an mpv socket that interleaves events with replies", t, func() {
		dir, err := os.MkdirTemp("", "ipc")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		m := NewMPV()
		m.socketPath = filepath.Join(dir, "mpv.sock")

		Convey("An event ahead of the reply is skipped", func() {
			ln, commands, err := ipcServer(m.socketPath, func(ipcCommand) string {
				return `{"event":"playback-restart"}` + "\n" + `{"data":12.5,"error":"success"}` + "\n"
			})
			So(err, ShouldBeNil)
			defer ln.Close()

			pos, err := m.getFloatProperty("time-pos")
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 12.5)
			So(commands.Load(), ShouldEqual, 1)
		})

		Convey("Replies to other requests are skipped", func() {
			ln, commands, err := ipcServer(m.socketPath, func(req ipcCommand) string {
				return fmt.Sprintf(
					`{"data":1.0,"error":"success","request_id":%d}`+"\n"+
						`{"event":"seek"}`+"\n"+
						`{"data":42.0,"error":"success","request_id":%d}`+"\n",
					req.RequestID+1000, req.RequestID,
				)
			})
			So(err, ShouldBeNil)
			defer ln.Close()

			pos, err := m.getFloatProperty("duration")
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 42.0)
			So(commands.Load(), ShouldEqual, 1)
		})

		Convey("A command that was written is not sent again when the reply is lost", func() {
			ln, commands, err := ipcServer(m.socketPath, func(ipcCommand) string {
				return `{"event":"playback-restart"}` + "\n"
			})
			So(err, ShouldBeNil)
			defer ln.Close()

			_, err = m.sendCommand([]interface{}{"seek", 10.0, "absolute+exact"})
			So(err, ShouldNotBeNil)
			So(commands.Load(), ShouldEqual, 1)
		})

		Convey("mpv errors are reported", func() {
			ln, _, err := ipcServer(m.socketPath, func(req ipcCommand) string {
				return fmt.Sprintf(`{"error":"property unavailable","request_id":%d}`+"\n", req.RequestID)
			})
			So(err, ShouldBeNil)
			defer ln.Close()

			_, err = m.getFloatProperty("time-pos")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "property unavailable")
		})

		Convey("Without a listener every attempt fails to connect", func() {
			_, err := m.getFloatProperty("time-pos")
			So(errors.Is(err, errNotSent), ShouldBeTrue)
		})
	})
}
