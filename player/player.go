// Package player defines the media backend contract driven by the playback controller.
// The primary implementation targets 'mpv' via its JSON-IPC interface.
package player

import "errors"

// Backend errors. Implementations wrap one of these so callers can classify failures with errors.Is.
var (
	// ErrIllegalState is returned when a command races the backend's own state transition
	// or is issued in a state that does not accept it.
	ErrIllegalState = errors.New("illegal backend state")

	// ErrIO is returned when the source cannot be found, opened or decoded.
	ErrIO = errors.New("media i/o failure")

	// ErrInvalidArgument is returned when the backend refuses a source or parameter outright.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Surface is an opaque render target handed out by the renderer before a backend is configured.
type Surface struct {
	// ID uniquely identifies the surface for logging.
	ID string

	// Title is shown by windowed backends.
	Title string

	// WID embeds the video into an existing native window when non-zero.
	WID int64
}

// EventKind enumerates the asynchronous notifications a backend emits.
type EventKind int

const (
	// EventSeekComplete fires when the most recently issued seek has landed.
	EventSeekComplete EventKind = iota + 1

	// EventCompletion fires once when playback reaches the natural end of the media.
	EventCompletion

	// EventVideoSize fires when the decoded video dimensions or rotation become known or change.
	EventVideoSize
)

func (k EventKind) String() string {
	switch k {
	case EventSeekComplete:
		return "seek-complete"
	case EventCompletion:
		return "completion"
	case EventVideoSize:
		return "video-size"
	default:
		return "unknown"
	}
}

// Event is a single backend notification.
type Event struct {
	Kind EventKind

	// Width, Height and Rotation are set for EventVideoSize.
	Width, Height int
	Rotation      int
}

// Backend encapsulates the media-player state machine the controller drives.
// All positions and durations are in milliseconds.
type Backend interface {
	// SetSurface assigns the render target. It must be called before Prepare.
	SetSurface(surface Surface) error

	// SetSource assigns the media locator. It may only be called once per backend.
	SetSource(path string) error

	// Prepare synchronously opens the source. On success the backend is paused at the start.
	Prepare() error

	// Start begins or resumes playback.
	Start() error

	// Pause suspends playback.
	Pause() error

	// Stop halts playback; afterwards only Release is meaningful.
	Stop() error

	// Release frees every resource held by the backend. It is safe to call more than once.
	Release() error

	// SeekTo asynchronously moves the playhead; completion is reported with EventSeekComplete.
	SeekTo(ms int) error

	// CurrentPosition returns the playhead position.
	CurrentPosition() (int, error)

	// Duration returns the media length.
	Duration() (int, error)

	// IsPlaying reports whether the playhead is advancing.
	IsPlaying() (bool, error)

	// SetVolume sets the per-channel volume in [0, 1].
	SetVolume(left, right float64) error

	// SetLooping toggles looping at the end of the media.
	SetLooping(loop bool) error

	// Events returns the channel on which asynchronous notifications are delivered.
	Events() <-chan Event
}
