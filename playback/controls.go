package playback

import "time"

// UIEvent is a discrete action raised by the on-screen controls.
type UIEvent int

const (
	NoEvent UIEvent = iota
	RewindPressed
	PlayPressed
	FastForwardPressed
	PickerPressed
	CloseUIPressed
	UserTimeout
	SeekPressed
)

func (e UIEvent) String() string {
	switch e {
	case NoEvent:
		return "none"
	case RewindPressed:
		return "rewind"
	case PlayPressed:
		return "play"
	case FastForwardPressed:
		return "fast-forward"
	case PickerPressed:
		return "picker"
	case CloseUIPressed:
		return "close-ui"
	case UserTimeout:
		return "user-timeout"
	case SeekPressed:
		return "seek"
	default:
		return "unknown"
	}
}

// Reaction tells the UI what to do after an event was dispatched.
type Reaction int

const (
	// KeepUI leaves the controls as they are.
	KeepUI Reaction = iota
	// HideUI hides the controls.
	HideUI
	// OpenPicker switches to movie selection.
	OpenPicker
)

// Controls maps UI events onto a transport.
type Controls struct {
	transport Transport
	scrubber  *Scrubber
	now       func() time.Time
}

// NewControls returns controls driving transport.
func NewControls(transport Transport) *Controls {
	return &Controls{
		transport: transport,
		scrubber:  NewScrubber(transport),
		now:       time.Now,
	}
}

// Scrubber exposes the trick-play state, mostly for display.
func (c *Controls) Scrubber() *Scrubber {
	return c.scrubber
}

// Dispatch applies ev. Seek events carry no target here; use Seek.
func (c *Controls) Dispatch(ev UIEvent) Reaction {
	switch ev {
	case RewindPressed:
		c.scrubber.Rewind()
	case FastForwardPressed:
		c.scrubber.FastForward()
	case PlayPressed:
		c.transport.TogglePlaying()
		c.scrubber.Reset()
	case PickerPressed:
		return OpenPicker
	case CloseUIPressed, UserTimeout:
		c.scrubber.Reset()
		c.transport.ResumeMovie()
		return HideUI
	case SeekPressed:
		c.scrubber.Hold(c.now())
	}

	return KeepUI
}

// Seek jumps to ms, as when the seek bar is clicked.
func (c *Controls) Seek(ms int) {
	c.transport.SetPosition(ms)
	c.scrubber.Hold(c.now())
}

// Tick drives trick-play and should be called at least every ScrubInterval.
func (c *Controls) Tick() bool {
	return c.scrubber.Tick(c.now())
}
