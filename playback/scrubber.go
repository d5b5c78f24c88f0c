package playback

import "time"

// MaxSeekSpeed bounds the trick-play speed in either direction.
const MaxSeekSpeed = 5

// ScrubInterval is how often a non-zero seek speed moves the playhead.
const ScrubInterval = 250 * time.Millisecond

// Transport is the part of the controller the scrubber drives.
type Transport interface {
	PauseMovie()
	ResumeMovie()
	TogglePlaying()
	SetPosition(ms int)
	Position() int
}

// ScrubStep is the distance a single scrub interval moves the playhead at speed.
// Each speed level doubles it: speed 1 covers 500ms, speed 5 covers 8s.
func ScrubStep(speed int) int {
	switch {
	case speed > 0:
		return int(ScrubInterval.Milliseconds()) * (1 << speed)
	case speed < 0:
		return -int(ScrubInterval.Milliseconds()) * (1 << -speed)
	default:
		return 0
	}
}

// Scrubber implements rewind and fast-forward on top of plain seeks.
// It is not safe for concurrent use.
type Scrubber struct {
	transport Transport
	speed     int
	position  int
	next      time.Time
}

// NewScrubber returns an idle scrubber for transport.
func NewScrubber(transport Transport) *Scrubber {
	return &Scrubber{transport: transport}
}

// Speed returns the current seek speed in [-MaxSeekSpeed, MaxSeekSpeed].
func (s *Scrubber) Speed() int {
	return s.speed
}

// Rewind steps the speed one level towards rewinding.
func (s *Scrubber) Rewind() {
	s.step(-1)
}

// FastForward steps the speed one level towards fast-forwarding.
func (s *Scrubber) FastForward() {
	s.step(1)
}

func (s *Scrubber) step(direction int) {
	if s.speed == 0 {
		s.transport.PauseMovie()
		s.position = s.transport.Position()
	}

	s.speed += direction
	if s.speed == 0 || s.speed > MaxSeekSpeed || s.speed < -MaxSeekSpeed {
		s.speed = 0
		s.transport.ResumeMovie()
	}
}

// Hold captures the current position and delays the next scrub step by one interval.
func (s *Scrubber) Hold(now time.Time) {
	s.position = s.transport.Position()
	s.next = now.Add(ScrubInterval)
}

// Reset drops the seek speed without touching playback.
func (s *Scrubber) Reset() {
	s.speed = 0
}

// Tick advances the playhead if scrubbing and at least one interval has passed since the last step.
// It reports whether a seek was issued.
func (s *Scrubber) Tick(now time.Time) bool {
	if s.speed == 0 || !now.After(s.next) {
		return false
	}

	s.position += ScrubStep(s.speed)
	s.transport.SetPosition(s.position)
	s.next = now.Add(ScrubInterval)
	return true
}
