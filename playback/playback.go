// Package playback implements the movie playback controller: it drives a media backend
// through a single owner goroutine, decides where to resume, coalesces seeks and
// arbitrates audio focus.
package playback

import (
	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/player"
)

// UnknownDuration marks a duration that is not known yet, or was never persisted.
const UnknownDuration = -1

// State is the top-level playback state of a session.
type State int

const (
	Idle State = iota
	Preparing
	Playing
	Paused
	Finished
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Preparing:
		return "preparing"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session describes the movie currently loaded into a controller.
type Session struct {
	ID          string
	SourcePath  string
	DisplayName string
	State       State

	LastKnownPositionMs int
	DurationMs          int

	Encrypted bool

	// SeekPending is set while a seek is in flight. It overlays Playing or Paused.
	SeekPending bool
}

// Renderer receives the output surface and video geometry for each session.
type Renderer interface {
	PrepareSurface() player.Surface
	OnVideoSizeChanged(width, height, rotation int)
}

// ResumePolicy decides where a movie should start given its persisted position and duration.
// It returns the start offset and whether that offset is a resume.
func ResumePolicy(savedPositionMs, savedDurationMs int) (startMs int, resume bool) {
	if savedPositionMs < constant.MinimumSeekTimeForResume {
		return 0, false
	}

	if savedDurationMs == UnknownDuration {
		return savedPositionMs, true
	}

	if savedPositionMs > savedDurationMs-constant.MinimumRemainingResumeTime {
		return 0, false
	}

	return savedPositionMs, true
}
