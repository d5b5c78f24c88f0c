package history

import (
	"fmt"
	"time"

	"github.com/cinema-cli/cinema/util"
)

// Entry is a movie that was played, as it was when the controls closed.
type Entry struct {
	Path       string    `json:"path"`
	Title      string    `json:"title"`
	PositionMs int       `json:"position_ms"`
	DurationMs int       `json:"duration_ms"`
	Finished   bool      `json:"finished"`
	PlayedAt   time.Time `json:"played_at"`
}

// Progress is the watched fraction, or 0 when the duration is unknown.
func (e *Entry) Progress() float64 {
	if e.Finished {
		return 1
	}

	if e.DurationMs <= 0 {
		return 0
	}

	return util.Clamp(float64(e.PositionMs)/float64(e.DurationMs), 0, 1)
}

func (e *Entry) String() string {
	if e.Finished {
		return fmt.Sprintf("%s : finished", e.Title)
	}
	return fmt.Sprintf("%s : %s / %s", e.Title, util.FormatTime(e.PositionMs), util.FormatTime(e.DurationMs))
}
