package playback

import (
	"errors"

	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/player"
)

// callResult classifies the outcome of a backend call.
type callResult int

const (
	callOK callResult = iota
	// callRace is a command that lost a race with the backend's own state transition.
	// It is logged and otherwise ignored.
	callRace
	// callFatal is any other failure. During start-up it fails the session.
	callFatal
)

func classify(err error) callResult {
	switch {
	case err == nil:
		return callOK
	case errors.Is(err, player.ErrIllegalState):
		return callRace
	default:
		return callFatal
	}
}

// guard runs a backend call and logs anything that is not a success.
func guard(op string, err error) callResult {
	result := classify(err)
	switch result {
	case callRace:
		log.Warnf("playback: %s raced the backend: %s", op, err)
	case callFatal:
		log.Errorf("playback: %s failed: %s", op, err)
	}
	return result
}

func describe(r callResult) string {
	switch r {
	case callOK:
		return "ok"
	case callRace:
		return "backend state race"
	default:
		return "unrecoverable"
	}
}
