// Package focus arbitrates exclusive claims on audio output between competing players.
//
// The arbiter keeps a stack of holders. A new request moves the requester to the top
// and tells the previous top it lost focus; abandoning the top hands focus back to
// the next holder down.
package focus

import (
	"sync"

	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/util"
)

// Change is a focus transition, used both for requests and notifications.
type Change int

const (
	// Gain requests or restores focus for an unbounded duration.
	Gain Change = iota + 1
	// GainTransient requests focus for a short, bounded duration.
	GainTransient
	// GainTransientMayDuck requests short focus while allowing others to keep playing quietly.
	GainTransientMayDuck

	// Loss means focus was lost for an unbounded duration.
	Loss
	// LossTransient means focus was lost for a short duration.
	LossTransient
	// LossTransientCanDuck means focus was lost briefly and the loser may keep playing at lower volume.
	LossTransientCanDuck
)

func (c Change) String() string {
	switch c {
	case Gain:
		return "gain"
	case GainTransient:
		return "gain-transient"
	case GainTransientMayDuck:
		return "gain-transient-may-duck"
	case Loss:
		return "loss"
	case LossTransient:
		return "loss-transient"
	case LossTransientCanDuck:
		return "loss-transient-can-duck"
	default:
		return "unknown"
	}
}

// lossFor maps the gain type of a new request to the loss reported to the displaced holder.
func lossFor(gain Change) Change {
	switch gain {
	case GainTransient:
		return LossTransient
	case GainTransientMayDuck:
		return LossTransientCanDuck
	default:
		return Loss
	}
}

// Result is the outcome of a Request or Abandon call.
type Result int

const (
	RequestFailed Result = iota
	RequestGranted
)

func (r Result) String() string {
	if r == RequestGranted {
		return "granted"
	}
	return "failed"
}

// Listener receives focus changes. Notifications are delivered outside the arbiter's lock,
// from the goroutine that caused the change.
type Listener interface {
	OnFocusChange(change Change)
}

// Arbiter grants and revokes audio focus.
type Arbiter interface {
	Request(l Listener, gain Change) Result
	Abandon(l Listener) Result
}

type holder struct {
	listener Listener
	gain     Change
}

// Manager is the in-process Arbiter.
type Manager struct {
	mu    sync.Mutex
	stack util.Stack[holder]
}

// NewManager returns an empty arbiter.
func NewManager() *Manager {
	return &Manager{}
}

// Request grants focus to l, displacing the current holder.
func (m *Manager) Request(l Listener, gain Change) Result {
	if l == nil {
		return RequestFailed
	}

	switch gain {
	case Gain, GainTransient, GainTransientMayDuck:
	default:
		return RequestFailed
	}

	m.mu.Lock()
	top := m.stack.Peek()
	m.stack.Remove(func(h holder) bool { return h.listener == l })
	m.stack.Push(holder{listener: l, gain: gain})
	m.mu.Unlock()

	if top.listener != nil && top.listener != l {
		loss := lossFor(gain)
		log.Debugf("audio focus: %s displaced by new request", loss)
		top.listener.OnFocusChange(loss)
	}

	return RequestGranted
}

// Abandon removes l from the focus stack. If l held focus, the next holder regains it.
func (m *Manager) Abandon(l Listener) Result {
	m.mu.Lock()
	wasTop := m.stack.Len() > 0 && m.stack.Peek().listener == l
	removed := m.stack.Remove(func(h holder) bool { return h.listener == l })
	next := m.stack.Peek()
	m.mu.Unlock()

	if !removed {
		return RequestGranted
	}

	if wasTop && next.listener != nil {
		next.listener.OnFocusChange(Gain)
	}

	return RequestGranted
}

// Holder returns the listener currently holding focus, or nil.
func (m *Manager) Holder() Listener {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.Peek().listener
}
