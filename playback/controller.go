package playback

import (
	"sync"

	"github.com/cinema-cli/cinema/focus"
	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/player"
	"github.com/cinema-cli/cinema/prefs"
	"github.com/cinema-cli/cinema/renderer"
	"github.com/google/uuid"
)

// Options wire a Controller to its collaborators. All fields are required.
type Options struct {
	// NewBackend creates a fresh backend for every started movie.
	NewBackend func() player.Backend
	Renderer   Renderer
	Prefs      prefs.Store
	Focus      focus.Arbiter
}

// seekState tracks the in-flight seek and the single coalesced follow-up target.
type seekState struct {
	waiting  bool
	haveNext bool
	nextMs   int
}

// Controller owns at most one playback session at a time.
//
// Every mutation runs on the controller's own goroutine, including backend events.
// Mutators block until their turn on that goroutine has finished, but report no errors:
// failures surface through State and HadPlaybackError.
type Controller struct {
	newBackend func() player.Backend
	renderer   Renderer
	store      prefs.Store
	arbiter    focus.Arbiter

	// owned by the loop goroutine
	seek       seekState
	holdsFocus bool
	events     <-chan player.Event

	// mu guards the backend handle and everything the query methods read.
	// Backend calls are made after copying the handle, never while holding mu;
	// a backend released meanwhile answers with player.ErrIllegalState.
	mu       sync.Mutex
	backend  player.Backend
	session  Session
	finished bool
	failed   bool

	calls   chan func()
	changes chan focus.Change
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New starts a controller. Close must be called to stop its goroutine.
func New(opts Options) *Controller {
	c := &Controller{
		newBackend: opts.NewBackend,
		renderer:   opts.Renderer,
		store:      opts.Prefs,
		arbiter:    opts.Focus,
		session:    Session{State: Idle, DurationMs: UnknownDuration},
		finished:   true,
		calls:      make(chan func()),
		changes:    make(chan focus.Change, 8),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	go c.run()
	return c
}

func (c *Controller) run() {
	defer close(c.done)

	for {
		select {
		case fn := <-c.calls:
			fn()
		case ev, ok := <-c.events:
			if !ok {
				c.events = nil
				continue
			}
			c.handleEvent(ev)
		case change := <-c.changes:
			log.Infof("playback: audio focus changed to %s, no action taken", change)
		case <-c.quit:
			return
		}
	}
}

// do runs fn on the loop goroutine and waits for it to return.
// It reports false if the controller is closed.
func (c *Controller) do(fn func()) bool {
	finished := make(chan struct{})

	select {
	case c.calls <- func() { defer close(finished); fn() }:
	case <-c.quit:
		return false
	}

	<-finished
	return true
}

// Close stops the current movie and terminates the controller goroutine.
func (c *Controller) Close() {
	c.once.Do(func() {
		c.do(c.stopMovie)
		close(c.quit)
		<-c.done
	})
}

// OnFocusChange implements focus.Listener. It never blocks.
func (c *Controller) OnFocusChange(change focus.Change) {
	select {
	case c.changes <- change:
	default:
		log.Warnf("playback: dropped audio focus change %s", change)
	}
}

// StartMovie tears down any current session and starts playing path.
// When resume is set, the persisted position is honored if the resume policy allows it.
func (c *Controller) StartMovie(path, displayName string, resume, encrypted bool) {
	c.do(func() { c.startMovie(path, displayName, resume, encrypted) })
}

// PauseMovie persists the position and pauses, if playing.
func (c *Controller) PauseMovie() {
	c.do(c.pauseMovie)
}

// ResumeMovie resumes a paused movie.
func (c *Controller) ResumeMovie() {
	c.do(c.resumeMovie)
}

// TogglePlaying pauses a playing movie and resumes a paused one.
func (c *Controller) TogglePlaying() {
	c.do(func() {
		if c.backendPlaying() {
			c.pauseMovie()
		} else {
			c.resumeMovie()
		}
	})
}

// StopMovie ends the session. Calling it without a session does nothing.
func (c *Controller) StopMovie() {
	c.do(c.stopMovie)
}

// SetPosition seeks to ms. Seeks issued while another is in flight are coalesced
// and only the most recent target is applied.
func (c *Controller) SetPosition(ms int) {
	c.do(func() { c.setPosition(ms) })
}

// SeekDelta seeks relative to the current position.
func (c *Controller) SeekDelta(deltaMs int) {
	c.do(func() {
		b := c.current()
		if b == nil {
			return
		}

		pos, err := b.CurrentPosition()
		if guard("position", err) != callOK {
			return
		}
		c.setPosition(pos + deltaMs)
	})
}

// Position returns the playhead position, or 0 without a usable backend.
func (c *Controller) Position() int {
	b := c.current()
	if b == nil {
		return 0
	}

	pos, err := b.CurrentPosition()
	if err != nil {
		log.Debugf("playback: position query: %s", err)
		return 0
	}
	return pos
}

// Duration returns the media length, or 0 without a usable backend.
func (c *Controller) Duration() int {
	b := c.current()
	if b == nil {
		return 0
	}

	d, err := b.Duration()
	if err != nil {
		log.Debugf("playback: duration query: %s", err)
		return 0
	}
	return d
}

// IsPlaying reports whether the playhead is advancing.
func (c *Controller) IsPlaying() bool {
	b := c.current()
	if b == nil {
		return false
	}

	playing, err := b.IsPlaying()
	if err != nil {
		log.Debugf("playback: playing query: %s", err)
		return false
	}
	return playing
}

// IsPlaybackFinished reports whether no movie is in progress.
func (c *Controller) IsPlaybackFinished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}

// HadPlaybackError reports whether the last start attempt failed.
func (c *Controller) HadPlaybackError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// State returns the current top-level state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State
}

// Session returns a snapshot of the current session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// CheckForMovieResume reports where path would start if it were started with resume enabled.
func (c *Controller) CheckForMovieResume(path string) (startMs int, resume bool) {
	pos := c.store.GetInt(prefs.PositionKey(path), 0)
	length := c.store.GetInt(prefs.LengthKey(path), UnknownDuration)
	return ResumePolicy(pos, length)
}

func (c *Controller) update(fn func(s *Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.session)
}

func (c *Controller) current() player.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend
}

func (c *Controller) backendPlaying() bool {
	b := c.current()
	if b == nil {
		return false
	}

	playing, err := b.IsPlaying()
	if guard("playing query", err) != callOK {
		return false
	}
	return playing
}

func (c *Controller) requestFocus() {
	if c.arbiter == nil {
		return
	}

	result := c.arbiter.Request(c, focus.Gain)
	if result == focus.RequestGranted {
		log.Info("playback: audio focus granted")
		c.holdsFocus = true
		return
	}

	log.Warn("playback: audio focus request failed")
}

func (c *Controller) releaseFocus() {
	if !c.holdsFocus {
		return
	}

	c.holdsFocus = false
	if c.arbiter.Abandon(c) != focus.RequestGranted {
		log.Warn("playback: abandoning audio focus failed")
	}
}

// releaseBackend detaches and releases the current backend.
func (c *Controller) releaseBackend() {
	c.mu.Lock()
	b := c.backend
	c.backend = nil
	c.mu.Unlock()

	c.events = nil
	c.seek = seekState{}

	if b == nil {
		return
	}

	if err := b.Release(); err != nil {
		log.Warnf("playback: releasing backend: %s", err)
	}
}

// saveLocation persists the position and length of the current movie.
// A finished movie is saved at position 0 so that it starts over next time,
// whatever the backend reports.
func (c *Controller) saveLocation(finished bool) {
	b := c.current()
	if b == nil {
		return
	}

	pos := 0
	if !finished {
		var err error
		if pos, err = b.CurrentPosition(); guard("position", err) != callOK {
			return
		}
	}

	length, err := b.Duration()
	lengthKnown := guard("duration", err) == callOK
	if !lengthKnown && !finished {
		return
	}

	path := c.Session().SourcePath
	log.Debugf("playback: saving %s at %d/%d", path, pos, length)

	if err := c.store.PutInt(prefs.PositionKey(path), pos); err != nil {
		log.Errorf("playback: saving position: %s", err)
	}

	if lengthKnown {
		if err := c.store.PutInt(prefs.LengthKey(path), length); err != nil {
			log.Errorf("playback: saving length: %s", err)
		}
	}

	c.update(func(s *Session) {
		s.LastKnownPositionMs = pos
		if lengthKnown {
			s.DurationMs = length
		}
	})
}

// fail ends a session that could not be started.
func (c *Controller) fail(op string, err error) {
	log.Errorf("playback: unable to play %s: %s: %s (%s)", c.Session().SourcePath, op, err, describe(classify(err)))

	c.releaseBackend()
	c.releaseFocus()

	c.mu.Lock()
	c.finished = true
	c.failed = true
	c.session.State = Failed
	c.session.SeekPending = false
	c.mu.Unlock()
}

func (c *Controller) startMovie(path, displayName string, resume, encrypted bool) {
	log.Infof("playback: starting %s (resume %t)", path, resume)

	c.requestFocus()

	// the previous session gets its resume position before its backend goes away
	if c.backendPlaying() {
		c.saveLocation(false)
	}

	c.mu.Lock()
	c.finished = false
	c.failed = false
	c.session = Session{
		ID:          uuid.NewString(),
		SourcePath:  path,
		DisplayName: displayName,
		State:       Preparing,
		DurationMs:  UnknownDuration,
		Encrypted:   encrypted,
	}
	c.mu.Unlock()

	surface := c.renderer.PrepareSurface()

	c.releaseBackend()

	b := c.newBackend()
	c.mu.Lock()
	c.backend = b
	c.mu.Unlock()
	c.events = b.Events()

	if err := b.SetSurface(surface); err != nil {
		c.fail("set surface "+surface.ID, err)
		return
	}

	if err := b.SetSource(path); err != nil {
		c.fail("set source", err)
		return
	}

	if err := b.Prepare(); err != nil {
		c.fail("prepare", err)
		return
	}

	if duration, err := b.Duration(); guard("duration", err) == callOK {
		c.update(func(s *Session) { s.DurationMs = duration })
	}

	guard("set volume", b.SetVolume(1, 1))

	startMs := 0
	if resume {
		if at, ok := c.CheckForMovieResume(path); ok {
			log.Infof("playback: resuming %s at %d", path, at)
			startMs = at
		}
	}

	if err := b.SeekTo(startMs); err != nil {
		c.fail("initial seek", err)
		return
	}

	guard("set looping", b.SetLooping(false))

	if err := b.Start(); err != nil {
		c.fail("start", err)
		return
	}

	c.update(func(s *Session) {
		s.State = Playing
		s.LastKnownPositionMs = startMs
	})

	if err := c.store.PutString(prefs.CurrentMovie, path); err != nil {
		log.Errorf("playback: saving current movie: %s", err)
	}
}

func (c *Controller) pauseMovie() {
	b := c.current()
	if b == nil {
		return
	}

	if !c.backendPlaying() {
		return
	}

	c.saveLocation(false)

	if guard("pause", b.Pause()) != callOK {
		return
	}

	c.update(func(s *Session) {
		if s.State == Playing {
			s.State = Paused
		}
	})
}

func (c *Controller) resumeMovie() {
	b := c.current()
	if b == nil {
		return
	}

	if guard("resume", b.Start()) != callOK {
		return
	}

	c.update(func(s *Session) {
		if s.State == Paused {
			s.State = Playing
		}
	})
}

func (c *Controller) stopMovie() {
	log.Debug("playback: stopping")

	if b := c.current(); b != nil {
		if c.backendPlaying() {
			c.saveLocation(false)
		}

		guard("stop", b.Stop())
		c.releaseBackend()
	}

	c.releaseFocus()

	c.mu.Lock()
	c.failed = false
	c.finished = true
	c.session.State = Idle
	c.session.SeekPending = false
	c.mu.Unlock()
}

func (c *Controller) setPosition(ms int) {
	b := c.current()
	if b == nil {
		return
	}

	wasPlaying := c.backendPlaying()
	if wasPlaying {
		guard("pause", b.Pause())
	}

	duration, err := b.Duration()
	if guard("duration", err) != callOK {
		if wasPlaying {
			guard("start", b.Start())
		}
		return
	}

	if ms >= duration {
		// seeking past the end lands on the last frame and leaves playback paused
		guard("seek", b.SeekTo(duration))
		c.update(func(s *Session) {
			if s.State == Playing {
				s.State = Paused
			}
		})
		return
	}

	if ms < 0 {
		ms = 0
	}

	if c.seek.waiting {
		c.seek.haveNext = true
		c.seek.nextMs = ms
	} else {
		c.seek.waiting = true
		if guard("seek", b.SeekTo(ms)) != callOK {
			c.seek.waiting = false
		}
	}

	c.update(func(s *Session) {
		s.SeekPending = c.seek.waiting
		s.LastKnownPositionMs = ms
	})

	if wasPlaying {
		guard("start", b.Start())
	}
}

func (c *Controller) handleEvent(ev player.Event) {
	switch ev.Kind {
	case player.EventSeekComplete:
		c.onSeekComplete()
	case player.EventCompletion:
		c.onCompletion()
	case player.EventVideoSize:
		c.renderer.OnVideoSizeChanged(ev.Width, ev.Height, renderer.NormalizeRotation(ev.Rotation))
	default:
		log.Debugf("playback: ignoring backend event %s", ev.Kind)
	}
}

func (c *Controller) onSeekComplete() {
	b := c.current()
	if b == nil {
		return
	}

	if c.seek.haveNext {
		c.seek.haveNext = false
		if guard("seek", b.SeekTo(c.seek.nextMs)) != callOK {
			c.seek.waiting = false
		}
	} else {
		c.seek.waiting = false
	}

	c.update(func(s *Session) { s.SeekPending = c.seek.waiting })
}

func (c *Controller) onCompletion() {
	log.Infof("playback: %s finished", c.Session().SourcePath)

	c.mu.Lock()
	c.finished = true
	c.mu.Unlock()

	c.saveLocation(true)
	c.releaseFocus()

	c.seek = seekState{}
	c.update(func(s *Session) {
		s.State = Finished
		s.SeekPending = false
	})
}
