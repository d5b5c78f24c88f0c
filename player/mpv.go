package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cinema-cli/cinema/log"
)

const (
	socketWaitRetries   = 10
	socketWaitDelay     = 300 * time.Millisecond
	durationWaitRetries = 20
	durationWaitDelay   = 100 * time.Millisecond
)

// mpvState tracks where the backend is in its lifecycle.
type mpvState int

const (
	mpvIdle mpvState = iota
	mpvInitialized
	mpvPrepared
	mpvStopped
	mpvReleased
)

// MPV implements the Backend interface using mpv's JSON-IPC protocol.
// One MPV value drives one mpv process for one movie.
type MPV struct {
	surface    Surface
	source     string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	done       chan struct{} // closed on Release
	listener   *EventListener
	events     chan Event

	mu sync.Mutex // Protects socket writes

	stateMu sync.Mutex
	state   mpvState
	eof     bool
}

// NewMPV creates a new MPV backend (does not start mpv).
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
		done:   make(chan struct{}),
		events: make(chan Event, 16),
	}
}

// NewMPVBackend adapts NewMPV to a backend factory.
func NewMPVBackend() Backend {
	return NewMPV()
}

func (m *MPV) getState() mpvState {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state
}

func (m *MPV) setState(s mpvState) {
	m.stateMu.Lock()
	m.state = s
	m.stateMu.Unlock()
}

// requirePrepared fails with ErrIllegalState unless mpv is up and has media loaded.
func (m *MPV) requirePrepared(op string) error {
	if s := m.getState(); s != mpvPrepared {
		return fmt.Errorf("%s: %w (state %d)", op, ErrIllegalState, s)
	}
	return nil
}

// SetSurface records the render target used when mpv is launched.
func (m *MPV) SetSurface(surface Surface) error {
	if m.getState() != mpvIdle {
		return fmt.Errorf("set surface: %w", ErrIllegalState)
	}
	m.surface = surface
	return nil
}

// SetSource validates and records the media target.
func (m *MPV) SetSource(path string) error {
	if m.getState() != mpvIdle {
		return fmt.Errorf("set source: %w", ErrIllegalState)
	}

	// Sanitize the target to prevent flag injection
	safe, err := sanitizeMediaTarget(path)
	if err != nil {
		return fmt.Errorf("set source: %w: %v", ErrInvalidArgument, err)
	}

	if !strings.Contains(safe, "://") {
		info, err := os.Stat(safe)
		if err != nil {
			return fmt.Errorf("set source: %w: %v", ErrIO, err)
		}
		if info.IsDir() {
			return fmt.Errorf("set source: %w: %s is a directory", ErrIO, safe)
		}
	}

	m.source = safe
	m.setState(mpvInitialized)
	return nil
}

// Prepare launches mpv paused on the source and blocks until the media duration is known.
func (m *MPV) Prepare() error {
	if m.getState() != mpvInitialized {
		return fmt.Errorf("prepare: %w", ErrIllegalState)
	}

	// Generate a random socket path using os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/)
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("cinema-%x.sock", randomBytes))

	title := sanitizeTitle(m.surface.Title)
	if title == "" {
		title = filepath.Base(m.source)
	}

	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--pause",
	}

	if m.surface.WID != 0 {
		args = append(args, fmt.Sprintf("--wid=%d", m.surface.WID))
	}

	args = append(args, m.source)

	m.cmd = exec.Command("mpv", args...)

	// Detach from parent process group so terminal signals aimed at the TUI don't kill mpv.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w: %v", ErrIO, err)
	}

	// Background goroutine to reap the process and prevent zombies
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		m.kill()
		return fmt.Errorf("mpv socket not ready: %w: %v", ErrIO, err)
	}

	m.listener = NewEventListener(m.socketPath, m.handleEvent)
	if err := m.listener.Start(); err != nil {
		m.kill()
		return fmt.Errorf("event listener: %w: %v", ErrIO, err)
	}

	if err := m.waitForDuration(); err != nil {
		m.listener.Stop()
		m.kill()
		return fmt.Errorf("prepare %s: %w: %v", m.source, ErrIO, err)
	}

	m.setState(mpvPrepared)
	return nil
}

// kill terminates an mpv process that never became usable.
func (m *MPV) kill() {
	if m.cmd == nil || m.cmd.Process == nil {
		return
	}
	select {
	case <-m.exited:
	default:
		log.Warnf("killing mpv: not ready")
		_ = killProcess(m.cmd)
	}
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// waitForDuration polls until mpv has demuxed the file far enough to report a duration.
func (m *MPV) waitForDuration() error {
	for i := 0; i < durationWaitRetries; i++ {
		if _, err := m.getFloatProperty("duration"); err == nil {
			return nil
		}

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited while opening source")
		case <-time.After(durationWaitDelay):
		}
	}
	return fmt.Errorf("duration unavailable after %d attempts", durationWaitRetries)
}

// handleEvent maps raw mpv notifications onto backend events.
func (m *MPV) handleEvent(name string, data interface{}) {
	ev, ok := translateEvent(name, data)
	if !ok {
		return
	}

	if ev.Kind == EventCompletion {
		m.stateMu.Lock()
		already := m.eof
		m.eof = true
		m.stateMu.Unlock()
		if already {
			return
		}
	}

	select {
	case m.events <- ev:
	case <-m.done:
	}
}

// translateEvent converts an mpv property change or event into a backend Event.
func translateEvent(name string, data interface{}) (Event, bool) {
	switch name {
	case "playback-restart":
		return Event{Kind: EventSeekComplete}, true
	case "eof-reached":
		if reached, _ := data.(bool); reached {
			return Event{Kind: EventCompletion}, true
		}
	case "video-params":
		params, ok := data.(map[string]interface{})
		if !ok {
			return Event{}, false
		}
		w, _ := params["w"].(float64)
		h, _ := params["h"].(float64)
		rotate, _ := params["rotate"].(float64)
		if w <= 0 || h <= 0 {
			return Event{}, false
		}
		return Event{Kind: EventVideoSize, Width: int(w), Height: int(h), Rotation: int(rotate)}, true
	}
	return Event{}, false
}

// Events returns the notification channel.
func (m *MPV) Events() <-chan Event {
	return m.events
}

// Start resumes playback.
func (m *MPV) Start() error {
	if err := m.requirePrepared("start"); err != nil {
		return err
	}
	return m.Set("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	if err := m.requirePrepared("pause"); err != nil {
		return err
	}
	return m.Set("pause", true)
}

// Stop unloads the media while keeping the process alive until Release.
func (m *MPV) Stop() error {
	if err := m.requirePrepared("stop"); err != nil {
		return err
	}
	_, err := m.sendCommand([]interface{}{"stop"})
	m.setState(mpvStopped)
	return err
}

// SeekTo moves playback to the given absolute position.
func (m *MPV) SeekTo(ms int) error {
	if err := m.requirePrepared("seek"); err != nil {
		return err
	}

	m.stateMu.Lock()
	m.eof = false
	m.stateMu.Unlock()

	_, err := m.sendCommand([]interface{}{"seek", float64(ms) / 1000, "absolute+exact"})
	return err
}

// CurrentPosition returns the current playback position.
func (m *MPV) CurrentPosition() (int, error) {
	if err := m.requirePrepared("position"); err != nil {
		return 0, err
	}
	pos, err := m.getFloatProperty("time-pos")
	if err != nil {
		return 0, err
	}
	return int(pos * 1000), nil
}

// Duration returns the total duration of the current media.
func (m *MPV) Duration() (int, error) {
	if err := m.requirePrepared("duration"); err != nil {
		return 0, err
	}
	dur, err := m.getFloatProperty("duration")
	if err != nil {
		return 0, err
	}
	return int(dur * 1000), nil
}

// IsPlaying reports whether mpv is unpaused and has not reached the end.
func (m *MPV) IsPlaying() (bool, error) {
	if err := m.requirePrepared("is playing"); err != nil {
		return false, err
	}

	data, err := m.sendCommand([]interface{}{"get_property", "pause"})
	if err != nil {
		return false, err
	}
	paused, ok := data.(bool)
	if !ok {
		return false, nil
	}

	m.stateMu.Lock()
	eof := m.eof
	m.stateMu.Unlock()

	return !paused && !eof, nil
}

// SetVolume maps the channel volumes onto mpv's single volume property.
func (m *MPV) SetVolume(left, right float64) error {
	if err := m.requirePrepared("set volume"); err != nil {
		return err
	}
	return m.Set("volume", (left+right)/2*100)
}

// SetLooping toggles file looping.
func (m *MPV) SetLooping(loop bool) error {
	if err := m.requirePrepared("set looping"); err != nil {
		return err
	}
	if loop {
		return m.Set("loop-file", "inf")
	}
	return m.Set("loop-file", "no")
}

// Release shuts down the mpv process and cleans up resources.
func (m *MPV) Release() error {
	m.stateMu.Lock()
	if m.state == mpvReleased {
		m.stateMu.Unlock()
		return nil
	}
	started := m.cmd != nil
	m.state = mpvReleased
	m.stateMu.Unlock()

	close(m.done)

	if m.listener != nil {
		m.listener.Stop()
	}

	if !started {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	if err := os.Remove(m.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove socket: %w", err)
	}
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Set a property
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty target")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in target")
	}

	// Prevent flag injection: targets must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("target must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the title for mpv
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
