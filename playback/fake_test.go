package playback

import (
	"sync"

	"github.com/cinema-cli/cinema/focus"
	"github.com/cinema-cli/cinema/player"
)

type fakeBackend struct {
	mu sync.Mutex

	events   chan player.Event
	failOn   map[string]error
	source   string
	surface  player.Surface
	playing  bool
	position int
	duration int
	volume   float64
	looping  bool

	seeks    []int
	stops    int
	released int

	// gate holds CurrentPosition until closed; entered is signalled on arrival
	gate    chan struct{}
	entered chan struct{}
}

func newFakeBackend(duration int) *fakeBackend {
	return &fakeBackend{
		events:   make(chan player.Event),
		failOn:   make(map[string]error),
		duration: duration,
		looping:  true,
	}
}

func (f *fakeBackend) fail(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failOn[op]
}

func (f *fakeBackend) SetSurface(s player.Surface) error {
	if err := f.fail("surface"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.surface = s
	return nil
}

func (f *fakeBackend) SetSource(path string) error {
	if err := f.fail("source"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.source = path
	return nil
}

func (f *fakeBackend) Prepare() error {
	return f.fail("prepare")
}

func (f *fakeBackend) Start() error {
	if err := f.fail("start"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = true
	return nil
}

func (f *fakeBackend) Pause() error {
	if err := f.fail("pause"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	return nil
}

func (f *fakeBackend) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.playing = false
	return nil
}

func (f *fakeBackend) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	return nil
}

func (f *fakeBackend) SeekTo(ms int) error {
	if err := f.fail("seek"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, ms)
	f.position = ms
	return nil
}

func (f *fakeBackend) CurrentPosition() (int, error) {
	if err := f.fail("position"); err != nil {
		return 0, err
	}

	f.mu.Lock()
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if gate != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position, nil
}

func (f *fakeBackend) Duration() (int, error) {
	if err := f.fail("duration"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration, nil
}

func (f *fakeBackend) IsPlaying() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing, nil
}

func (f *fakeBackend) SetVolume(l, r float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = (l + r) / 2
	return nil
}

func (f *fakeBackend) SetLooping(loop bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.looping = loop
	return nil
}

func (f *fakeBackend) Events() <-chan player.Event {
	return f.events
}

func (f *fakeBackend) setPosition(ms int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = ms
}

// reachEnd stops the playhead the way a backend does at the end of the media.
func (f *fakeBackend) reachEnd() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
}

func (f *fakeBackend) holdPositions(gate, entered chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = gate
	f.entered = entered
}

func (f *fakeBackend) seekCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.seeks...)
}

func (f *fakeBackend) releaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

type countingArbiter struct {
	mu       sync.Mutex
	requests int
	abandons int
}

func (a *countingArbiter) Request(focus.Listener, focus.Change) focus.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests++
	return focus.RequestGranted
}

func (a *countingArbiter) Abandon(focus.Listener) focus.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abandons++
	return focus.RequestGranted
}

func (a *countingArbiter) counts() (requests, abandons int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests, a.abandons
}

type fakeRenderer struct {
	mu       sync.Mutex
	surfaces int
	sizes    [][3]int
}

func (r *fakeRenderer) PrepareSurface() player.Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces++
	return player.Surface{ID: "surface"}
}

func (r *fakeRenderer) OnVideoSizeChanged(w, h, rot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes = append(r.sizes, [3]int{w, h, rot})
}

// transportRecorder records the transport calls made by the scrubber and controls.
type transportRecorder struct {
	position int
	playing  bool
	calls    []string
	seeks    []int
}

func (t *transportRecorder) PauseMovie() {
	t.calls = append(t.calls, "pause")
	t.playing = false
}

func (t *transportRecorder) ResumeMovie() {
	t.calls = append(t.calls, "resume")
	t.playing = true
}

func (t *transportRecorder) TogglePlaying() {
	t.calls = append(t.calls, "toggle")
	t.playing = !t.playing
}

func (t *transportRecorder) SetPosition(ms int) {
	t.seeks = append(t.seeks, ms)
	t.position = ms
}

func (t *transportRecorder) Position() int {
	return t.position
}
