// Package renderer holds the display-side collaborator of the playback controller:
// it hands out output surfaces, receives decoded video geometry and keeps the
// persisted virtual screen distance.
package renderer

import (
	"fmt"
	"sync"

	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/player"
	"github.com/cinema-cli/cinema/prefs"
	"github.com/google/uuid"
)

// VideoSize is the geometry of the decoded video as last reported by the backend.
type VideoSize struct {
	Width, Height int
	Rotation      int
}

// String formats the size the way the controls display it.
func (v VideoSize) String() string {
	if v.Width == 0 || v.Height == 0 {
		return "unknown"
	}
	if v.Rotation != 0 {
		return fmt.Sprintf("%dx%d %d°", v.Width, v.Height, v.Rotation)
	}
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// NormalizeRotation maps a reported rotation to one of 0, 90, 180 or 270.
// Anything else is treated as 0.
func NormalizeRotation(degrees int) int {
	switch degrees {
	case 0, 90, 180, 270:
		return degrees
	default:
		return 0
	}
}

// Screen is the default renderer. It is safe for concurrent use.
type Screen struct {
	mu         sync.RWMutex
	store      prefs.Store
	title      string
	wid        int64
	surface    player.Surface
	size       VideoSize
	screenDist float64
	onResize   func(VideoSize)
}

// Options configure a Screen.
type Options struct {
	// Title is shown in the backend window.
	Title string
	// WID embeds the backend into an existing window when non-zero.
	WID int64
	// OnResize is called, outside of the screen's lock, whenever the video size changes.
	OnResize func(VideoSize)
}

// NewScreen returns a screen whose parameters persist in store.
func NewScreen(store prefs.Store, opts Options) *Screen {
	return &Screen{
		store:      store,
		title:      opts.Title,
		wid:        opts.WID,
		onResize:   opts.OnResize,
		screenDist: constant.DefaultScreenDist,
	}
}

// PrepareSurface allocates a fresh surface for a new playback session.
func (s *Screen) PrepareSurface() player.Surface {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.surface = player.Surface{
		ID:    uuid.NewString(),
		Title: s.title,
		WID:   s.wid,
	}
	s.size = VideoSize{}

	log.Debugf("renderer: prepared surface %s", s.surface.ID)
	return s.surface
}

// Surface returns the current surface.
func (s *Screen) Surface() player.Surface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surface
}

// OnVideoSizeChanged records the decoded video geometry.
func (s *Screen) OnVideoSizeChanged(width, height, rotation int) {
	size := VideoSize{Width: width, Height: height, Rotation: NormalizeRotation(rotation)}

	s.mu.Lock()
	s.size = size
	onResize := s.onResize
	s.mu.Unlock()

	log.Infof("renderer: video size %s", size)

	if onResize != nil {
		onResize(size)
	}
}

// VideoSize returns the last reported video geometry.
func (s *Screen) VideoSize() VideoSize {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Load reads the persisted screen distance, keeping the default when none is stored.
func (s *Screen) Load() {
	dist := s.store.GetFloat(prefs.ScreenDist, constant.DefaultScreenDist)

	s.mu.Lock()
	s.screenDist = dist
	s.mu.Unlock()
}

// SetParms sets the virtual screen distance. Non-positive distances are ignored.
func (s *Screen) SetParms(screenDist float64) {
	if screenDist <= 0 {
		log.Warnf("renderer: ignoring screen distance %v", screenDist)
		return
	}

	s.mu.Lock()
	s.screenDist = screenDist
	s.mu.Unlock()
}

// ScreenDist returns the current virtual screen distance.
func (s *Screen) ScreenDist() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screenDist
}

// Persist writes the screen distance to the preference store.
func (s *Screen) Persist() error {
	return s.store.PutFloat(prefs.ScreenDist, s.ScreenDist())
}
