package library

import "strings"

// Format is the stereoscopic layout of a movie.
type Format int

const (
	FormatUnknown Format = iota
	Format2D
	// FormatLeftRight3D packs both eyes side by side at half width.
	FormatLeftRight3D
	// FormatLeftRight3DFull packs both eyes side by side at full width.
	FormatLeftRight3DFull
	// FormatTopBottom3D stacks both eyes at half height.
	FormatTopBottom3D
	// FormatTopBottom3DFull stacks both eyes at full height.
	FormatTopBottom3DFull
)

// ParseFormat maps a sidecar format string onto a Format. Matching is case-insensitive.
func ParseFormat(s string) Format {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "2D":
		return Format2D
	case "3D", "3DLR":
		return FormatLeftRight3D
	case "3DLRF":
		return FormatLeftRight3DFull
	case "3DTB":
		return FormatTopBottom3D
	case "3DTBF":
		return FormatTopBottom3DFull
	default:
		return FormatUnknown
	}
}

func (f Format) String() string {
	switch f {
	case Format2D:
		return "2D"
	case FormatLeftRight3D:
		return "3DLR"
	case FormatLeftRight3DFull:
		return "3DLRF"
	case FormatTopBottom3D:
		return "3DTB"
	case FormatTopBottom3DFull:
		return "3DTBF"
	default:
		return "unknown"
	}
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Stereo reports whether the format carries two views.
func (f Format) Stereo() bool {
	return f != FormatUnknown && f != Format2D
}

// Category groups movies in the picker.
type Category int

const (
	MyVideos Category = iota
	Trailers
)

// ParseCategory maps a sidecar category string onto a Category. Anything unknown is MyVideos.
func ParseCategory(s string) Category {
	if strings.EqualFold(strings.TrimSpace(s), "trailers") {
		return Trailers
	}
	return MyVideos
}

func (c Category) String() string {
	if c == Trailers {
		return "trailers"
	}
	return "my videos"
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Movie is a playable file found in the library.
type Movie struct {
	Path     string   `json:"path"`
	Title    string   `json:"title"`
	Format   Format   `json:"format"`
	Is3D     bool     `json:"is3d"`
	Theater  string   `json:"theater,omitempty"`
	Category Category `json:"category"`

	AllowTheaterSelection bool `json:"allowTheaterSelection"`
	Encrypted             bool `json:"encrypted"`

	// Poster is the path of the poster image, empty when there is none yet.
	Poster string `json:"poster,omitempty"`
}

// String returns the title, which is what the picker shows.
func (m *Movie) String() string {
	return m.Title
}
