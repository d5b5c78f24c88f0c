package library

import (
	"encoding/json"
	"fmt"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/cinema-cli/cinema/util"
)

// sidecar is the optional <stem>.txt JSON file describing a movie.
type sidecar struct {
	Title     *string `json:"title"`
	Format    *string `json:"format"`
	Theater   *string `json:"theater"`
	Category  *string `json:"category"`
	Encrypted *bool   `json:"encrypted"`
}

// SidecarPath returns the metadata file consulted for moviePath.
func SidecarPath(moviePath string) string {
	return util.StripExt(moviePath) + ".txt"
}

// readSidecar applies the sidecar of m, if there is one. A missing sidecar is not an error.
func readSidecar(m *Movie) error {
	path := SidecarPath(m.Path)

	exists, err := filesystem.API().Exists(path)
	if err != nil || !exists {
		return err
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return err
	}

	var meta sidecar
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("malformed metadata %s: %w", path, err)
	}

	if meta.Title != nil {
		m.Title = *meta.Title
	}
	if meta.Format != nil {
		m.Format = ParseFormat(*meta.Format)
		m.Is3D = m.Format.Stereo()
	}
	if meta.Theater != nil {
		m.Theater = *meta.Theater
	}
	if meta.Category != nil {
		m.Category = ParseCategory(*meta.Category)
	}
	if meta.Encrypted != nil {
		m.Encrypted = *meta.Encrypted
	}

	return nil
}
