package player

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/cinema-cli/cinema/where"
	"github.com/spf13/afero"
)

// grabDirPrefix names the scratch directories mpv writes frames into.
const grabDirPrefix = "grab-"

// FrameGrabber extracts a single still frame from a movie with a headless mpv run.
type FrameGrabber struct {
	// Start is an mpv time expression for the frame to grab, such as "10%" or "00:01:30".
	Start string
}

// NewFrameGrabber returns a grabber that captures a frame a tenth of the way into the movie.
func NewFrameGrabber() *FrameGrabber {
	return &FrameGrabber{Start: "10%"}
}

// Grab decodes one frame of videoPath.
func (g *FrameGrabber) Grab(ctx context.Context, videoPath string) (image.Image, error) {
	target, err := sanitizeMediaTarget(videoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	fs := filesystem.API()
	dir, err := afero.TempDir(fs, where.Temp(), grabDirPrefix)
	if err != nil {
		return nil, fmt.Errorf("grab dir: %w", err)
	}
	defer func() { _ = fs.RemoveAll(dir) }()

	start := g.Start
	if start == "" {
		start = "10%"
	}

	cmd := exec.CommandContext(ctx, "mpv",
		"--no-config",
		"--really-quiet",
		"--no-audio",
		"--frames=1",
		"--start="+start,
		"--vo=image",
		"--vo-image-format=png",
		"--vo-image-outdir="+dir,
		target,
	)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("grab %s: %w: %v", videoPath, ErrIO, err)
	}

	img, err := decodeFrame(dir)
	if err != nil {
		return nil, fmt.Errorf("grab %s: %w", videoPath, err)
	}
	return img, nil
}

// decodeFrame reads the first png mpv wrote into dir.
func decodeFrame(dir string) (image.Image, error) {
	fs := filesystem.API()

	matches, err := afero.Glob(fs, filepath.Join(dir, "*.png"))
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("%w: no frame written", ErrIO)
	}

	f, err := fs.Open(matches[0])
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

// CleanGrabDirs removes grab directories in dir last touched more than olderThan ago.
// Younger ones may belong to a grab still running in another process.
func CleanGrabDirs(dir string, olderThan time.Duration) error {
	fs := filesystem.API()

	entries, err := fs.ReadDir(dir)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-olderThan)
	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), grabDirPrefix) {
			continue
		}

		if entry.ModTime().After(cutoff) {
			continue
		}

		if err := fs.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
