// Package thumbnail produces poster images for movies that do not ship one.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/cinema-cli/cinema/log"
	"golang.org/x/image/draw"
)

// ErrEmptyFrame is returned when a grabbed frame has no pixels.
var ErrEmptyFrame = errors.New("grabbed frame is empty")

// Grabber extracts a representative still frame from a video.
type Grabber interface {
	Grab(ctx context.Context, videoPath string) (image.Image, error)
}

// Crop returns the largest centered region of img with the aspect ratio width:height.
func Crop(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if width <= 0 || height <= 0 || b.Empty() {
		return img
	}

	srcW, srcH := b.Dx(), b.Dy()

	// compare srcW/srcH against width/height without floating point
	cropW, cropH := srcW, srcH
	if srcW*height > srcH*width {
		cropW = srcH * width / height
	} else {
		cropH = srcW * height / width
	}

	x0 := b.Min.X + (srcW-cropW)/2
	y0 := b.Min.Y + (srcH-cropH)/2
	rect := image.Rect(x0, y0, x0+cropW, y0+cropH)

	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}

	dst := image.NewRGBA(image.Rect(0, 0, cropW, cropH))
	draw.Copy(dst, image.Point{}, img, rect, draw.Src, nil)
	return dst
}

// Scale resizes img to exactly width by height.
func Scale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Poster crops frame to the aspect of width by height and scales it to that size.
func Poster(frame image.Image, width, height int) *image.RGBA {
	return Scale(Crop(frame, width, height), width, height)
}

// Write encodes img as a PNG at path.
func Write(img image.Image, path string) (err error) {
	if err = filesystem.API().MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	file, err := filesystem.API().Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Errorf("thumbnail: closing %s: %s", path, closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	return png.Encode(file, img)
}

// Create grabs a frame from videoPath and writes it as a width by height PNG poster at outPath.
func Create(ctx context.Context, grabber Grabber, videoPath, outPath string, width, height int) error {
	frame, err := grabber.Grab(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("thumbnail: grabbing %s: %w", videoPath, err)
	}

	if frame.Bounds().Empty() {
		return fmt.Errorf("thumbnail: %s: %w", videoPath, ErrEmptyFrame)
	}

	poster := Poster(frame, width, height)

	if err := Write(poster, outPath); err != nil {
		return fmt.Errorf("thumbnail: writing %s: %w", outPath, err)
	}

	log.Infof("thumbnail: wrote %s", outPath)
	return nil
}
