package thumbnail

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

type stillGrabber struct {
	img image.Image
	err error
}

func (g stillGrabber) Grab(context.Context, string) (image.Image, error) {
	return g.img, g.err
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCrop(t *testing.T) {
	Convey("Crop keeps the centered region with the target aspect", t, func() {
		Convey("Wide frames lose their sides", func() {
			cropped := Crop(solid(1920, 1080, color.White), 228, 344)
			b := cropped.Bounds()
			So(b.Dy(), ShouldEqual, 1080)
			So(b.Dx(), ShouldEqual, 1080*228/344)
			So(b.Min.X, ShouldEqual, (1920-b.Dx())/2)
		})

		Convey("Tall frames lose their top and bottom", func() {
			cropped := Crop(solid(400, 1000, color.White), 1, 1)
			b := cropped.Bounds()
			So(b.Dx(), ShouldEqual, 400)
			So(b.Dy(), ShouldEqual, 400)
			So(b.Min.Y, ShouldEqual, 300)
		})

		Convey("Degenerate targets return the input", func() {
			img := solid(10, 10, color.Black)
			So(Crop(img, 0, 5), ShouldEqual, img)
		})
	})
}

func TestCreate(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()

		Convey("A poster is written at the requested size", func() {
			g := stillGrabber{img: solid(1280, 720, color.RGBA{R: 200, A: 255})}
			err := Create(context.Background(), g, "/m/a.mp4", "/posters/a.png", constant.PosterWidth, constant.PosterHeight)
			So(err, ShouldBeNil)

			f, err := filesystem.API().Open("/posters/a.png")
			So(err, ShouldBeNil)
			defer f.Close()

			img, err := png.Decode(f)
			So(err, ShouldBeNil)
			So(img.Bounds().Dx(), ShouldEqual, constant.PosterWidth)
			So(img.Bounds().Dy(), ShouldEqual, constant.PosterHeight)

			r, _, _, _ := img.At(constant.PosterWidth/2, constant.PosterHeight/2).RGBA()
			So(r>>8, ShouldEqual, 200)
		})

		Convey("Grab failures are reported", func() {
			boom := errors.New("boom")
			err := Create(context.Background(), stillGrabber{err: boom}, "/m/a.mp4", "/posters/a.png", 10, 10)
			So(errors.Is(err, boom), ShouldBeTrue)

			exists, _ := filesystem.API().Exists("/posters/a.png")
			So(exists, ShouldBeFalse)
		})

		Convey("Empty frames are rejected", func() {
			err := Create(context.Background(), stillGrabber{img: image.NewRGBA(image.Rectangle{})}, "/m/a.mp4", "/p.png", 10, 10)
			So(errors.Is(err, ErrEmptyFrame), ShouldBeTrue)
		})
	})
}
