package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-sky-pathtracer/pkg/core"
)

// Frame is a rendered image: row-major, top row first, every channel in [0, 1]
type Frame struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFrame creates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color of pixel (x, y), where y = 0 is the top row
func (f *Frame) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Set stores a pixel color, clamped to [0, 1]
func (f *Frame) Set(x, y int, c core.Vec3) {
	f.Pixels[y*f.Width+x] = c.Clamp(0, 1)
}

// RGBA converts the frame to an 8-bit image
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, ToRGBA(f.At(x, y)))
		}
	}
	return img
}

// AverageLuminance returns the mean luminance over all pixels
func (f *Frame) AverageLuminance() float64 {
	if len(f.Pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range f.Pixels {
		total += p.Luminance()
	}
	return total / float64(len(f.Pixels))
}

// ToByte converts a color channel to [0, 255] as round(255 * clamp(c))
func ToByte(c float64) uint8 {
	return uint8(math.Round(255 * max(0, min(1, c))))
}

// ToRGBA converts a linear color to an opaque 8-bit color without gamma correction
func ToRGBA(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: ToByte(c.X),
		G: ToByte(c.Y),
		B: ToByte(c.Z),
		A: 255,
	}
}
