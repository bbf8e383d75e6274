package field

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/stipple-gen/internal/geometry"
)

// arrowStride spaces the sampled arrows so the plot stays readable on
// large images.
const arrowStride = 8

// ArrowPlot renders the flow field as red arrows over the source image.
// One arrow is drawn every few pixels, from the pixel along its flow
// direction, scaled by its magnitude.
func ArrowPlot(img *image.Gray, f *Field) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	arrowColor := color.RGBA{255, 0, 0, 255}
	for y := 0; y < bounds.Dy(); y += arrowStride {
		for x := 0; x < bounds.Dx(); x += arrowStride {
			angle, magnitude := f.At(y, x)
			if magnitude == 0 {
				continue
			}
			rad := angle * math.Pi / 180
			tx := x + int(magnitude*math.Cos(rad))
			ty := y + int(magnitude*math.Sin(rad))
			drawLine(out, x, y, tx, ty, arrowColor)
		}
	}
	return out
}

// HSVPlot renders the flow field as a color map: the angle maps to hue,
// the magnitude (normalized to the field's maximum) to value, with full
// saturation throughout.
func HSVPlot(f *Field) *image.RGBA {
	height := len(f.Angle)
	width := 0
	if height > 0 {
		width = len(f.Angle[0])
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))

	maxMag := 0.0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if f.Magnitude[y][x] > maxMag {
				maxMag = f.Magnitude[y][x]
			}
		}
	}
	if maxMag == 0 {
		maxMag = 1
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := colorful.Hsv(f.Angle[y][x], 1, f.Magnitude[y][x]/maxMag)
			r, g, b := c.RGB255()
			out.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return out
}

// drawLine draws a straight line with a basic DDA walk, clipping to the
// image bounds.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	bounds := img.Bounds()
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		img.SetRGBA(geometry.Clamp(x0, 0, bounds.Dx()-1), geometry.Clamp(y0, 0, bounds.Dy()-1), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(t*float64(x1-x0)))
		y := y0 + int(math.Round(t*float64(y1-y0)))
		img.SetRGBA(geometry.Clamp(x, 0, bounds.Dx()-1), geometry.Clamp(y, 0, bounds.Dy()-1), c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
