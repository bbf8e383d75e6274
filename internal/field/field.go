package field

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/stipple-gen/internal/geometry"
)

// homingMagnitude is the fixed bias strength assigned to background pixels,
// which always point toward the image center.
const homingMagnitude = 10.0

// Field is a per-pixel directional bias grid derived from local image
// content. It steers point motion along implied contours during flow-biased
// relaxation.
//
// Both grids are indexed [y][x] and share the source image's dimensions.
// A Field is computed once and never mutated afterwards.
type Field struct {
	// Angle holds the flow direction per pixel in degrees, normalized
	// to [0, 360). The convention is atan2(dy, dx) with Y pointing down.
	Angle [][]float64

	// Magnitude holds the non-negative flow strength per pixel, the
	// Euclidean distance to the flow target.
	Magnitude [][]float64
}

// Build computes the flow field for a grayscale image.
//
// The image is first smoothed with a 3x3 Gaussian kernel (sigma=1) to
// reduce noise. Each pixel is then classified on its smoothed value:
//
//   - 255 (background): the flow points from the pixel toward the image
//     center with a fixed magnitude of 10, so background points drift
//     consistently.
//   - 0 (full foreground): no bias; angle and magnitude are zero.
//   - otherwise: the (2*windowSize+1)^2 window centered on the pixel is
//     scanned for its darkest location, and the flow points from the pixel
//     toward it with magnitude equal to the Euclidean distance. Windows are
//     clamped to the image bounds at the borders.
//
// The scan is O(height * width * windowSize^2) and is the dominant one-time
// cost of a flow-biased run.
func Build(img *image.Gray, windowSize int) (*Field, error) {
	if img == nil {
		return nil, fmt.Errorf("flow field: nil image")
	}
	if windowSize < 1 {
		return nil, fmt.Errorf("flow field: window size %d, must be >= 1", windowSize)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("flow field: empty image")
	}

	smoothed := smooth(img)

	f := &Field{
		Angle:     make([][]float64, height),
		Magnitude: make([][]float64, height),
	}
	for y := range f.Angle {
		f.Angle[y] = make([]float64, width)
		f.Magnitude[y] = make([]float64, width)
	}

	// Pixel-grid center so that odd-sized images home on an exact pixel.
	centerY := float64(height-1) / 2
	centerX := float64(width-1) / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch v := smoothed[y][x]; {
			case v == 255:
				angle, _ := angleMagnitude(centerY-float64(y), centerX-float64(x))
				f.Angle[y][x] = angle
				f.Magnitude[y][x] = homingMagnitude
			case v == 0:
				// No bias on full foreground.
			default:
				dy, dx := darkestOffset(smoothed, y, x, windowSize)
				angle, magnitude := angleMagnitude(float64(dy), float64(dx))
				f.Angle[y][x] = angle
				f.Magnitude[y][x] = magnitude
			}
		}
	}

	return f, nil
}

// smooth applies a 3x3 Gaussian kernel (sigma=1) to the image, returning
// the result as a [y][x] grid. Border pixels use clamped (replicated) edge
// values, so constant images stay constant.
func smooth(img *image.Gray) [][]uint8 {
	kernel := [3][3]int{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}
	const kernelSum = 16

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	result := make([][]uint8, height)
	for y := 0; y < height; y++ {
		result[y] = make([]uint8, width)
		for x := 0; x < width; x++ {
			sum := 0
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := geometry.Clamp(y+ky, 0, height-1)
					px := geometry.Clamp(x+kx, 0, width-1)
					sum += int(img.GrayAt(bounds.Min.X+px, bounds.Min.Y+py).Y) * kernel[ky+1][kx+1]
				}
			}
			result[y][x] = uint8((sum + kernelSum/2) / kernelSum)
		}
	}
	return result
}

// darkestOffset scans the window of half-width ws centered on (y, x) for the
// minimum-intensity pixel and returns its offset from the center. Ties go to
// the first hit in row-major order. The window is clamped to the grid.
func darkestOffset(grid [][]uint8, y, x, ws int) (dy, dx int) {
	height := len(grid)
	width := len(grid[0])

	minVal := grid[y][x]
	y0 := geometry.Clamp(y-ws, 0, height-1)
	y1 := geometry.Clamp(y+ws, 0, height-1)
	x0 := geometry.Clamp(x-ws, 0, width-1)
	x1 := geometry.Clamp(x+ws, 0, width-1)

	for wy := y0; wy <= y1; wy++ {
		for wx := x0; wx <= x1; wx++ {
			if grid[wy][wx] < minVal {
				minVal = grid[wy][wx]
				dy = wy - y
				dx = wx - x
			}
		}
	}
	return dy, dx
}

// angleMagnitude converts a (dy, dx) displacement into a direction in
// degrees normalized to [0, 360) and its Euclidean magnitude.
func angleMagnitude(dy, dx float64) (angle, magnitude float64) {
	angle = math.Atan2(dy, dx)
	angle = math.Mod(angle+2*math.Pi, 2*math.Pi) * (180 / math.Pi)
	return angle, math.Hypot(dx, dy)
}

// At returns the angle (degrees) and magnitude at pixel (y, x).
func (f *Field) At(y, x int) (angle, magnitude float64) {
	return f.Angle[y][x], f.Magnitude[y][x]
}
