package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pzsz/voronoi"

	"github.com/ironsheep/stipple-gen/internal/stipple"
)

// wireframeGray is the intensity used for tessellation edges in overlays,
// visible against both the white background and black dots.
const wireframeGray = 128

// Raster renders the dot set onto a fresh white canvas of the given pixel
// dimensions, one filled black disc per dot. Useful as a quick preview of
// the vector output.
func Raster(dots []stipple.Dot, width, height int) *image.Gray {
	canvas := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Gray{255}), image.Point{}, draw.Src)
	for _, d := range dots {
		drawDisc(canvas, d, color.Gray{0})
	}
	return canvas
}

// Overlay renders the dot set over a copy of the source image, leaving the
// source untouched.
func Overlay(img *image.Gray, dots []stipple.Dot) *image.Gray {
	bounds := img.Bounds()
	canvas := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)
	for _, d := range dots {
		drawDisc(canvas, d, color.Gray{0})
	}
	return canvas
}

// VoronoiOverlay renders the dot set over a copy of the source image
// together with the edges of the Voronoi tessellation of the dot centers,
// so per-iteration snapshots show the regions the points relax within.
//
// Site sets the tessellation cannot handle degrade to a plain overlay.
// Dots are drawn over the wireframe so the sites stay visible.
func VoronoiOverlay(img *image.Gray, dots []stipple.Dot) *image.Gray {
	bounds := img.Bounds()
	canvas := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)
	for _, cell := range tessellate(dots, canvas.Bounds()) {
		for _, he := range cell.Halfedges {
			a := he.GetStartpoint()
			b := he.GetEndpoint()
			drawSegment(canvas, int(a.X), int(a.Y), int(b.X), int(b.Y), color.Gray{wireframeGray})
		}
	}
	for _, d := range dots {
		drawDisc(canvas, d, color.Gray{0})
	}
	return canvas
}

// tessellate computes the Voronoi cells of the dot centers, converting
// library panics on degenerate site sets into an empty result.
func tessellate(dots []stipple.Dot, bounds image.Rectangle) (cells []*voronoi.Cell) {
	if len(dots) == 0 {
		return nil
	}
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	vertices := make([]voronoi.Vertex, len(dots))
	for i, d := range dots {
		vertices[i] = voronoi.Vertex{X: float64(d.P.X), Y: float64(d.P.Y)}
	}
	bbox := voronoi.NewBBox(0, float64(bounds.Dx()), 0, float64(bounds.Dy()))
	return voronoi.ComputeDiagram(vertices, bbox, true).Cells
}

// drawSegment draws a straight line with a basic DDA walk, clipping to the
// canvas bounds.
func drawSegment(canvas *image.Gray, x0, y0, x1, y1 int, c color.Gray) {
	bounds := canvas.Bounds()
	steps := max(abs(x1-x0), abs(y1-y0))
	for i := 0; i <= steps; i++ {
		x, y := x0, y0
		if steps > 0 {
			t := float64(i) / float64(steps)
			x = x0 + int(float64(x1-x0)*t+0.5)
			y = y0 + int(float64(y1-y0)*t+0.5)
		}
		if x < 0 || x >= bounds.Dx() || y < 0 || y >= bounds.Dy() {
			continue
		}
		canvas.SetGray(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// drawDisc fills the disc centered on the dot, clipping at the canvas
// edges. Radii below one pixel still mark the center pixel.
func drawDisc(canvas *image.Gray, d stipple.Dot, c color.Gray) {
	bounds := canvas.Bounds()
	r := int(d.R)
	if r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dy*dy+dx*dx) > d.R*d.R {
				continue
			}
			x := d.P.X + dx
			y := d.P.Y + dy
			if x < 0 || x >= bounds.Dx() || y < 0 || y >= bounds.Dy() {
				continue
			}
			canvas.SetGray(x, y, c)
		}
	}
}

// WritePNGFile writes the raster preview to path atomically, matching the
// SVG exporter's no-partial-output guarantee.
func WritePNGFile(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".stipple-*.png")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to finalize PNG: %w", err)
	}
	return nil
}
