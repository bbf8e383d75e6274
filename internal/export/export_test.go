package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/stipple-gen/internal/stipple"
)

func TestWriteSVG(t *testing.T) {
	dots := []stipple.Dot{
		{P: stipple.Point{Y: 8, X: 1}, R: 2},
		{P: stipple.Point{Y: 1, X: 1}, R: 1.5},
		{P: stipple.Point{Y: 4, X: 4}, R: 1},
	}

	var sb strings.Builder
	WriteSVG(&sb, dots, 20, 10)
	out := sb.String()

	// The float canvas prints every coordinate with two decimals.
	if !strings.Contains(out, `viewBox="0.00 0.00 20.00 10.00"`) {
		t.Errorf("missing pixel-matched viewbox in output:\n%s", out)
	}
	if got := strings.Count(out, "<circle"); got != 3 {
		t.Errorf("circle count: got %d, want 3", got)
	}

	// Draw order is squared distance from the origin: (1,1) then (4,4)
	// then (1,8).
	first := strings.Index(out, `cx="1.00" cy="1.00"`)
	second := strings.Index(out, `cx="4.00" cy="4.00"`)
	third := strings.Index(out, `cx="1.00" cy="8.00"`)
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("missing circle coordinates in output:\n%s", out)
	}
	if !(first < second && second < third) {
		t.Errorf("circles out of order: positions %d, %d, %d", first, second, third)
	}
}

func TestWriteSVG_CoordinateConvention(t *testing.T) {
	// Stored points are (row, column); the document uses x=column, y=row.
	dots := []stipple.Dot{{P: stipple.Point{Y: 3, X: 7}, R: 1}}

	var sb strings.Builder
	WriteSVG(&sb, dots, 10, 10)
	if !strings.Contains(sb.String(), `cx="7.00" cy="3.00"`) {
		t.Errorf("coordinate convention violated:\n%s", sb.String())
	}
}

func TestWriteSVGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	dots := []stipple.Dot{{P: stipple.Point{Y: 2, X: 2}, R: 1}}

	if err := WriteSVGFile(path, dots, 5, 5); err != nil {
		t.Fatalf("WriteSVGFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("output is not an SVG document:\n%s", data)
	}

	// No temporary files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to list output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files in output dir: %v", entries)
	}
}

func TestRaster(t *testing.T) {
	dots := []stipple.Dot{{P: stipple.Point{Y: 5, X: 5}, R: 2}}
	img := Raster(dots, 10, 10)

	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Fatalf("canvas shape: got %v, want 10x10", img.Bounds())
	}
	if got := img.GrayAt(5, 5).Y; got != 0 {
		t.Errorf("disc center: got %d, want 0", got)
	}
	if got := img.GrayAt(5, 7).Y; got != 0 {
		t.Errorf("disc edge (5,7): got %d, want 0", got)
	}
	if got := img.GrayAt(0, 0).Y; got != 255 {
		t.Errorf("empty canvas corner: got %d, want 255", got)
	}
	if got := img.GrayAt(8, 5).Y; got != 255 {
		t.Errorf("outside disc: got %d, want 255", got)
	}
}

func TestRaster_ClipsAtEdges(t *testing.T) {
	dots := []stipple.Dot{{P: stipple.Point{Y: 0, X: 0}, R: 3}}
	img := Raster(dots, 5, 5)
	if got := img.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("corner disc center: got %d, want 0", got)
	}
}

func TestVoronoiOverlay(t *testing.T) {
	src := Raster(nil, 20, 20) // blank white source
	dots := []stipple.Dot{
		{P: stipple.Point{Y: 5, X: 5}, R: 1},
		{P: stipple.Point{Y: 14, X: 12}, R: 1},
		{P: stipple.Point{Y: 8, X: 16}, R: 1},
	}

	img := VoronoiOverlay(src, dots)
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 20 {
		t.Fatalf("canvas shape: got %v, want 20x20", img.Bounds())
	}
	for _, d := range dots {
		if got := img.GrayAt(d.P.X, d.P.Y).Y; got != 0 {
			t.Errorf("dot center %+v: got %d, want 0", d.P, got)
		}
	}
	// The source stays untouched.
	if got := src.GrayAt(5, 5).Y; got != 255 {
		t.Errorf("source mutated at (5,5): got %d, want 255", got)
	}
	// Cell edges appear somewhere on the canvas.
	found := false
	for y := 0; y < 20 && !found; y++ {
		for x := 0; x < 20 && !found; x++ {
			found = img.GrayAt(x, y).Y == 128
		}
	}
	if !found {
		t.Error("no tessellation edges drawn")
	}
}

func TestVoronoiOverlay_DegenerateSiteSet(t *testing.T) {
	// This site set makes the sweep-line tessellation blow up; the
	// overlay must degrade to points-only instead of panicking.
	src := Raster(nil, 16, 16)
	coords := []stipple.Point{
		{Y: 1, X: 10}, {Y: 3, X: 14}, {Y: 13, X: 2}, {Y: 5, X: 7},
		{Y: 1, X: 2}, {Y: 8, X: 14}, {Y: 7, X: 11}, {Y: 12, X: 12},
	}
	dots := make([]stipple.Dot, len(coords))
	for i, p := range coords {
		dots[i] = stipple.Dot{P: p, R: 1}
	}

	img := VoronoiOverlay(src, dots)
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("canvas shape: got %v, want 16x16", img.Bounds())
	}
	for _, d := range dots {
		if got := img.GrayAt(d.P.X, d.P.Y).Y; got != 0 {
			t.Errorf("dot center %+v: got %d, want 0", d.P, got)
		}
	}
}

func TestWritePNGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	img := Raster([]stipple.Dot{{P: stipple.Point{Y: 1, X: 1}, R: 1}}, 4, 4)

	if err := WritePNGFile(path, img); err != nil {
		t.Fatalf("WritePNGFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}
