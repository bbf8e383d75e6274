package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	svg "github.com/ajstarks/svgo/float"

	"github.com/ironsheep/stipple-gen/internal/stipple"
)

// dotStyle is the fixed stroke/fill style applied to every exported circle.
const dotStyle = "fill:black;stroke:black;stroke-width:0.5"

// WriteSVG serializes the dot set as a vector document: one circle per dot
// carrying its center and radius, inside a root element whose width,
// height, and viewbox match the source image pixel dimensions.
//
// Circles are emitted sorted by squared distance from the origin, a
// deterministic, reproducible draw order. Stored coordinates are (row,
// column); the vector format uses x=column, y=row.
func WriteSVG(w io.Writer, dots []stipple.Dot, width, height int) {
	ordered := make([]stipple.Dot, len(dots))
	copy(ordered, dots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return originDist2(ordered[i]) < originDist2(ordered[j])
	})

	canvas := svg.New(w)
	canvas.Startview(float64(width), float64(height), 0, 0, float64(width), float64(height))
	for _, d := range ordered {
		canvas.Circle(float64(d.P.X), float64(d.P.Y), d.R, dotStyle)
	}
	canvas.End()
}

func originDist2(d stipple.Dot) int {
	return d.P.X*d.P.X + d.P.Y*d.P.Y
}

// WriteSVGFile writes the vector document to path atomically: the document
// is assembled in a temporary file in the same directory and renamed into
// place only on success, so a failed export leaves no partial output.
func WriteSVGFile(path string, dots []stipple.Dot, width, height int) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".stipple-*.svg")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	WriteSVG(tmp, dots, width, height)
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to finalize SVG: %w", err)
	}
	return nil
}
