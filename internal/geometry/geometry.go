package geometry

import (
	"errors"
	"math"
)

// ErrDegeneratePolygon is returned by PolygonCentroid when the polygon's
// signed area is zero (fewer than three distinct vertices, or all vertices
// collinear), making the centroid undefined.
var ErrDegeneratePolygon = errors.New("degenerate polygon: zero signed area")

// Vec2 is a 2D coordinate or displacement in continuous image space.
type Vec2 struct {
	X float64 `json:"x"` // Horizontal component (column direction)
	Y float64 `json:"y"` // Vertical component (row direction)
}

// PolygonArea computes the signed area of a polygon using the shoelace
// formula.
//
// Vertices must form a simple (non-self-intersecting) polygon and are
// treated as a closed loop; the last vertex connects back to the first.
// The sign follows the winding order: counter-clockwise vertices (in a
// Y-down image coordinate system, visually clockwise) yield a positive
// area, the opposite winding a negative one.
func PolygonArea(vertices []Vec2) float64 {
	var area float64
	n := len(vertices)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += vertices[i].X * vertices[j].Y
		area -= vertices[j].X * vertices[i].Y
	}
	return area / 2
}

// PolygonCentroid computes the centroid of a polygon from its ordered
// vertices.
//
// Returns ErrDegeneratePolygon when the signed area is zero, which would
// otherwise divide by zero. Callers treating the polygon as a relaxation
// region should skip the region rather than propagate the error.
func PolygonCentroid(vertices []Vec2) (Vec2, error) {
	area := PolygonArea(vertices)
	if area == 0 {
		return Vec2{}, ErrDegeneratePolygon
	}

	var cx, cy float64
	n := len(vertices)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := vertices[i].X*vertices[j].Y - vertices[j].X*vertices[i].Y
		cx += (vertices[i].X + vertices[j].X) * cross
		cy += (vertices[i].Y + vertices[j].Y) * cross
	}
	cx /= 6 * area
	cy /= 6 * area
	return Vec2{X: cx, Y: cy}, nil
}

// Remap linearly maps value from the range [inLow, inHigh] to the range
// [outLow, outHigh].
//
// Values outside the input range extrapolate linearly. A collapsed input
// range (inLow == inHigh) maps everything to outLow.
func Remap(value, inLow, inHigh, outLow, outHigh float64) float64 {
	if inHigh == inLow {
		return outLow
	}
	return outLow + (value-inLow)/(inHigh-inLow)*(outHigh-outLow)
}

// Clamp constrains an integer value to the range [min, max].
// Used for boundary handling in window scans and point updates.
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
