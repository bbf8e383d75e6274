package stipple

import (
	"fmt"
	"math"
)

// Config holds the tunable parameters of a stipple run.
//
// Radii are expressed in arbitrary user units; DotsPerUnit converts them to
// pixels so the output scale stays arbitrary for the vector export.
type Config struct {
	// NumPoints is the target point count for the initial scatter.
	NumPoints int

	// Iterations is the fixed relaxation pass count. There is no
	// convergence test; the engine always runs this many passes.
	Iterations int

	// DotsPerUnit converts user units to pixels.
	DotsPerUnit float64

	// PointUnitRadius is the point radius in user units. In the
	// variable-radius variant it is the maximum radius.
	PointUnitRadius float64

	// MinPointUnitRadius is the minimum point radius in user units.
	// Only consulted by the variable-radius variant.
	MinPointUnitRadius float64

	// PreprocessWindowSize is the half-width of the darkest-pixel search
	// window used by the flow-field builder. Only consulted by the
	// flow-biased variant.
	PreprocessWindowSize int

	// Seed fixes the random source so runs are reproducible.
	Seed int64
}

// RadiusPixels returns the fixed (or maximum) point radius in pixels,
// derived as round(PointUnitRadius * DotsPerUnit).
func (c Config) RadiusPixels() float64 {
	return math.Round(c.PointUnitRadius * c.DotsPerUnit)
}

// MinRadiusPixels returns the minimum point radius in pixels for the
// variable-radius variant.
func (c Config) MinRadiusPixels() float64 {
	return math.Round(c.MinPointUnitRadius * c.DotsPerUnit)
}

// Validate rejects non-positive counts and radii. All failures wrap
// ErrInvalidConfig.
func (c Config) Validate() error {
	if c.NumPoints <= 0 {
		return fmt.Errorf("%w: numPoints %d, must be > 0", ErrInvalidConfig, c.NumPoints)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations %d, must be > 0", ErrInvalidConfig, c.Iterations)
	}
	if c.DotsPerUnit <= 0 {
		return fmt.Errorf("%w: dotsPerUnit %v, must be > 0", ErrInvalidConfig, c.DotsPerUnit)
	}
	if c.PointUnitRadius <= 0 {
		return fmt.Errorf("%w: pointUnitRadius %v, must be > 0", ErrInvalidConfig, c.PointUnitRadius)
	}
	if c.MinPointUnitRadius < 0 {
		return fmt.Errorf("%w: minPointUnitRadius %v, must be >= 0", ErrInvalidConfig, c.MinPointUnitRadius)
	}
	if c.MinPointUnitRadius > c.PointUnitRadius {
		return fmt.Errorf("%w: minPointUnitRadius %v exceeds pointUnitRadius %v",
			ErrInvalidConfig, c.MinPointUnitRadius, c.PointUnitRadius)
	}
	return nil
}

// String reports the configuration in a form suitable for the debug log.
func (c Config) String() string {
	return fmt.Sprintf(
		"points=%d iterations=%d dotsPerUnit=%v pointUnitRadius=%v minPointUnitRadius=%v window=%d seed=%d radiusPixels=%v",
		c.NumPoints, c.Iterations, c.DotsPerUnit, c.PointUnitRadius,
		c.MinPointUnitRadius, c.PreprocessWindowSize, c.Seed, c.RadiusPixels())
}
