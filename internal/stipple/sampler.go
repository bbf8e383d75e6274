package stipple

import (
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/fogleman/poissondisc"
)

// defaultAttemptsPerPoint bounds the foreground-biased sampler's rejection
// loop. The original design retried forever and hung on all-background
// images; the budget turns that into ErrEmptyForeground.
const defaultAttemptsPerPoint = 100

// Sampler generates an initial scatter of candidate point coordinates.
type Sampler interface {
	Sample(img *image.Gray, numPoints int, rng *rand.Rand) ([]Point, error)
}

// UniformSampler draws independent uniform samples over the full
// coordinate range, ignoring image content.
type UniformSampler struct{}

func (UniformSampler) Sample(img *image.Gray, numPoints int, rng *rand.Rand) ([]Point, error) {
	bounds := img.Bounds()
	points := make([]Point, numPoints)
	for i := range points {
		points[i] = Point{Y: rng.Intn(bounds.Dy()), X: rng.Intn(bounds.Dx())}
	}
	return points, nil
}

// ForegroundSampler draws uniform samples and accepts only those landing on
// non-background (non-255) pixels, biasing the initial scatter toward image
// content.
//
// Precondition: the image must contain at least one non-background pixel.
// The sampler gives up after AttemptsPerPoint*numPoints rejected draws and
// returns ErrEmptyForeground.
type ForegroundSampler struct {
	// AttemptsPerPoint overrides the retry budget per requested point.
	// Zero means the default of 100.
	AttemptsPerPoint int
}

func (s ForegroundSampler) Sample(img *image.Gray, numPoints int, rng *rand.Rand) ([]Point, error) {
	attemptsPerPoint := s.AttemptsPerPoint
	if attemptsPerPoint <= 0 {
		attemptsPerPoint = defaultAttemptsPerPoint
	}
	budget := attemptsPerPoint * numPoints

	bounds := img.Bounds()
	points := make([]Point, 0, numPoints)
	for attempt := 0; attempt < budget && len(points) < numPoints; attempt++ {
		p := Point{Y: rng.Intn(bounds.Dy()), X: rng.Intn(bounds.Dx())}
		if img.GrayAt(p.X, p.Y).Y == background {
			continue
		}
		points = append(points, p)
	}
	if len(points) < numPoints {
		return nil, fmt.Errorf("%w: accepted %d of %d points after %d attempts",
			ErrEmptyForeground, len(points), numPoints, budget)
	}
	return points, nil
}

// PoissonSampler scatters points with Poisson-disc (blue noise) spacing,
// derived so that roughly numPoints fit the canvas. Unlike the other
// samplers it may return fewer than numPoints; surplus points are
// truncated, a shortfall is kept as-is since the even spacing is the point
// of this sampler.
type PoissonSampler struct{}

func (PoissonSampler) Sample(img *image.Gray, numPoints int, rng *rand.Rand) ([]Point, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	spacing := math.Sqrt(float64(width*height) / float64(numPoints))
	raw := poissondisc.Sample(0, 0, float64(width-1), float64(height-1), spacing, 30, rng)

	if len(raw) > numPoints {
		raw = raw[:numPoints]
	}
	points := make([]Point, len(raw))
	for i, p := range raw {
		points[i] = Point{Y: int(p.Y), X: int(p.X)}
	}
	return points, nil
}
