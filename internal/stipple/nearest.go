package stipple

import (
	"image"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/ironsheep/stipple-gen/internal/geometry"
)

// dampingFactor scales each step toward the weighted centroid. The damped
// step prevents oscillation and overshoot between iterations.
const dampingFactor = 0.25

// WeightedNearest is the approximate relaxation strategy: every pixel
// contributes its darkness weight (1 - intensity/255) to the nearest point,
// and each point takes a damped, floored step toward its weighted centroid.
//
// The full H*W pixel scan is the dominant cost; a kd-tree keeps the
// per-pixel nearest-point query cheap, and the scan is partitioned across
// workers with per-worker accumulators merged afterwards.
type WeightedNearest struct {
	// Variable enables per-point radii: after each pass, every point's
	// average weight is remapped linearly from [0, maxAvgWeight] to
	// [MinRadius, MaxRadius]. Denser regions get smaller dots.
	Variable bool

	// MinRadius and MaxRadius bound the per-point radius in pixels.
	// Only consulted when Variable is set.
	MinRadius, MaxRadius float64

	// Workers overrides the pixel-scan parallelism. Zero means
	// GOMAXPROCS.
	Workers int
}

// VariableRadius reports whether this strategy produces per-point radii.
func (s *WeightedNearest) VariableRadius() bool { return s.Variable }

// Step computes one relaxation pass from the snap positions into dst,
// updating radii in place when variable radii are enabled.
func (s *WeightedNearest) Step(img *image.Gray, snap, dst []Point, radii []float64) error {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	n := len(snap)

	tree := kdtree.New(newSites(snap), false)

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > height {
		workers = height
	}

	// Per-worker partial sums, merged after the scan to avoid contention.
	type accumulator struct {
		weight    []float64
		weightedY []float64
		weightedX []float64
		count     []int
	}
	parts := make([]accumulator, workers)
	for w := range parts {
		parts[w] = accumulator{
			weight:    make([]float64, n),
			weightedY: make([]float64, n),
			weightedX: make([]float64, n),
			count:     make([]int, n),
		}
	}

	var wg sync.WaitGroup
	rowsPerWorker := (height + workers - 1) / workers
	for w := 0; w < workers; w++ {
		y0 := w * rowsPerWorker
		y1 := min(y0+rowsPerWorker, height)
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(acc *accumulator, y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < width; x++ {
					weight := 1 - float64(img.GrayAt(x, y).Y)/255
					nearest, _ := tree.Nearest(site{y: float64(y), x: float64(x)})
					i := nearest.(site).idx
					acc.weight[i] += weight
					acc.weightedY[i] += float64(y) * weight
					acc.weightedX[i] += float64(x) * weight
					acc.count[i]++
				}
			}
		}(&parts[w], y0, y1)
	}
	wg.Wait()

	weight := make([]float64, n)
	weightedY := make([]float64, n)
	weightedX := make([]float64, n)
	count := make([]int, n)
	for w := range parts {
		for i := 0; i < n; i++ {
			weight[i] += parts[w].weight[i]
			weightedY[i] += parts[w].weightedY[i]
			weightedX[i] += parts[w].weightedX[i]
			count[i] += parts[w].count[i]
		}
	}

	avgWeight := make([]float64, n)
	maxAvgWeight := 0.0
	for i := 0; i < n; i++ {
		var centroidY, centroidX float64
		if weight[i] == 0 {
			// Unassigned points do not move.
			centroidY = float64(snap[i].Y)
			centroidX = float64(snap[i].X)
		} else {
			centroidY = weightedY[i] / weight[i]
			centroidX = weightedX[i] / weight[i]

			c := count[i]
			if c == 0 {
				c = 1
			}
			avgWeight[i] = weight[i] / float64(c)
			if avgWeight[i] > maxAvgWeight {
				maxAvgWeight = avgWeight[i]
			}
		}

		dst[i] = Point{
			Y: int(math.Floor(float64(snap[i].Y) + dampingFactor*(centroidY-float64(snap[i].Y)))),
			X: int(math.Floor(float64(snap[i].X) + dampingFactor*(centroidX-float64(snap[i].X)))),
		}
	}

	if s.Variable {
		for i := 0; i < n; i++ {
			radii[i] = geometry.Remap(avgWeight[i], 0, maxAvgWeight, s.MinRadius, s.MaxRadius)
		}
	}
	return nil
}
