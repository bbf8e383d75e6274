package stipple

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// FilterBackground drops points that fall outside the image bounds or on a
// background (255) pixel. It is the post-processing policy for the
// fixed-radius variants; no geometric overlap check is performed.
//
// The output preserves input order and never exceeds the input count.
func FilterBackground(img *image.Gray, dots []Dot) []Dot {
	bounds := img.Bounds()
	kept := make([]Dot, 0, len(dots))
	for _, d := range dots {
		if d.P.Y < 0 || d.P.Y >= bounds.Dy() || d.P.X < 0 || d.P.X >= bounds.Dx() {
			continue
		}
		if img.GrayAt(d.P.X, d.P.Y).Y == background {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// FilterOverlap is the radius-aware post-processing policy for the
// variable-radius variant: an online greedy packing over a spatial index.
//
// Candidates are processed in input order. A candidate is rejected when it
// is out of bounds, lands on background, or its disc would touch or overlap
// an already-accepted disc (Euclidean center distance <= sum of radii).
// Accepted dots are inserted into the index before the next candidate is
// considered, so the result is order-dependent but deterministic.
//
// All surviving pairs satisfy distance(p1, p2) > r1 + r2.
func FilterOverlap(img *image.Gray, dots []Dot) []Dot {
	bounds := img.Bounds()
	kept := make([]Dot, 0, len(dots))

	var tree *kdtree.Tree
	maxAcceptedRadius := 0.0

	for _, d := range dots {
		if d.P.Y < 0 || d.P.Y >= bounds.Dy() || d.P.X < 0 || d.P.X >= bounds.Dx() {
			continue
		}
		if img.GrayAt(d.P.X, d.P.Y).Y == background {
			continue
		}

		candidate := site{y: float64(d.P.Y), x: float64(d.P.X), idx: len(kept)}
		if tree != nil && overlapsAccepted(tree, kept, candidate, d.R, maxAcceptedRadius) {
			continue
		}

		kept = append(kept, d)
		if d.R > maxAcceptedRadius {
			maxAcceptedRadius = d.R
		}
		if tree == nil {
			tree = kdtree.New(sites{candidate}, false)
		} else {
			tree.Insert(candidate, false)
		}
	}
	return kept
}

// overlapsAccepted reports whether the candidate disc touches any accepted
// disc. The kd-tree query is bounded by the largest accepted radius; exact
// per-neighbor radii are checked on the results.
func overlapsAccepted(tree *kdtree.Tree, kept []Dot, candidate site, radius, maxAcceptedRadius float64) bool {
	reach := radius + maxAcceptedRadius
	keeper := kdtree.NewDistKeeper(reach * reach)
	tree.NearestSet(keeper, candidate)

	for _, neighbor := range keeper.Heap {
		if neighbor.Comparable == nil {
			continue
		}
		other := neighbor.Comparable.(site)
		if math.Sqrt(neighbor.Dist) <= radius+kept[other.idx].R {
			return true
		}
	}
	return false
}
