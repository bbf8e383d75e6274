package stipple

import "gonum.org/v1/gonum/spatial/kdtree"

// site is a stipple point prepared for kd-tree queries: its coordinates as
// floats plus its index in the working set, so nearest-neighbor results can
// be folded back into per-point accumulators.
//
// Distance is squared Euclidean, which preserves nearest ordering and
// avoids the square root in the hot per-pixel loop.
type site struct {
	y, x float64
	idx  int
}

func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(site)
	switch d {
	case 0:
		return s.y - q.y
	default:
		return s.x - q.x
	}
}

func (s site) Dims() int { return 2 }

func (s site) Distance(c kdtree.Comparable) float64 {
	q := c.(site)
	dy := s.y - q.y
	dx := s.x - q.x
	return dy*dy + dx*dx
}

// sites implements kdtree.Interface over a point snapshot.
type sites []site

func (p sites) Index(i int) kdtree.Comparable         { return p[i] }
func (p sites) Len() int                              { return len(p) }
func (p sites) Pivot(d kdtree.Dim) int                { return sitePlane{sites: p, Dim: d}.Pivot() }
func (p sites) Slice(start, end int) kdtree.Interface { return p[start:end] }

// sitePlane sorts sites along a single dimension for tree construction.
type sitePlane struct {
	sites
	kdtree.Dim
}

func (p sitePlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.sites[i].y < p.sites[j].y
	default:
		return p.sites[i].x < p.sites[j].x
	}
}

func (p sitePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p sitePlane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}

func (p sitePlane) Swap(i, j int) {
	p.sites[i], p.sites[j] = p.sites[j], p.sites[i]
}

// newSites converts a point snapshot into kd-tree input, remembering each
// point's index.
func newSites(points []Point) sites {
	out := make(sites, len(points))
	for i, p := range points {
		out[i] = site{y: float64(p.Y), x: float64(p.X), idx: i}
	}
	return out
}
