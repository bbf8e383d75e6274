// Package stipple implements the weighted point-distribution engine: an
// iterative Lloyd relaxation over a grayscale density field that converges
// a random scatter toward a spatially balanced stipple pattern.
//
// The engine owns the point set and the shared iteration lifecycle
// (sample, relax N passes, post-process); the per-iteration centroid
// computation is delegated to a RelaxationStrategy:
//
//   - VoronoiFlow: exact Voronoi regions with an optional flow-field bias
//     and a single fixed point radius.
//   - WeightedNearest: a full per-pixel scan assigning darkness weight to
//     the nearest point via a kd-tree, with an optional per-point variable
//     radius.
//
// # Invariants
//
// After every relaxation pass, all coordinates lie within
// [0, height-1] x [0, width-1]; a point whose pixel was background (255)
// before a pass keeps its coordinates through that pass; a point assigned
// zero weight does not move. The post-processors only ever remove points.
//
// # Concurrency
//
// A single run is synchronous and owns its state exclusively. Strategies
// read a frozen snapshot of the previous positions and write into a fresh
// buffer; WeightedNearest additionally partitions its pixel scan across
// workers with per-worker accumulators merged afterwards. The run context
// is checked between iterations for cooperative cancellation.
package stipple
