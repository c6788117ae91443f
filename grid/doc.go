// Package grid defines the integer lattice coordinate that identifies a
// single density grid cell, per Definition 3.1 (eq. 3) of Chen and Tu 2007:
// a d-dimensional data space is partitioned into axis-aligned cells, and a
// cell g = (j1, j2, ..., jd) is identified by its integer coordinate tuple.
//
// Coordinate is hashable (via Key) and supports lazy enumeration of its 2d
// axis-aligned neighbours (Definition 3.3), so callers never need to
// materialize a full neighbour set up front.
package grid
