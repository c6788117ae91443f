// Package cluster implements the grid cluster (C4) and cluster registry
// (C5) of spec.md §3-4: a labelled collection of grid coordinates, each
// tagged inside or outside per Definition 3.5 of Chen and Tu 2007, and the
// ordered list of such clusters whose index is the cluster label observed
// in characteristic vectors.
//
// GridCluster owns its member set; Registry owns the ordered list of
// GridClusters. Neither type reaches into gridstate.Registry directly —
// relabelling characteristic vectors on merge/removal is the clustering
// package's responsibility, since it is the one component that holds both
// registries during a cycle (spec.md §4.2's Merge operation).
package cluster
