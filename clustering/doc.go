// Package clustering implements the clustering engine (C7): initial
// clustering at the first cycle boundary, the label-propagation fixpoint
// that grows and merges clusters from seeded dense grids, and incremental
// adjustment on every cycle thereafter, per spec.md §4.2.
//
// Engine is the sole component that holds both a gridstate.Registry and a
// cluster.Registry open at once; it is responsible for keeping
// characteristic-vector labels and cluster membership consistent across
// every mutation, the same way Dstream.java's clusterer methods are the
// only code that touches both grid_list and cluster_list together.
package clustering
