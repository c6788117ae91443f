// Package dstream implements D-Stream, the grid-based density clustering
// algorithm for evolving data streams described by Chen and Tu, "Density-
// Based Clustering for Real-Time Stream Data" (KDD 2007).
//
// A Clusterer partitions an unbounded stream of records into a lattice of
// density grids, tracks each grid's exponentially time-decayed density,
// and periodically regroups dense and transitional grids into clusters —
// evicting grids whose density has stayed negligible for too long. All of
// this happens online, one record at a time, with no second pass over the
// data.
//
// The algorithm is layered across subpackages, each owning one piece of
// the model:
//
//	grid/       — coordinate arithmetic and neighbour enumeration on the
//	              integer lattice (no mutable state)
//	gridstate/  — the registry of characteristic vectors, one per live grid
//	density/    — threshold derivation, density decay, and classification
//	cluster/    — grid clusters and the ordered cluster registry
//	clustering/ — initial clustering, label propagation, and merge
//	sporadic/   — the sporadic-grid detector and eviction sweep
//
// This package wires those six layers into the stream driver: Config and
// its functional Options, the Record interface a caller implements to feed
// the clusterer, the Cluster snapshot it reads results through, and
// Clusterer itself, whose Ingest method
// is the only entry point that advances the whole pipeline by one tick.
//
//	go get github.com/richard-moulton/D-Stream
package dstream
