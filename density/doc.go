// Package density implements the grid-density bookkeeping layer (C6):
// lazy, exponentially time-decayed density values per grid, and the
// classification of a grid's density into Sparse/Transitional/Dense using
// thresholds derived from the current grid-space size, per section 3.2 and
// section 4 of Chen and Tu 2007.
//
// Every exported function here is a pure function of its inputs except
// Engine.Decay, which mutates the *gridstate.CharacteristicVector passed to
// it — the same pure-facade style core/api.go uses for read-only Graph
// queries, generalized to the one place this package needs a write.
package density
