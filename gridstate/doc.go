// Package gridstate holds the characteristic vector of a density grid
// (Definition 3.2 of Chen and Tu 2007) and the registry that maps grid
// coordinates to their characteristic vectors — the primary mutable state
// of the clustering engine.
//
// Registry is the sole owner of CharacteristicVector instances: grids enter
// and leave only through its methods. Callers receive pointers to the
// vectors and update their fields in place; Registry itself does not check
// the invariants of spec.md §3 (0 <= tg <= currentTick, tm == -1 or
// tm < tg, D >= 0, ...).
package gridstate
