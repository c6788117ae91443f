// Package sporadic implements the sporadic-grid detector (C8): the S1/S2
// predicate of Definition 4.1 and the per-cycle sweep that ages out grids
// whose density has stayed low for too long, per spec.md §4.3.
//
// The sweep runs immediately before incremental adjustment, every gap
// ticks starting at tc == 2*gap (the first cycle has no prior sweep to
// compare against, since no grid can yet have gone a full gap without an
// update).
package sporadic
