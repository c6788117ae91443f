package sporadic

import (
	"github.com/richard-moulton/D-Stream/cluster"
	"github.com/richard-moulton/D-Stream/density"
	"github.com/richard-moulton/D-Stream/grid"
	"github.com/richard-moulton/D-Stream/gridstate"
)

// Detector runs the sporadic-grid sweep against a shared gridstate.Registry
// and cluster.Registry, using the sporadicity threshold function pi
// supplied by a density.Engine.
type Detector struct {
	density  *density.Engine
	grids    *gridstate.Registry
	clusters *cluster.Registry
}

// NewDetector binds a Detector to the density engine and registries the
// stream driver constructs once at startup.
func NewDetector(de *density.Engine, grids *gridstate.Registry, clusters *cluster.Registry) *Detector {
	return &Detector{density: de, grids: grids, clusters: clusters}
}

// Sweep runs one sporadic-detection pass at tick tc over a grid-space of
// size n, with the current clustering cycle period gap:
//
//   - a grid already flagged sporadic, aged more than gap ticks past its
//     last update, is detached from its cluster (if any) and deleted. Its
//     removal tick is written to its characteristic vector just before the
//     deletion, but that vector is discarded with the registry entry: a
//     later reinsertion at the same coordinate gets a fresh vector with
//     RemoveTick == NeverRemoved;
//   - a grid already flagged sporadic but not yet aged out has its
//     sporadic flag re-evaluated;
//   - a grid not yet flagged sporadic is evaluated and flagged if S1 and
//     S2 both hold.
//
// Complexity: O(L log L) time, where L is the number of live grids (the
// registry sweep visits them in sorted key order).
func (d *Detector) Sweep(tc, n, gap int) {
	d.grids.ForEach(func(g grid.Coordinate, cv *gridstate.CharacteristicVector) bool {
		switch {
		case cv.Sporadic && tc-cv.UpdateTick > gap:
			d.evict(g, cv, tc)
		case cv.Sporadic:
			cv.Sporadic = d.isSporadic(cv, tc, n)
		default:
			if d.isSporadic(cv, tc, n) {
				cv.Sporadic = true
			}
		}

		return true
	})
}

func (d *Detector) evict(g grid.Coordinate, cv *gridstate.CharacteristicVector, tc int) {
	if cv.Label != gridstate.NoClass {
		if gc, err := d.clusters.Get(cv.Label); err == nil {
			_ = gc.Remove(g)
			gc.RecomputeAll()
		}
	}
	cv.RemoveTick = tc
	d.grids.Delete(g)
}

// isSporadic implements the S1 AND S2 predicate of spec.md §4.3.
//
// S1: cv.Density < pi(cv.UpdateTick).
// S2: cv.RemoveTick == NeverRemoved, OR tc >= (1+beta) * cv.RemoveTick.
//
// Per spec.md §9's resolution of the open question on tm == -1, a grid
// never previously deleted satisfies S2 unconditionally.
func (d *Detector) isSporadic(cv *gridstate.CharacteristicVector, tc, n int) bool {
	s1 := cv.Density < d.density.Pi(cv.UpdateTick, tc, n)
	s2 := cv.RemoveTick == gridstate.NeverRemoved || float64(tc) >= (1+d.density.Beta())*float64(cv.RemoveTick)

	return s1 && s2
}
