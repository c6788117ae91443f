package clustering

import (
	"fmt"

	"github.com/richard-moulton/D-Stream/cluster"
	"github.com/richard-moulton/D-Stream/density"
	"github.com/richard-moulton/D-Stream/grid"
	"github.com/richard-moulton/D-Stream/gridstate"
)

// Engine runs the initial-clustering and incremental-adjustment procedures
// of spec.md §4.2 against a shared gridstate.Registry and cluster.Registry.
// It holds no state of its own beyond references to its three
// collaborators, mirroring the stateless-facade style of core/api.go.
type Engine struct {
	density  *density.Engine
	grids    *gridstate.Registry
	clusters *cluster.Registry
}

// NewEngine binds a clustering Engine to the density engine and registries
// the stream driver constructs once at startup.
func NewEngine(de *density.Engine, grids *gridstate.Registry, clusters *cluster.Registry) *Engine {
	return &Engine{density: de, grids: grids, clusters: clusters}
}

// BulkRefresh applies a no-new-record density decay to every grid in the
// registry at tick tc, using thresholds derived from the current
// grid-space size n. Step 1 of both InitialClustering and
// AdjustClustering.
func (e *Engine) BulkRefresh(tc, n int) {
	dm, dl := e.density.Thresholds(n)
	e.grids.ForEach(func(_ grid.Coordinate, cv *gridstate.CharacteristicVector) bool {
		e.density.Decay(cv, tc, false, dm, dl)
		return true
	})
}

// InitialClustering runs once, at tc == gap: refresh densities, seed one
// fresh cluster per DENSE grid (every other grid starts NO_CLASS), then
// run the label-propagation fixpoint to grow and merge clusters until a
// full pass makes no change.
func (e *Engine) InitialClustering(tc, n int) {
	e.BulkRefresh(tc, n)
	e.clusters.Reset()

	e.grids.ForEach(func(c grid.Coordinate, cv *gridstate.CharacteristicVector) bool {
		if cv.Attribute == gridstate.Dense {
			gc := cluster.NewGridCluster()
			_ = gc.Add(c)
			cv.Label = e.clusters.Add(gc)
		} else {
			cv.Label = gridstate.NoClass
		}

		return true
	})

	for e.propagateOnce() {
	}
}

// propagateOnce performs a single label-propagation pass and stops at the
// first mutation, returning true iff a mutation was made. Stopping
// immediately (rather than continuing to iterate a snapshot that a merge
// or assignment has just invalidated) is mandatory per spec.md §9.
func (e *Engine) propagateOnce() bool {
	changed := false

	e.clusters.ForEach(func(label int, gc *cluster.GridCluster) bool {
		gc.ForEach(func(g grid.Coordinate, inside bool) bool {
			if inside {
				return true
			}

			g.ForEachNeighbour(func(h grid.Coordinate) bool {
				hcv, ok := e.grids.Get(h)
				if !ok {
					return true
				}

				if hcv.Label != gridstate.NoClass && hcv.Label != label {
					e.mergeByWeight(label, hcv.Label)
					changed = true
					return false
				}

				if hcv.Attribute == gridstate.Transitional && hcv.Label == gridstate.NoClass {
					_ = gc.Add(h)
					hcv.Label = label
					gc.RecomputeAll()
					changed = true
					return false
				}

				return true
			})

			return !changed
		})

		return !changed
	})

	return changed
}

// mergeByWeight merges the smaller-weighted of {a, b} into the larger,
// breaking ties by merging a into b.
func (e *Engine) mergeByWeight(a, b int) {
	ga, errA := e.clusters.Get(a)
	gb, errB := e.clusters.Get(b)
	if errA != nil || errB != nil {
		return
	}

	if ga.Weight() <= gb.Weight() {
		_ = e.Merge(a, b)
	} else {
		_ = e.Merge(b, a)
	}
}

// Merge folds cluster small into cluster big: every grid labelled small is
// relabelled to big, small's members are absorbed into big with inside
// flags recomputed, small is removed from the cluster Registry (shifting
// every later cluster's label down by one), and every characteristic
// vector referencing a shifted label is updated to match, per spec.md
// §4.2's Merge operation and testable property 5.
func (e *Engine) Merge(small, big int) error {
	if small == big {
		return fmt.Errorf("Merge: label=%d: %w", small, ErrSameCluster)
	}

	gcSmall, err := e.clusters.Get(small)
	if err != nil {
		return fmt.Errorf("Merge: small=%d: %w", small, err)
	}
	gcBig, err := e.clusters.Get(big)
	if err != nil {
		return fmt.Errorf("Merge: big=%d: %w", big, err)
	}

	e.grids.ForEach(func(_ grid.Coordinate, cv *gridstate.CharacteristicVector) bool {
		if cv.Label == small {
			cv.Label = big
		}

		return true
	})

	gcBig.Absorb(gcSmall)
	gcBig.RecomputeAll()

	if err := e.clusters.RemoveAt(small); err != nil {
		return fmt.Errorf("Merge: %w", err)
	}

	e.grids.ForEach(func(_ grid.Coordinate, cv *gridstate.CharacteristicVector) bool {
		if cv.Label > small {
			cv.Label--
		}

		return true
	})

	return nil
}

// AdjustClustering runs every gap ticks after the first, immediately after
// sporadic removal: refresh densities, then react to every grid whose
// attribute classification changed on this refresh.
func (e *Engine) AdjustClustering(tc, n int) {
	e.BulkRefresh(tc, n)

	e.grids.ForEach(func(g grid.Coordinate, cv *gridstate.CharacteristicVector) bool {
		if !cv.AttChanged {
			return true
		}

		switch cv.Attribute {
		case gridstate.Sparse:
			e.detachFromCluster(g, cv)
		case gridstate.Dense:
			e.adjustDense(g, cv)
		case gridstate.Transitional:
			e.adjustTransitional(g, cv)
		}

		return true
	})
}

func (e *Engine) detachFromCluster(g grid.Coordinate, cv *gridstate.CharacteristicVector) {
	if cv.Label == gridstate.NoClass {
		return
	}
	if gc, err := e.clusters.Get(cv.Label); err == nil {
		_ = gc.Remove(g)
		gc.RecomputeAll()
	}
	cv.Label = gridstate.NoClass
}

// adjustDense handles a grid g that just reclassified to DENSE: among g's
// Registry-present neighbours, pick the one h whose cluster has maximum
// weight (ties keep the first-seen h), excluding neighbours that are
// NO_CLASS or already in g's own cluster. If no neighbour qualifies, an
// unassigned g starts a fresh singleton cluster and an assigned g stays in
// its current cluster.
func (e *Engine) adjustDense(g grid.Coordinate, cv *gridstate.CharacteristicVector) {
	var chosenCoord grid.Coordinate
	var chosenCV *gridstate.CharacteristicVector
	chosenLabel := gridstate.NoClass
	chosenWeight := -1

	g.ForEachNeighbour(func(h grid.Coordinate) bool {
		hcv, ok := e.grids.Get(h)
		if !ok || hcv.Label == gridstate.NoClass || hcv.Label == cv.Label {
			return true
		}
		hc, err := e.clusters.Get(hcv.Label)
		if err != nil {
			return true
		}
		if hc.Weight() > chosenWeight {
			chosenWeight = hc.Weight()
			chosenLabel = hcv.Label
			chosenCV = hcv
			chosenCoord = h
		}

		return true
	})

	if chosenLabel == gridstate.NoClass {
		if cv.Label != gridstate.NoClass {
			return
		}
		gc := cluster.NewGridCluster()
		_ = gc.Add(g)
		cv.Label = e.clusters.Add(gc)

		return
	}

	ch, err := e.clusters.Get(chosenLabel)
	if err != nil {
		return
	}

	if chosenCV.Attribute == gridstate.Dense {
		if cv.Label == gridstate.NoClass {
			_ = ch.Add(g)
			ch.RecomputeAll()
			cv.Label = chosenLabel
		} else {
			e.mergeByWeight(cv.Label, chosenLabel)
		}

		return
	}

	// chosenCV is TRANSITIONAL.
	if cv.Label == gridstate.NoClass {
		if e.remainsOutsideIfAdded(chosenCoord, ch, g) {
			_ = ch.Add(g)
			ch.RecomputeAll()
			cv.Label = chosenLabel
		}

		return
	}

	own, err := e.clusters.Get(cv.Label)
	if err != nil {
		return
	}
	if own.Weight() >= ch.Weight() {
		_ = ch.Remove(chosenCoord)
		ch.RecomputeAll()
		_ = own.Add(chosenCoord)
		own.RecomputeAll()
		chosenCV.Label = cv.Label
	}
}

// adjustTransitional handles a grid g that just reclassified to
// TRANSITIONAL: among neighbours with a label distinct from g's, pick the
// one whose cluster has max weight and for which g would still be an
// outside member if added; move g there, or start a fresh singleton
// cluster if no such neighbour exists.
func (e *Engine) adjustTransitional(g grid.Coordinate, cv *gridstate.CharacteristicVector) {
	chosenLabel := gridstate.NoClass
	chosenWeight := -1

	g.ForEachNeighbour(func(h grid.Coordinate) bool {
		hcv, ok := e.grids.Get(h)
		if !ok || hcv.Label == gridstate.NoClass || hcv.Label == cv.Label {
			return true
		}
		ch, err := e.clusters.Get(hcv.Label)
		if err != nil {
			return true
		}
		if !e.remainsOutsideIfAdded(g, ch, g) {
			return true
		}
		if ch.Weight() > chosenWeight {
			chosenWeight = ch.Weight()
			chosenLabel = hcv.Label
		}

		return true
	})

	if chosenLabel == gridstate.NoClass {
		e.detachFromCluster(g, cv)

		gc := cluster.NewGridCluster()
		_ = gc.Add(g)
		cv.Label = e.clusters.Add(gc)

		return
	}

	if cv.Label != gridstate.NoClass && cv.Label != chosenLabel {
		e.detachFromCluster(g, cv)
	}

	ch, err := e.clusters.Get(chosenLabel)
	if err != nil {
		return
	}
	_ = ch.Add(g)
	ch.RecomputeAll()
	cv.Label = chosenLabel
}

// remainsOutsideIfAdded reports whether coord would remain an outside
// member of ch if added were (hypothetically, or actually) also a member:
// true iff at least one of coord's neighbours is absent from both ch and
// added.
func (e *Engine) remainsOutsideIfAdded(coord grid.Coordinate, ch *cluster.GridCluster, added grid.Coordinate) bool {
	outside := false
	coord.ForEachNeighbour(func(n grid.Coordinate) bool {
		if n.Equal(added) || ch.Contains(n) {
			return true
		}
		outside = true

		return false
	})

	return outside
}
