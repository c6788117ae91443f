package sporadic_test

import (
	"testing"

	"github.com/richard-moulton/D-Stream/cluster"
	"github.com/richard-moulton/D-Stream/density"
	"github.com/richard-moulton/D-Stream/grid"
	"github.com/richard-moulton/D-Stream/gridstate"
	"github.com/richard-moulton/D-Stream/sporadic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(t *testing.T, vals ...int) grid.Coordinate {
	t.Helper()
	c, err := grid.New(vals)
	require.NoError(t, err)
	return c
}

func newDetector(t *testing.T) (*sporadic.Detector, *gridstate.Registry, *cluster.Registry) {
	t.Helper()
	de, err := density.NewEngine(0.998, 3.0, 0.8, 0.3, nil)
	require.NoError(t, err)
	grids := gridstate.NewRegistry()
	clusters := cluster.NewRegistry()
	return sporadic.NewDetector(de, grids, clusters), grids, clusters
}

func TestSweep_FlagsLowDensityGridSporadic(t *testing.T) {
	d, grids, _ := newDetector(t)
	c := coord(t, 7)
	cv, _ := grids.GetOrCreate(c, 0)
	cv.Density = 0 // far below pi at any n, so S1 holds; never removed, so S2 holds

	d.Sweep(100, 1000, 100)

	assert.True(t, cv.Sporadic)
}

func TestSweep_DoesNotFlagHighDensityGrid(t *testing.T) {
	d, grids, _ := newDetector(t)
	c := coord(t, 7)
	cv, _ := grids.GetOrCreate(c, 0)
	cv.Density = 1000 // far above pi

	d.Sweep(100, 1000, 100)

	assert.False(t, cv.Sporadic)
}

func TestSweep_EvictsAgedSporadicGrid(t *testing.T) {
	d, grids, clusters := newDetector(t)
	c := coord(t, 7)
	cv, _ := grids.GetOrCreate(c, 0)
	cv.Density = 0
	cv.Sporadic = true

	gc := cluster.NewGridCluster()
	_ = gc.Add(c)
	cv.Label = clusters.Add(gc)

	// tc - UpdateTick(0) = 500 > gap(100), so this grid ages out.
	d.Sweep(500, 1000, 100)

	_, ok := grids.Get(c)
	assert.False(t, ok, "a sporadic grid aged past gap must be deleted")

	survivor, err := clusters.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 0, survivor.Weight(), "eviction must detach the grid from its cluster first")
}

func TestSweep_ReevaluatesUnagedSporadicGrid(t *testing.T) {
	d, grids, _ := newDetector(t)
	c := coord(t, 7)
	cv, _ := grids.GetOrCreate(c, 0)
	cv.Density = 1000 // now dense enough that S1 no longer holds
	cv.Sporadic = true

	// tc - UpdateTick(0) = 10, well under gap(100): re-evaluate, don't evict.
	d.Sweep(10, 1000, 100)

	_, ok := grids.Get(c)
	require.True(t, ok, "an unaged grid must not be evicted")
	assert.False(t, cv.Sporadic, "re-evaluation must clear the flag once density recovers")
}

func TestSweep_S2HoldsWhenNeverRemoved(t *testing.T) {
	d, grids, _ := newDetector(t)
	c := coord(t, 7)
	cv, _ := grids.GetOrCreate(c, 0)
	require.Equal(t, gridstate.NeverRemoved, cv.RemoveTick)
	cv.Density = 0

	d.Sweep(1, 1000, 1000)

	assert.True(t, cv.Sporadic, "a grid with RemoveTick == NeverRemoved satisfies S2 unconditionally")
}

func TestSweep_S2FailsWithinHysteresisWindow(t *testing.T) {
	d, grids, _ := newDetector(t)
	c := coord(t, 7)
	cv, _ := grids.GetOrCreate(c, 0)
	cv.Density = 0
	cv.RemoveTick = 100 // set by hand, as if the grid had last been removed at tc=100

	// beta=0.3, so S2 requires tc >= 1.3*100 = 130. At tc=110, S2 fails.
	d.Sweep(110, 1000, 1000)

	assert.False(t, cv.Sporadic, "S2 must fail inside the (1+beta)*tm hysteresis window")
}

func TestSweep_S2HoldsOutsideHysteresisWindow(t *testing.T) {
	d, grids, _ := newDetector(t)
	c := coord(t, 7)
	cv, _ := grids.GetOrCreate(c, 0)
	cv.Density = 0
	cv.RemoveTick = 100

	d.Sweep(200, 1000, 1000)

	assert.True(t, cv.Sporadic, "S2 must hold once tc >= (1+beta)*tm")
}
