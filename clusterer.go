package dstream

import (
	"fmt"
	"math"
	"strings"

	"github.com/richard-moulton/D-Stream/cluster"
	"github.com/richard-moulton/D-Stream/clustering"
	"github.com/richard-moulton/D-Stream/density"
	"github.com/richard-moulton/D-Stream/grid"
	"github.com/richard-moulton/D-Stream/gridstate"
	"github.com/richard-moulton/D-Stream/sporadic"
)

// runState is the Clusterer state machine of spec.md §4.4: UNINITIALIZED
// until the first record fixes dimensionality, RUNNING thereafter.
type runState int

const (
	uninitialized runState = iota
	running
)

// Clusterer is the stream driver (C9): it owns the density engine and the
// grid and cluster registries, and its Ingest method is the sole entry
// point that advances every layer by one tick. Per spec.md §5, ingestion
// is single-threaded and cooperative — Clusterer holds no mutex of its
// own; a caller sharing one across goroutines must serialize access
// externally.
type Clusterer struct {
	cfg   Config
	state runState

	d           int
	nominal     []bool
	minCoord    []int
	maxCoord    []int
	cardinality []int

	tc             int
	n              int
	dm, dl         float64
	gap            int
	gapKnown       bool
	cyclesComplete int

	density    *density.Engine
	grids      *gridstate.Registry
	clusters   *cluster.Registry
	clustering *clustering.Engine
	sporadic   *sporadic.Detector
}

// New builds a Clusterer from opts, validating the resolved Config against
// the admissible ranges of spec.md §6. It returns a wrapped range error
// and a nil Clusterer if validation fails — the clusterer never enters
// RUNNING on invalid configuration.
func New(opts ...Option) (*Clusterer, error) {
	cfg := newConfig(opts...)

	de, err := density.NewEngine(cfg.decayFactor, cfg.cm, cfg.cl, cfg.beta, cfg.timeGap)
	if err != nil {
		return nil, clustererErrorf("New", err)
	}

	grids := gridstate.NewRegistry()
	clusters := cluster.NewRegistry()

	return &Clusterer{
		cfg:        cfg,
		state:      uninitialized,
		density:    de,
		grids:      grids,
		clusters:   clusters,
		clustering: clustering.NewEngine(de, grids, clusters),
		sporadic:   sporadic.NewDetector(de, grids, clusters),
	}, nil
}

// Ingest processes one record, implementing the seven-step procedure of
// spec.md §4.4. On the first call it fixes dimensionality and transitions
// to RUNNING; every call thereafter must present a record with the same
// attribute count and per-attribute kind, or ErrDimensionMismatch is
// returned.
func (c *Clusterer) Ingest(r Record) error {
	if r == nil {
		return clustererErrorf("Ingest", ErrInvalidRecord)
	}
	d := r.NumAttributes()
	if d <= 0 {
		return clustererErrorf("Ingest", ErrInvalidRecord)
	}

	if c.state == uninitialized {
		c.initialize(r, d)
		c.recomputeDerived()
	} else if d != c.d {
		return clustererErrorf("Ingest", ErrDimensionMismatch)
	} else {
		for i := 0; i < d; i++ {
			if r.IsNominal(i) != c.nominal[i] {
				return clustererErrorf("Ingest", ErrDimensionMismatch)
			}
		}
	}

	coords, grew, err := c.mapAndTrack(r)
	if err != nil {
		return clustererErrorf("Ingest", err)
	}
	if grew {
		c.recomputeDerived()
	}

	key, err := grid.New(coords)
	if err != nil {
		return clustererErrorf("Ingest", err)
	}

	cv, _ := c.grids.GetOrCreate(key, c.tc)
	c.density.Decay(cv, c.tc, true, c.dm, c.dl)

	if c.tc != 0 && c.gapKnown && c.gap > 0 && c.tc%c.gap == 0 {
		c.runCycle()
	}

	c.tc++

	return nil
}

// initialize fixes dimensionality and per-attribute kind from the first
// record ever seen, seeding min/max trackers from its own numeric values
// and cardinality trackers from its nominal attributes' declared value
// counts, per spec.md §4.4's "On first record" clause.
func (c *Clusterer) initialize(r Record, d int) {
	c.d = d
	c.nominal = make([]bool, d)
	c.minCoord = make([]int, d)
	c.maxCoord = make([]int, d)
	c.cardinality = make([]int, d)

	for i := 0; i < d; i++ {
		c.nominal[i] = r.IsNominal(i)
		if c.nominal[i] {
			c.cardinality[i] = r.NumValues(i)
		} else {
			bucket := int(math.Floor(r.Value(i)))
			c.minCoord[i] = bucket
			c.maxCoord[i] = bucket
		}
	}

	c.state = running
}

// mapAndTrack maps r to a grid coordinate and updates the min/max and
// cardinality trackers that drive N, returning grew iff any tracker's
// range expanded beyond the baseline initialize set (spec.md §4.4 step 1,
// §7's categorical-overflow policy).
func (c *Clusterer) mapAndTrack(r Record) (coords []int, grew bool, err error) {
	coords = make([]int, c.d)

	for i := 0; i < c.d; i++ {
		if c.nominal[i] {
			idx := r.IndexOfValue(i, r.StringValue(i))
			if idx < 0 {
				return nil, false, ErrInvalidRecord
			}
			coords[i] = idx

			if idx+1 > c.cardinality[i] {
				c.cardinality[i] = idx + 1
				grew = true
			}
		} else {
			bucket := int(math.Floor(r.Value(i)))
			coords[i] = bucket

			if bucket < c.minCoord[i] {
				c.minCoord[i] = bucket
				grew = true
			}
			if bucket > c.maxCoord[i] {
				c.maxCoord[i] = bucket
				grew = true
			}
		}
	}

	return coords, grew, nil
}

// recomputeDerived recomputes N, (dm, dl), and gap after a growth event,
// per spec.md §4.1. If density.Engine.Gap returns an error (grid-space size
// still below Cm, or so large that the derived gap falls below 1), gapKnown
// is set false and no clustering cycle runs until a later recomputation
// yields a valid gap — a deliberate reading of the source's undefined
// behaviour at small N (see SPEC_FULL.md §9).
func (c *Clusterer) recomputeDerived() {
	n := 1
	for i := 0; i < c.d; i++ {
		if c.nominal[i] {
			n *= c.cardinality[i]
		} else {
			n *= c.maxCoord[i] - c.minCoord[i] + 1
		}
	}
	c.n = n

	c.dm, c.dl = c.density.Thresholds(c.n)

	gap, err := c.density.Gap(c.n)
	if err != nil {
		c.gapKnown = false

		return
	}
	c.gap = gap
	c.gapKnown = true
}

// runCycle dispatches to initial clustering on the first cycle, or
// sporadic removal followed by incremental adjustment on every cycle
// thereafter, per spec.md §4.2 and §4.3.
func (c *Clusterer) runCycle() {
	if c.cyclesComplete == 0 {
		c.clustering.InitialClustering(c.tc, c.n)
	} else {
		c.sporadic.Sweep(c.tc, c.n, c.gap)
		c.clustering.AdjustClustering(c.tc, c.n)
	}
	c.cyclesComplete++
}

// Clusters returns a snapshot of every live cluster, in ascending label
// order. Before the first clustering cycle this returns an empty slice,
// not an error, per spec.md §7.
func (c *Clusterer) Clusters() []Cluster {
	out := make([]Cluster, 0, c.clusters.Len())

	c.clusters.ForEach(func(label int, gc *cluster.GridCluster) bool {
		members := gc.Members()
		keys := make([]string, len(members))
		for i, m := range members {
			keys[i] = m.Key()
		}
		out = append(out, Cluster{Label: label, MemberKeys: keys})

		return true
	})

	return out
}

// InclusionProbability reports, for every live cluster, 1.0 if r maps to a
// grid currently a member of that cluster and 0.0 otherwise, per spec.md
// §6. It does not mutate any tracker: querying inclusion never grows N.
func (c *Clusterer) InclusionProbability(r Record) (map[int]float64, error) {
	if c.state == uninitialized {
		return nil, clustererErrorf("InclusionProbability", ErrNotInitialized)
	}
	if r.NumAttributes() != c.d {
		return nil, clustererErrorf("InclusionProbability", ErrDimensionMismatch)
	}

	coords := make([]int, c.d)
	for i := 0; i < c.d; i++ {
		if c.nominal[i] {
			idx := r.IndexOfValue(i, r.StringValue(i))
			if idx < 0 {
				return nil, clustererErrorf("InclusionProbability", ErrInvalidRecord)
			}
			coords[i] = idx
		} else {
			coords[i] = int(math.Floor(r.Value(i)))
		}
	}

	key, err := grid.New(coords)
	if err != nil {
		return nil, clustererErrorf("InclusionProbability", err)
	}

	cv, ok := c.grids.Get(key)

	result := make(map[int]float64, c.clusters.Len())
	c.clusters.ForEach(func(label int, _ *cluster.GridCluster) bool {
		if ok && cv.Label == label {
			result[label] = 1.0
		} else {
			result[label] = 0.0
		}

		return true
	})

	return result, nil
}

// Stats is a read-only snapshot of the clusterer's internal counters,
// useful for monitoring and tests.
type Stats struct {
	Tick          int
	LiveGrids     int
	Clusters      int
	GridSpaceSize int
	Gap           int
	GapKnown      bool
}

// Stats returns the clusterer's current counters.
func (c *Clusterer) Stats() Stats {
	return Stats{
		Tick:          c.tc,
		LiveGrids:     c.grids.Len(),
		Clusters:      c.clusters.Len(),
		GridSpaceSize: c.n,
		Gap:           c.gap,
		GapKnown:      c.gapKnown,
	}
}

// DebugString renders one line per live grid: coordinate, attribute class,
// last-update tick, last-removal tick, decayed density, cluster label, and
// sporadic status, per the informational debug format of spec.md §6.
func (c *Clusterer) DebugString() string {
	var b strings.Builder
	c.grids.ForEach(func(coord grid.Coordinate, cv *gridstate.CharacteristicVector) bool {
		status := "Normal"
		if cv.Sporadic {
			status = "Sporadic"
		}
		changed := ""
		if cv.AttChanged {
			changed = " [CHANGED]"
		}
		fmt.Fprintf(&b, "%s: %s tg=%d tm=%d D=%.4f label=%d %s%s\n",
			coord, cv.Attribute, cv.UpdateTick, cv.RemoveTick, cv.Density, cv.Label, status, changed)

		return true
	})

	return b.String()
}
