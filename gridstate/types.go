package gridstate

// Attribute classifies a grid's decayed density against the current
// (dm, dl) thresholds, per eqs. 8-10 of Chen and Tu 2007.
type Attribute int

const (
	// Sparse grids have density <= dl (eq. 9).
	Sparse Attribute = iota
	// Transitional grids fall strictly between dl and dm (eq. 10).
	Transitional
	// Dense grids have density >= dm (eq. 8).
	Dense
)

// String renders the attribute using the single-letter code of spec.md
// §6's debug text format: D/T/S.
func (a Attribute) String() string {
	switch a {
	case Dense:
		return "D"
	case Transitional:
		return "T"
	case Sparse:
		return "S"
	default:
		return "?"
	}
}

// NoClass is the sentinel cluster label meaning "currently unassigned to
// any cluster" (spec.md §3).
const NoClass = -1

// NeverRemoved is the sentinel value of RemoveTick for a grid that has
// never been deleted as sporadic.
const NeverRemoved = -1

// CharacteristicVector is the mutable metadata bundle attached to a single
// density grid, per Definition 3.2: the tuple (tg, tm, D, label, status),
// extended with the cached attribute and attribute-changed flag that the
// clustering and sporadic-detection components read every cycle.
type CharacteristicVector struct {
	// UpdateTick (tg) is the tick of the last density update.
	UpdateTick int
	// RemoveTick (tm) is the tick of the last deletion-as-sporadic, or
	// NeverRemoved if the grid has never been deleted.
	RemoveTick int
	// Density (D) is the decayed density, always >= 0.
	Density float64
	// Label is the owning cluster's index in the Cluster Registry, or
	// NoClass if the grid is not currently assigned to a cluster.
	Label int
	// Sporadic is true iff the grid is currently flagged sporadic.
	Sporadic bool
	// Attribute is the classification cached at the last density update.
	Attribute Attribute
	// AttChanged is true iff the most recent density update moved
	// Attribute to a value different from what it held immediately
	// before that update. Label and Sporadic changes never set this
	// flag (spec.md §9's "Attribute-change tracking" note).
	AttChanged bool
}

// newCharacteristicVector returns the characteristic vector of a grid
// created for the first time at tick tc: zero density, unassigned label,
// not sporadic, never removed.
func newCharacteristicVector(tc int) *CharacteristicVector {
	return &CharacteristicVector{
		UpdateTick: tc,
		RemoveTick: NeverRemoved,
		Density:    0,
		Label:      NoClass,
		Sporadic:   false,
		Attribute:  Sparse,
		AttChanged: false,
	}
}
