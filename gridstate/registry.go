package gridstate

import (
	"sort"
	"sync"

	"github.com/richard-moulton/D-Stream/grid"
)

// entry pairs a grid's coordinate with its characteristic vector so that
// ForEach can hand both to callers without a second lookup.
type entry struct {
	coord grid.Coordinate
	cv    *CharacteristicVector
}

// Registry is the mapping from grid coordinate to characteristic vector
// described in spec.md §3 (C3): the owner of all live characteristic
// vectors. Grids are inserted and deleted only through Registry's methods;
// the fields of a vector are mutated directly by whoever holds the pointer
// (the density, clustering and sporadic packages), and Registry does not
// validate them.
//
// Concurrency: entries is guarded by mu. The lock protects the map
// structure only; callers that hold a *CharacteristicVector returned by
// Get/GetOrCreate/ForEach and mutate its fields are responsible for
// ensuring single-writer access during a clustering cycle, per spec.md §5
// (the engine itself is single-threaded on the ingestion path).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Get returns the characteristic vector for c, if present.
// Complexity: O(d) to compute the key, O(1) expected for the lookup.
func (r *Registry) Get(c grid.Coordinate) (*CharacteristicVector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[c.Key()]
	if !ok {
		return nil, false
	}

	return e.cv, true
}

// GetOrCreate returns the characteristic vector for c, creating a fresh
// one (D=0, label=NoClass, status=false, per spec.md §4.4 step 2) at tick
// tc if c is not yet present. created reports whether a new entry was
// allocated.
// Complexity: O(d) time.
func (r *Registry) GetOrCreate(c grid.Coordinate, tc int) (cv *CharacteristicVector, created bool) {
	key := c.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		return e.cv, false
	}

	cv = newCharacteristicVector(tc)
	r.entries[key] = &entry{coord: c.Clone(), cv: cv}

	return cv, true
}

// Delete removes c from the registry. It is a no-op if c is absent.
// Complexity: O(d) time.
func (r *Registry) Delete(c grid.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, c.Key())
}

// Len returns the number of live grids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// ForEach invokes fn once per live grid, in ascending key order for
// determinism (matching core.Graph.Vertices' lexicographic contract).
// ForEach takes a snapshot of the registry under a read lock before
// invoking fn, so fn is free to call Delete/GetOrCreate on this Registry
// without deadlocking — it is iterating a private copy, not the live map,
// per the snapshot-then-apply discipline of spec.md §5. ForEach stops
// early if fn returns false.
// Complexity: O(n log n) time, O(n) memory, where n = Len().
func (r *Registry) ForEach(fn func(c grid.Coordinate, cv *CharacteristicVector) bool) {
	r.mu.RLock()
	snapshot := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		snapshot = append(snapshot, e)
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].coord.Key() < snapshot[j].coord.Key() })

	for _, e := range snapshot {
		if !fn(e.coord, e.cv) {
			return
		}
	}
}
