package cluster

import (
	"fmt"
	"sort"

	"github.com/richard-moulton/D-Stream/grid"
)

// member tracks one grid's inside/outside status within a cluster, per
// Definition 3.5: a grid g is inside the cluster iff all of g's 2d
// neighbours are also members of the cluster.
type member struct {
	coord  grid.Coordinate
	inside bool
}

// GridCluster is a labelled, connected set of grid coordinates (Definition
// 3.6). It owns its member set and the inside/outside flag of each member;
// it has no notion of its own label — that is assigned and tracked by the
// Registry that holds it, mirroring how gridgraph's ConnectedComponents
// returns bare membership sets and leaves labelling to the caller.
type GridCluster struct {
	members map[string]*member
	order   []string // insertion order, for deterministic iteration
}

// NewGridCluster returns an empty cluster.
func NewGridCluster() *GridCluster {
	return &GridCluster{members: make(map[string]*member)}
}

// Weight reports the number of grids in the cluster.
func (gc *GridCluster) Weight() int { return len(gc.members) }

// Contains reports whether c is a member of gc.
func (gc *GridCluster) Contains(c grid.Coordinate) bool {
	_, ok := gc.members[c.Key()]
	return ok
}

// IsInside reports the last-computed inside/outside flag for member c. It
// returns false, ErrNotMember if c is not a member of gc.
func (gc *GridCluster) IsInside(c grid.Coordinate) (bool, error) {
	m, ok := gc.members[c.Key()]
	if !ok {
		return false, fmt.Errorf("IsInside: %s: %w", c, ErrNotMember)
	}

	return m.inside, nil
}

// Add inserts c as a new member of gc. Its inside flag starts false and is
// corrected by a subsequent RecomputeInside call — callers adding several
// grids in a batch should add them all first, then call RecomputeAll once,
// rather than recomputing after every single Add.
func (gc *GridCluster) Add(c grid.Coordinate) error {
	key := c.Key()
	if _, ok := gc.members[key]; ok {
		return fmt.Errorf("Add: %s: %w", c, ErrAlreadyMember)
	}
	gc.members[key] = &member{coord: c.Clone()}
	gc.order = append(gc.order, key)

	return nil
}

// Remove deletes c from gc.
func (gc *GridCluster) Remove(c grid.Coordinate) error {
	key := c.Key()
	if _, ok := gc.members[key]; !ok {
		return fmt.Errorf("Remove: %s: %w", c, ErrNotMember)
	}
	delete(gc.members, key)
	for i, k := range gc.order {
		if k == key {
			gc.order = append(gc.order[:i], gc.order[i+1:]...)
			break
		}
	}

	return nil
}

// RecomputeInside recalculates the inside/outside flag of member c against
// gc's current membership: c is inside iff every one of its 2d neighbours
// (grid.Coordinate.ForEachNeighbour) is also a member of gc.
func (gc *GridCluster) RecomputeInside(c grid.Coordinate) error {
	m, ok := gc.members[c.Key()]
	if !ok {
		return fmt.Errorf("RecomputeInside: %s: %w", c, ErrNotMember)
	}

	inside := true
	c.ForEachNeighbour(func(n grid.Coordinate) bool {
		if _, ok := gc.members[n.Key()]; !ok {
			inside = false
			return false
		}
		return true
	})
	m.inside = inside

	return nil
}

// RecomputeAll recalculates the inside/outside flag for every member of gc.
// Complexity: O(weight * 2d).
func (gc *GridCluster) RecomputeAll() {
	for _, key := range gc.order {
		m := gc.members[key]
		inside := true
		m.coord.ForEachNeighbour(func(n grid.Coordinate) bool {
			if _, ok := gc.members[n.Key()]; !ok {
				inside = false
				return false
			}
			return true
		})
		m.inside = inside
	}
}

// Absorb moves every member of other into gc, leaving other empty. Inside
// flags are not recomputed here — callers must follow an Absorb with
// RecomputeAll on gc, since absorbing can change the inside/outside status
// of grids on the shared boundary as well as the newly-added ones.
func (gc *GridCluster) Absorb(other *GridCluster) {
	for _, key := range other.order {
		m := other.members[key]
		gc.members[key] = &member{coord: m.coord}
		gc.order = append(gc.order, key)
	}
	other.members = make(map[string]*member)
	other.order = nil
}

// Members returns the cluster's member coordinates in ascending key order.
func (gc *GridCluster) Members() []grid.Coordinate {
	keys := make([]string, len(gc.order))
	copy(keys, gc.order)
	sort.Strings(keys)

	out := make([]grid.Coordinate, 0, len(keys))
	for _, k := range keys {
		out = append(out, gc.members[k].coord)
	}

	return out
}

// ForEach visits every member of gc, in ascending key order, until fn
// returns false.
func (gc *GridCluster) ForEach(fn func(c grid.Coordinate, inside bool) bool) {
	keys := make([]string, len(gc.order))
	copy(keys, gc.order)
	sort.Strings(keys)

	for _, k := range keys {
		m := gc.members[k]
		if !fn(m.coord, m.inside) {
			return
		}
	}
}
