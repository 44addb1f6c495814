// Package movement computes the set of tiles a unit can reach under a
// movement budget, honoring per-tile terrain costs and passability.
package movement

import (
	"container/heap"

	"github.com/kestrel-games/skirmish/internal/game/grid"
)

// CostQuery is the terrain view the solver needs: passability and entry
// cost per tile. Satisfied by *terrain.Query.
type CostQuery interface {
	IsPassable(c grid.Coord) bool
	MovementCost(c grid.Coord) int
}

// RangeSolver computes movement ranges over a CostQuery.
type RangeSolver struct {
	terrain CostQuery
}

// NewRangeSolver constructs a RangeSolver.
//
// Precondition: terrain must be non-nil.
func NewRangeSolver(terrain CostQuery) *RangeSolver {
	if terrain == nil {
		panic("movement.NewRangeSolver: terrain must not be nil")
	}
	return &RangeSolver{terrain: terrain}
}

// frontierEntry is one pending expansion in the search frontier.
type frontierEntry struct {
	coord grid.Coord
	cost  int
}

// frontier is a min-heap of entries keyed by cumulative cost. Expanding in
// non-decreasing cost order guarantees a tile's recorded cost is its true
// minimum before it stops being re-expanded; a FIFO frontier does not give
// that guarantee once tile costs vary.
type frontier []frontierEntry

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].cost < f[j].cost }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(frontierEntry)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	e := old[n-1]
	*f = old[:n-1]
	return e
}

// Reachable returns every coordinate reachable from origin by some path
// whose summed entry costs are <= budget, mapped to its minimum path cost.
// The origin itself is excluded from the result.
//
// Precondition: budget >= 0.
// Postcondition: No returned coordinate is impassable; every returned cost
// is the true minimum and <= budget.
func (s *RangeSolver) Reachable(origin grid.Coord, budget int) map[grid.Coord]int {
	best := map[grid.Coord]int{origin: 0}

	f := &frontier{{coord: origin, cost: 0}}
	heap.Init(f)

	for f.Len() > 0 {
		entry := heap.Pop(f).(frontierEntry)
		// Stale entry: a cheaper path to this tile was already expanded.
		if cost, ok := best[entry.coord]; ok && entry.cost > cost {
			continue
		}
		for _, n := range entry.coord.Neighbors() {
			if !s.terrain.IsPassable(n) {
				continue
			}
			candidate := entry.cost + s.terrain.MovementCost(n)
			if candidate > budget {
				continue
			}
			if prev, seen := best[n]; seen && candidate >= prev {
				continue
			}
			best[n] = candidate
			heap.Push(f, frontierEntry{coord: n, cost: candidate})
		}
	}

	delete(best, origin)
	return best
}
