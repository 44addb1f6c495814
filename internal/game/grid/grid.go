// Package grid provides the integer coordinate type and distance metric
// used by the tactical board: 4-directional adjacency, Manhattan distance.
package grid

import "fmt"

// Coord is a cell on the orthogonal grid.
type Coord struct {
	X int
	Y int
}

// String returns the coordinate in "(x,y)" format.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Manhattan returns the Manhattan distance |dx| + |dy| between c and other.
//
// Postcondition: Returns >= 0.
func (c Coord) Manhattan(other Coord) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

// Neighbors returns the four orthogonally adjacent coordinates in
// north, south, east, west order. Diagonals are never adjacent.
func (c Coord) Neighbors() [4]Coord {
	return [4]Coord{
		{c.X, c.Y - 1},
		{c.X, c.Y + 1},
		{c.X + 1, c.Y},
		{c.X - 1, c.Y},
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
