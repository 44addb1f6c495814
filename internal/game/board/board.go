// Package board provides the tile map backing a battle: a rectangular grid
// of terrain ids loaded from YAML. It is the concrete tile-data provider
// consumed by the terrain query layer.
package board

import (
	"fmt"

	"github.com/kestrel-games/skirmish/internal/game/grid"
	"github.com/kestrel-games/skirmish/internal/game/terrain"
)

// Board is a rectangular tile map. Tiles outside the bounds are absent;
// the terrain query layer resolves them with its fallback terrain.
type Board struct {
	// Name is the display name of the map.
	Name string
	// TileSize is the edge length of one tile in world units, used to map
	// world-space points to coordinates.
	TileSize float64

	width  int
	height int
	tiles  [][]terrain.ID
}

// New creates a Board from a row-major tile grid.
//
// Precondition: tiles must be non-empty and rectangular.
// Postcondition: Returns a Board or an error describing the first
// malformed row.
func New(name string, tileSize float64, tiles [][]terrain.ID) (*Board, error) {
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, fmt.Errorf("board %q: tile grid must not be empty", name)
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("board %q: tile size must be > 0, got %v", name, tileSize)
	}
	width := len(tiles[0])
	for y, row := range tiles {
		if len(row) != width {
			return nil, fmt.Errorf("board %q: row %d has %d tiles, want %d", name, y, len(row), width)
		}
	}
	return &Board{
		Name:     name,
		TileSize: tileSize,
		width:    width,
		height:   len(tiles),
		tiles:    tiles,
	}, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// InBounds reports whether c lies on the board.
func (b *Board) InBounds(c grid.Coord) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.height
}

// TerrainAt returns the terrain id of the tile at c, or false when c is
// outside the board. Implements terrain.TileSource.
func (b *Board) TerrainAt(c grid.Coord) (terrain.ID, bool) {
	if !b.InBounds(c) {
		return "", false
	}
	return b.tiles[c.Y][c.X], true
}

// CoordAt returns the coordinate containing the world-space point (wx, wy),
// or false when the point lies outside the board.
func (b *Board) CoordAt(wx, wy float64) (grid.Coord, bool) {
	if wx < 0 || wy < 0 {
		return grid.Coord{}, false
	}
	c := grid.Coord{X: int(wx / b.TileSize), Y: int(wy / b.TileSize)}
	if !b.InBounds(c) {
		return grid.Coord{}, false
	}
	return c, true
}
