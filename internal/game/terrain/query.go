package terrain

import (
	"go.uber.org/zap"

	"github.com/kestrel-games/skirmish/internal/game/grid"
)

// TileSource is the external tile-data provider boundary. The core never
// reads tile art or atlas data; it only sees terrain identifiers.
type TileSource interface {
	// TerrainAt returns the terrain id backing the tile at c, or false
	// when no tile is present there.
	TerrainAt(c grid.Coord) (ID, bool)
}

// Query resolves terrain properties at board coordinates. It is a pure
// query layer: no method has side effects beyond diagnostic logging.
//
// Missing tiles and unknown terrain ids are absorbed with the documented
// Fallback terrain and a warning; they are never surfaced as errors.
type Query struct {
	catalog *Catalog
	tiles   TileSource
	logger  *zap.Logger
}

// NewQuery constructs a Query over the given catalog and tile source.
//
// Precondition: catalog, tiles, and logger must be non-nil.
func NewQuery(catalog *Catalog, tiles TileSource, logger *zap.Logger) *Query {
	if catalog == nil {
		panic("terrain.NewQuery: catalog must not be nil")
	}
	if tiles == nil {
		panic("terrain.NewQuery: tiles must not be nil")
	}
	if logger == nil {
		panic("terrain.NewQuery: logger must not be nil")
	}
	return &Query{catalog: catalog, tiles: tiles, logger: logger}
}

// TerrainAt returns the terrain present at c.
//
// Postcondition: Returns the registered Terrain for the tile's id, or
// Fallback when no tile is present at c or the id is unregistered.
func (q *Query) TerrainAt(c grid.Coord) Terrain {
	id, ok := q.tiles.TerrainAt(c)
	if !ok {
		q.logger.Warn("no tile at coordinate, using fallback terrain",
			zap.Stringer("coord", c),
		)
		return Fallback
	}
	t, err := q.catalog.Lookup(id)
	if err != nil {
		q.logger.Warn("unknown terrain id, using fallback terrain",
			zap.Stringer("coord", c),
			zap.String("terrain_id", string(id)),
			zap.Error(err),
		)
		return Fallback
	}
	return t
}

// IsPassable reports whether units may enter the tile at c.
func (q *Query) IsPassable(c grid.Coord) bool {
	return q.TerrainAt(c).Passable
}

// MovementCost returns the cost to enter the tile at c.
//
// Postcondition: Returns >= 1.
func (q *Query) MovementCost(c grid.Coord) int {
	return q.TerrainAt(c).MovementCost
}

// DefenseBonus returns the defense bonus granted by the tile at c.
//
// Postcondition: Returns >= 0.
func (q *Query) DefenseBonus(c grid.Coord) int {
	return q.TerrainAt(c).DefenseBonus
}

// AvoidBonus returns the avoid bonus granted by the tile at c.
//
// Postcondition: Returns >= 0.
func (q *Query) AvoidBonus(c grid.Coord) int {
	return q.TerrainAt(c).AvoidBonus
}
