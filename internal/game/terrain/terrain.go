// Package terrain provides the immutable terrain registry and the query
// layer that resolves terrain properties at board coordinates.
package terrain

import (
	"errors"
	"fmt"
	"sort"
)

// ImpassableCost is the sentinel movement cost that marks a terrain as
// effectively impassable even when its Passable flag is set.
const ImpassableCost = 999

// ID identifies a terrain type inside a Catalog, e.g. "plains" or "forest".
type ID string

// Terrain holds the immutable properties of one terrain type.
type Terrain struct {
	// Name is the display name, e.g. "Forest".
	Name string
	// MovementCost is the cost to enter a tile of this terrain. Always >= 1;
	// ImpassableCost marks the terrain as effectively impassable.
	MovementCost int
	// DefenseBonus is added to the defense of a unit standing on this terrain.
	DefenseBonus int
	// AvoidBonus is added to the avoid chance of a unit standing on this terrain.
	AvoidBonus int
	// Passable reports whether units may enter tiles of this terrain at all.
	Passable bool
}

// Fallback is the documented terrain used when a tile is missing or its
// terrain id is unknown. Callers resolving a data error land here.
var Fallback = Terrain{
	Name:         "Unknown",
	MovementCost: 1,
	DefenseBonus: 0,
	AvoidBonus:   0,
	Passable:     true,
}

// ErrUnknownTerrain is returned by Catalog.Lookup for an unregistered id.
var ErrUnknownTerrain = errors.New("unknown terrain id")

// Validate checks the terrain invariants.
//
// Postcondition: Returns nil iff Name is non-empty, MovementCost >= 1,
// and both bonuses are >= 0; returns an error on the first violation.
func (t Terrain) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("terrain: name must not be empty")
	}
	if t.MovementCost < 1 {
		return fmt.Errorf("terrain %q: movement_cost must be >= 1, got %d", t.Name, t.MovementCost)
	}
	if t.DefenseBonus < 0 {
		return fmt.Errorf("terrain %q: defense_bonus must be >= 0, got %d", t.Name, t.DefenseBonus)
	}
	if t.AvoidBonus < 0 {
		return fmt.Errorf("terrain %q: avoid_bonus must be >= 0, got %d", t.Name, t.AvoidBonus)
	}
	return nil
}

// Catalog is the read-only registry of terrain types. It is populated once
// at construction and exposes no mutation.
type Catalog struct {
	types map[ID]Terrain
}

// NewCatalog builds a Catalog from the given definitions.
//
// Precondition: defs must contain at least one entry.
// Postcondition: Returns a Catalog with every definition validated, or an
// error naming the first invalid entry.
func NewCatalog(defs map[ID]Terrain) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("terrain catalog: at least one terrain definition is required")
	}
	types := make(map[ID]Terrain, len(defs))
	for id, t := range defs {
		if id == "" {
			return nil, fmt.Errorf("terrain catalog: empty terrain id")
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("terrain catalog: id %q: %w", id, err)
		}
		types[id] = t
	}
	return &Catalog{types: types}, nil
}

// Lookup returns the terrain registered under id.
//
// Postcondition: Returns the Terrain, or ErrUnknownTerrain (wrapped with the
// offending id) when id is not registered. Callers resolve the error with
// the documented Fallback terrain.
func (c *Catalog) Lookup(id ID) (Terrain, error) {
	t, ok := c.types[id]
	if !ok {
		return Terrain{}, fmt.Errorf("terrain %q: %w", id, ErrUnknownTerrain)
	}
	return t, nil
}

// Has reports whether id is registered.
func (c *Catalog) Has(id ID) bool {
	_, ok := c.types[id]
	return ok
}

// IDs returns all registered terrain ids in sorted order.
func (c *Catalog) IDs() []ID {
	ids := make([]ID, 0, len(c.types))
	for id := range c.types {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of registered terrain types.
func (c *Catalog) Len() int { return len(c.types) }
