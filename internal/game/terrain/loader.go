package terrain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlTerrainFile is the top-level YAML structure for terrain definition files.
type yamlTerrainFile struct {
	Terrains []yamlTerrain `yaml:"terrains"`
}

// yamlTerrain is the YAML representation of one terrain type.
type yamlTerrain struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	MovementCost int    `yaml:"movement_cost"`
	DefenseBonus int    `yaml:"defense_bonus"`
	AvoidBonus   int    `yaml:"avoid_bonus"`
	Passable     bool   `yaml:"passable"`
}

// LoadCatalogFromFile reads and validates a terrain definition YAML file.
//
// Precondition: path must point to a valid YAML terrain file.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading terrain file %s: %w", path, err)
	}
	catalog, err := LoadCatalogFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("terrain file %s: %w", path, err)
	}
	return catalog, nil
}

// LoadCatalogFromBytes parses and validates terrain definitions from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the terrain schema.
// Postcondition: Returns a validated Catalog or a non-nil error. Duplicate
// ids are rejected.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	var file yamlTerrainFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing terrain YAML: %w", err)
	}

	defs := make(map[ID]Terrain, len(file.Terrains))
	for _, yt := range file.Terrains {
		id := ID(yt.ID)
		if _, exists := defs[id]; exists {
			return nil, fmt.Errorf("duplicate terrain id %q", yt.ID)
		}
		defs[id] = Terrain{
			Name:         yt.Name,
			MovementCost: yt.MovementCost,
			DefenseBonus: yt.DefenseBonus,
			AvoidBonus:   yt.AvoidBonus,
			Passable:     yt.Passable,
		}
	}

	return NewCatalog(defs)
}
