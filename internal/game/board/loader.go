package board

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kestrel-games/skirmish/internal/game/terrain"
)

// yamlBoardFile is the top-level YAML structure for map files.
type yamlBoardFile struct {
	Map yamlBoard `yaml:"map"`
}

// yamlBoard is the YAML representation of a tile map. Rows are strings of
// legend runes, top row first.
type yamlBoard struct {
	Name     string            `yaml:"name"`
	TileSize float64           `yaml:"tile_size"`
	Legend   map[string]string `yaml:"legend"`
	Rows     []string          `yaml:"rows"`
}

// LoadFromFile reads and validates a single map YAML file.
//
// Precondition: path must point to a valid YAML map file.
// Postcondition: Returns a validated Board or a non-nil error.
func LoadFromFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file %s: %w", path, err)
	}
	b, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", path, err)
	}
	return b, nil
}

// LoadFromBytes parses and validates a map from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the map schema;
// every rune in every row must appear in the legend.
// Postcondition: Returns a validated Board or a non-nil error.
func LoadFromBytes(data []byte) (*Board, error) {
	var file yamlBoardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing map YAML: %w", err)
	}
	m := file.Map

	legend := make(map[rune]terrain.ID, len(m.Legend))
	for key, id := range m.Legend {
		runes := []rune(key)
		if len(runes) != 1 {
			return nil, fmt.Errorf("map %q: legend key %q must be a single rune", m.Name, key)
		}
		legend[runes[0]] = terrain.ID(id)
	}

	tiles := make([][]terrain.ID, len(m.Rows))
	for y, row := range m.Rows {
		runes := []rune(row)
		tiles[y] = make([]terrain.ID, len(runes))
		for x, r := range runes {
			id, ok := legend[r]
			if !ok {
				return nil, fmt.Errorf("map %q: row %d column %d: rune %q not in legend", m.Name, y, x, r)
			}
			tiles[y][x] = id
		}
	}

	tileSize := m.TileSize
	if tileSize == 0 {
		tileSize = 16 // default tile edge in world units
	}

	return New(m.Name, tileSize, tiles)
}

// ValidateTerrain checks that every terrain id placed on the board is
// registered in catalog. Call after loading to catch content mismatches
// before a battle starts.
//
// Postcondition: Returns nil if all tiles resolve, or an error naming the
// first unregistered id and its coordinate.
func (b *Board) ValidateTerrain(catalog *terrain.Catalog) error {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			id := b.tiles[y][x]
			if !catalog.Has(id) {
				return fmt.Errorf("map %q: tile (%d,%d) uses unregistered terrain %q", b.Name, x, y, id)
			}
		}
	}
	return nil
}
