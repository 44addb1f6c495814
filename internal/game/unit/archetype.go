package unit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kestrel-games/skirmish/internal/game/grid"
)

// Archetype is a reusable stat preset loaded from YAML. Units are plain
// data constructed from an archetype; there is no subclassing, and any
// archetype-specific death behavior hangs off the OnDeathHook name.
type Archetype struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	MaxHealth     int    `yaml:"max_health"`
	AttackDamage  int    `yaml:"attack_damage"`
	BaseDefense   int    `yaml:"base_defense"`
	MovementRange int    `yaml:"movement_range"`
	AttackRange   int    `yaml:"attack_range"`
	// OnDeathHook is the name of a script hook invoked when a unit of this
	// archetype dies. Empty means no hook.
	OnDeathHook string `yaml:"on_death"`
}

// Validate checks that the archetype satisfies basic invariants.
//
// Precondition: a must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHealth >= 1,
// AttackDamage >= 0, BaseDefense >= 0, MovementRange >= 0, and
// AttackRange >= 1; returns an error on the first violation otherwise.
func (a *Archetype) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("archetype: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("archetype %q: name must not be empty", a.ID)
	}
	if a.MaxHealth < 1 {
		return fmt.Errorf("archetype %q: max_health must be >= 1, got %d", a.ID, a.MaxHealth)
	}
	if a.AttackDamage < 0 {
		return fmt.Errorf("archetype %q: attack_damage must be >= 0, got %d", a.ID, a.AttackDamage)
	}
	if a.BaseDefense < 0 {
		return fmt.Errorf("archetype %q: base_defense must be >= 0, got %d", a.ID, a.BaseDefense)
	}
	if a.MovementRange < 0 {
		return fmt.Errorf("archetype %q: movement_range must be >= 0, got %d", a.ID, a.MovementRange)
	}
	if a.AttackRange < 1 {
		return fmt.Errorf("archetype %q: attack_range must be >= 1, got %d", a.ID, a.AttackRange)
	}
	return nil
}

// New constructs a live Unit from this archetype.
//
// Postcondition: The unit starts at full health, alive, flags clear, with
// a fresh uuid identifier.
func (a *Archetype) New(team Team, pos grid.Coord) *Unit {
	return &Unit{
		ID:            uuid.NewString(),
		Archetype:     a.ID,
		Name:          a.Name,
		MaxHealth:     a.MaxHealth,
		Health:        a.MaxHealth,
		AttackDamage:  a.AttackDamage,
		BaseDefense:   a.BaseDefense,
		MovementRange: a.MovementRange,
		AttackRange:   a.AttackRange,
		Position:      pos,
		Team:          team,
		Alive:         true,
	}
}

// LoadArchetypeFromBytes parses a single archetype from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Archetype.
// Postcondition: Returns a validated *Archetype, or an error.
func LoadArchetypeFromBytes(data []byte) (*Archetype, error) {
	var a Archetype
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing archetype YAML: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadArchetypesFromDir loads every *.yaml file in dir as one archetype,
// keyed by archetype id, in lexicographic file order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the archetype map, or an error on the first
// unreadable/invalid file or duplicate id.
func LoadArchetypesFromDir(dir string) (map[string]*Archetype, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading archetype dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	archetypes := make(map[string]*Archetype, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading archetype file %s: %w", path, err)
		}
		a, err := LoadArchetypeFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("archetype file %s: %w", path, err)
		}
		if _, exists := archetypes[a.ID]; exists {
			return nil, fmt.Errorf("archetype file %s: duplicate archetype id %q", path, a.ID)
		}
		archetypes[a.ID] = a
	}
	return archetypes, nil
}
