// Package unit provides the per-combatant state record, its transition
// methods, and data-only archetype templates used to construct units.
package unit

import (
	"github.com/kestrel-games/skirmish/internal/game/grid"
)

// Team identifies which side a unit fights for.
type Team int

const (
	// TeamPlayer units are controlled by the player-side driver.
	TeamPlayer Team = iota
	// TeamEnemy units are controlled by the enemy decision provider.
	TeamEnemy
	// TeamNeutral units belong to neither side and never enter the
	// turn roster.
	TeamNeutral
)

// String returns a lowercase team label.
func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	case TeamNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Opponent returns the opposing side.
//
// Precondition: t is TeamPlayer or TeamEnemy.
func (t Team) Opponent() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

// Unit is one combatant. Mutated by movement, combat, and turn reset;
// single-writer, never shared across goroutines.
//
// Invariant: Alive == (Health > 0), re-established on every health
// mutation. A dead unit's action flags are frozen and irrelevant.
type Unit struct {
	// ID uniquely identifies this unit for the life of the session.
	ID string
	// Archetype is the id of the template this unit was built from.
	Archetype string
	// Name is the display name.
	Name string

	MaxHealth     int
	Health        int
	AttackDamage  int
	BaseDefense   int
	MovementRange int
	AttackRange   int

	Position grid.Coord
	Team     Team

	Alive            bool
	MovedThisTurn    bool
	AttackedThisTurn bool

	// TerrainDefenseBonus is the defense bonus of the occupied tile. It is
	// transient: set externally whenever the unit's tile changes and read
	// fresh at attack time, never cached across moves.
	TerrainDefenseBonus int
}

// EffectiveDefense returns base defense plus the current terrain bonus.
//
// Postcondition: Returns BaseDefense + TerrainDefenseBonus.
func (u *Unit) EffectiveDefense() int {
	return u.BaseDefense + u.TerrainDefenseBonus
}

// ApplyDamage reduces Health by amount, flooring at zero, and reports
// whether the unit died as a result.
//
// Precondition: amount >= 0.
// Postcondition: Health >= 0; Alive == (Health > 0).
func (u *Unit) ApplyDamage(amount int) (died bool) {
	wasAlive := u.Alive
	u.Health -= amount
	if u.Health <= 0 {
		u.Health = 0
		u.Alive = false
	}
	return wasAlive && !u.Alive
}

// Heal restores up to amount health, clamped to MaxHealth. Healing a dead
// unit is a no-op; death is permanent within a session.
//
// Precondition: amount >= 0.
// Postcondition: Health <= MaxHealth; a dead unit is unchanged.
func (u *Unit) Heal(amount int) {
	if !u.Alive {
		return
	}
	u.Health += amount
	if u.Health > u.MaxHealth {
		u.Health = u.MaxHealth
	}
}

// ResetTurn clears both per-turn action flags. Idempotent; never touches
// Health or Alive. Dead units are excluded from the turn roster and never
// receive it during a reset pass.
func (u *Unit) ResetTurn() {
	u.MovedThisTurn = false
	u.AttackedThisTurn = false
}

// CanAct reports whether the unit may still take some action this turn.
func (u *Unit) CanAct() bool {
	return u.Alive && (!u.MovedThisTurn || !u.AttackedThisTurn)
}
