// Package combat implements damage resolution between two units.
package combat

import (
	"github.com/kestrel-games/skirmish/internal/game/grid"
	"github.com/kestrel-games/skirmish/internal/game/unit"
)

// MinimumDamage is the damage floor for any attack that is not rejected.
// A valid in-range attack on a living target always lands at least this
// much, no matter how high the defense.
const MinimumDamage = 1

// Rejection identifies which precondition stopped an attack. Rejections
// are expected outcomes, not errors: the attack deals 0 damage and leaves
// all state untouched.
type Rejection int

const (
	// NotRejected means the attack was resolved and damage applied.
	NotRejected Rejection = iota
	// RejectedDeadAttacker means dead units cannot act.
	RejectedDeadAttacker
	// RejectedDeadTarget means the target is missing or already dead.
	RejectedDeadTarget
	// RejectedAlreadyAttacked means the attacker has already attacked this turn.
	RejectedAlreadyAttacked
	// RejectedOutOfRange means the target is beyond the attacker's reach.
	RejectedOutOfRange
)

// String returns a human-readable rejection label.
func (r Rejection) String() string {
	switch r {
	case NotRejected:
		return "not rejected"
	case RejectedDeadAttacker:
		return "dead units cannot act"
	case RejectedDeadTarget:
		return "target is missing or dead"
	case RejectedAlreadyAttacked:
		return "already attacked this turn"
	case RejectedOutOfRange:
		return "target out of range"
	default:
		return "unknown"
	}
}

// DefenseQuery is the terrain view the resolver needs: the defense bonus
// of the tile a unit stands on. Satisfied by *terrain.Query.
type DefenseQuery interface {
	DefenseBonus(c grid.Coord) int
}

// Result describes a resolved attack.
type Result struct {
	// Damage is the health actually removed from the defender. Zero only
	// when the attack was rejected.
	Damage int
	// DefenderDied is true when this attack dropped the defender to zero.
	DefenderDied bool
}

// Resolve computes and applies one attack from attacker to defender.
//
// Preconditions are checked in order; the first failure rejects the attack
// with zero damage and no state change: dead attacker, nil/dead defender,
// attacker already attacked this turn, defender beyond attack range
// (Manhattan distance).
//
// On success the defender's terrain defense bonus is refreshed from
// terrain, damage = max(MinimumDamage, attacker.AttackDamage -
// defender.EffectiveDefense()) is applied, and the attacker's
// AttackedThisTurn flag is set.
//
// Precondition: attacker and terrain must be non-nil.
// Postcondition: rejection == NotRejected implies result.Damage >= MinimumDamage.
func Resolve(attacker, defender *unit.Unit, terrain DefenseQuery) (Result, Rejection) {
	if !attacker.Alive {
		return Result{}, RejectedDeadAttacker
	}
	if defender == nil || !defender.Alive {
		return Result{}, RejectedDeadTarget
	}
	if attacker.AttackedThisTurn {
		return Result{}, RejectedAlreadyAttacked
	}
	if attacker.Position.Manhattan(defender.Position) > attacker.AttackRange {
		return Result{}, RejectedOutOfRange
	}

	// Terrain bonus is read fresh at attack time, never cached.
	defender.TerrainDefenseBonus = terrain.DefenseBonus(defender.Position)

	damage := attacker.AttackDamage - defender.EffectiveDefense()
	if damage < MinimumDamage {
		damage = MinimumDamage
	}

	died := defender.ApplyDamage(damage)
	attacker.AttackedThisTurn = true

	return Result{Damage: damage, DefenderDied: died}, NotRejected
}
