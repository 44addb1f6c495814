// Package event defines the notification values the simulation core emits
// and a synchronous observer bus for delivering them. The core publishes
// regardless of whether any consumer is subscribed.
package event

import "github.com/kestrel-games/skirmish/internal/game/grid"

// Event is a notification value emitted by a mutating core operation.
type Event interface {
	// Kind returns a stable name for the event type, e.g. "unit.moved".
	Kind() string
}

// UnitMoved fires after a unit changes position.
type UnitMoved struct {
	UnitID string
	From   grid.Coord
	To     grid.Coord
}

// HealthChanged fires after a unit's health changes for any reason.
type HealthChanged struct {
	UnitID    string
	Health    int
	MaxHealth int
}

// DamageTaken fires after combat damage is applied.
type DamageTaken struct {
	UnitID   string
	Amount   int
	SourceID string
}

// AttackPerformed fires after a successful (non-rejected) attack.
type AttackPerformed struct {
	AttackerID string
	TargetID   string
	Damage     int
}

// UnitDied fires when a unit's health reaches zero.
type UnitDied struct {
	UnitID string
}

// TurnStarted fires when a side gains control.
type TurnStarted struct {
	Team       string
	TurnNumber int
}

// TurnEnded fires when a side relinquishes control.
type TurnEnded struct {
	Team       string
	TurnNumber int
}

// BattleEnded fires when one side has no living units left. It is an
// observation, not a blocking state; the driver decides to stop.
type BattleEnded struct {
	// Outcome is "victory" or "defeat", from the player's perspective.
	Outcome string
}

func (UnitMoved) Kind() string       { return "unit.moved" }
func (HealthChanged) Kind() string   { return "unit.health_changed" }
func (DamageTaken) Kind() string     { return "unit.damage_taken" }
func (AttackPerformed) Kind() string { return "combat.attack_performed" }
func (UnitDied) Kind() string        { return "unit.died" }
func (TurnStarted) Kind() string     { return "turn.started" }
func (TurnEnded) Kind() string       { return "turn.ended" }
func (BattleEnded) Kind() string     { return "battle.ended" }
