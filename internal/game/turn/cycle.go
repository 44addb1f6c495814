// Package turn implements the alternating turn state machine: side
// control, per-turn flag resets, and victory/defeat evaluation driven by
// unit deaths.
package turn

import (
	"github.com/kestrel-games/skirmish/internal/game/event"
	"github.com/kestrel-games/skirmish/internal/game/unit"
)

// Outcome is the battle result observed after a death. It never blocks
// further transitions; the driver is expected to stop once a side has lost.
type Outcome int

const (
	// Undecided means both sides still have living units.
	Undecided Outcome = iota
	// Victory means the enemy roster has no living member.
	Victory
	// Defeat means the player roster has no living member. On mutual
	// annihilation Defeat is reported, because the player roster is
	// checked first; the tie-break is defined, not meaningful.
	Defeat
)

// String returns a lowercase outcome label.
func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "undecided"
	}
}

// Cycle alternates control between the player and enemy sides.
//
// Invariant: exactly one team is active; the turn number starts at 1 and
// increments only on the enemy-to-player wraparound (once per full cycle).
type Cycle struct {
	bus    *event.Bus
	active unit.Team
	number int
	roster map[unit.Team][]*unit.Unit
}

// NewCycle creates a Cycle in the initial state: player turn, turn 1.
//
// Precondition: bus must be non-nil.
func NewCycle(bus *event.Bus) *Cycle {
	if bus == nil {
		panic("turn.NewCycle: bus must not be nil")
	}
	return &Cycle{
		bus:    bus,
		active: unit.TeamPlayer,
		number: 1,
		roster: map[unit.Team][]*unit.Unit{
			unit.TeamPlayer: nil,
			unit.TeamEnemy:  nil,
		},
	}
}

// ActiveTeam returns the side currently in control.
func (c *Cycle) ActiveTeam() unit.Team { return c.active }

// TurnNumber returns the current turn number, starting at 1.
func (c *Cycle) TurnNumber() int { return c.number }

// Register adds u to its team's roster. Neutral units never enter the
// roster and never participate in turn iteration or victory evaluation.
func (c *Cycle) Register(u *unit.Unit) {
	if u.Team == unit.TeamNeutral {
		return
	}
	c.roster[u.Team] = append(c.roster[u.Team], u)
}

// Roster returns the living units registered for team. Neutral always
// yields nil.
func (c *Cycle) Roster(team unit.Team) []*unit.Unit {
	return c.roster[team]
}

// StartTurn resets the per-turn flags of every living unit on the active
// team and emits a turn-started event. When the active team is the enemy,
// control passes to the external decision provider, which must eventually
// call EndTurn; the core makes no assumption about how long that takes.
func (c *Cycle) StartTurn() {
	for _, u := range c.roster[c.active] {
		if u.Alive {
			u.ResetTurn()
		}
	}
	c.bus.Publish(event.TurnStarted{Team: c.active.String(), TurnNumber: c.number})
}

// EndTurn emits a turn-ended event, flips the active team, increments the
// turn number on the enemy-to-player wrap, and starts the next turn.
func (c *Cycle) EndTurn() {
	c.bus.Publish(event.TurnEnded{Team: c.active.String(), TurnNumber: c.number})

	if c.active == unit.TeamEnemy {
		c.number++
	}
	c.active = c.active.Opponent()

	c.StartTurn()
}

// OnUnitDied removes u from its team roster and re-evaluates the battle.
// Neutral deaths never decide anything.
//
// Postcondition: Returns the current Outcome; Defeat is checked before
// Victory. A decided outcome publishes a BattleEnded event.
func (c *Cycle) OnUnitDied(u *unit.Unit) Outcome {
	if u.Team == unit.TeamNeutral {
		return c.Evaluate()
	}

	units := c.roster[u.Team]
	for i, r := range units {
		if r.ID == u.ID {
			c.roster[u.Team] = append(units[:i], units[i+1:]...)
			break
		}
	}

	outcome := c.Evaluate()
	if outcome != Undecided {
		c.bus.Publish(event.BattleEnded{Outcome: outcome.String()})
	}
	return outcome
}

// Evaluate reports the battle outcome from the current rosters without
// publishing anything.
func (c *Cycle) Evaluate() Outcome {
	if c.livingCount(unit.TeamPlayer) == 0 {
		return Defeat
	}
	if c.livingCount(unit.TeamEnemy) == 0 {
		return Victory
	}
	return Undecided
}

func (c *Cycle) livingCount(team unit.Team) int {
	n := 0
	for _, u := range c.roster[team] {
		if u.Alive {
			n++
		}
	}
	return n
}
