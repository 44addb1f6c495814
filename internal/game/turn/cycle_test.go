package turn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kestrel-games/skirmish/internal/game/event"
	"github.com/kestrel-games/skirmish/internal/game/grid"
	"github.com/kestrel-games/skirmish/internal/game/turn"
	"github.com/kestrel-games/skirmish/internal/game/unit"
)

func spawn(team unit.Team) *unit.Unit {
	a := &unit.Archetype{
		ID: "soldier", Name: "Soldier",
		MaxHealth: 10, AttackDamage: 5, BaseDefense: 1,
		MovementRange: 4, AttackRange: 1,
	}
	return a.New(team, grid.Coord{})
}

func TestCycle_InitialState(t *testing.T) {
	c := turn.NewCycle(event.NewBus())
	assert.Equal(t, unit.TeamPlayer, c.ActiveTeam())
	assert.Equal(t, 1, c.TurnNumber())
}

func TestCycle_EndTurn_AlternatesAndCountsFullCycles(t *testing.T) {
	bus := event.NewBus()
	c := turn.NewCycle(bus)
	c.Register(spawn(unit.TeamPlayer))
	c.Register(spawn(unit.TeamEnemy))

	c.EndTurn()
	assert.Equal(t, unit.TeamEnemy, c.ActiveTeam())
	assert.Equal(t, 1, c.TurnNumber(), "number only increments on the wrap")

	c.EndTurn()
	assert.Equal(t, unit.TeamPlayer, c.ActiveTeam())
	assert.Equal(t, 2, c.TurnNumber())
}

func TestCycle_Property_TurnNumberPerFullPair(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := turn.NewCycle(event.NewBus())
		flips := rapid.IntRange(0, 20).Draw(rt, "flips")
		for i := 0; i < flips; i++ {
			c.EndTurn()
		}
		assert.Equal(rt, 1+flips/2, c.TurnNumber())
		wantPlayer := flips%2 == 0
		assert.Equal(rt, wantPlayer, c.ActiveTeam() == unit.TeamPlayer)
	})
}

func TestCycle_StartTurn_ResetsOnlyActiveLivingUnits(t *testing.T) {
	c := turn.NewCycle(event.NewBus())
	acted := spawn(unit.TeamPlayer)
	acted.MovedThisTurn = true
	acted.AttackedThisTurn = true
	dead := spawn(unit.TeamPlayer)
	dead.MovedThisTurn = true
	dead.ApplyDamage(100)
	foe := spawn(unit.TeamEnemy)
	foe.MovedThisTurn = true

	c.Register(acted)
	c.Register(dead)
	c.Register(foe)

	c.StartTurn()

	assert.False(t, acted.MovedThisTurn)
	assert.False(t, acted.AttackedThisTurn)
	assert.True(t, dead.MovedThisTurn, "dead units are skipped")
	assert.True(t, foe.MovedThisTurn, "inactive team is untouched")
}

func TestCycle_TurnEvents(t *testing.T) {
	bus := event.NewBus()
	var kinds []string
	bus.Subscribe(func(e event.Event) { kinds = append(kinds, e.Kind()) })

	c := turn.NewCycle(bus)
	c.StartTurn()
	c.EndTurn()

	assert.Equal(t, []string{"turn.started", "turn.ended", "turn.started"}, kinds)
}

func TestCycle_OnUnitDied_Victory(t *testing.T) {
	bus := event.NewBus()
	var ended []event.BattleEnded
	bus.Subscribe(func(e event.Event) {
		if be, ok := e.(event.BattleEnded); ok {
			ended = append(ended, be)
		}
	})

	c := turn.NewCycle(bus)
	c.Register(spawn(unit.TeamPlayer))
	foe := spawn(unit.TeamEnemy)
	c.Register(foe)

	foe.ApplyDamage(100)
	outcome := c.OnUnitDied(foe)

	assert.Equal(t, turn.Victory, outcome)
	require.Len(t, ended, 1)
	assert.Equal(t, "victory", ended[0].Outcome)
	assert.Empty(t, c.Roster(unit.TeamEnemy))
}

func TestCycle_OnUnitDied_Defeat(t *testing.T) {
	c := turn.NewCycle(event.NewBus())
	hero := spawn(unit.TeamPlayer)
	c.Register(hero)
	c.Register(spawn(unit.TeamEnemy))

	hero.ApplyDamage(100)
	assert.Equal(t, turn.Defeat, c.OnUnitDied(hero))
}

func TestCycle_OnUnitDied_Undecided(t *testing.T) {
	c := turn.NewCycle(event.NewBus())
	c.Register(spawn(unit.TeamPlayer))
	foe1 := spawn(unit.TeamEnemy)
	foe2 := spawn(unit.TeamEnemy)
	c.Register(foe1)
	c.Register(foe2)

	foe1.ApplyDamage(100)
	assert.Equal(t, turn.Undecided, c.OnUnitDied(foe1))
}

// Mutual annihilation reports defeat: the player roster is checked first.
func TestCycle_MutualWipe_DefeatWins(t *testing.T) {
	c := turn.NewCycle(event.NewBus())
	hero := spawn(unit.TeamPlayer)
	foe := spawn(unit.TeamEnemy)
	c.Register(hero)
	c.Register(foe)

	hero.ApplyDamage(100)
	foe.ApplyDamage(100)
	c.OnUnitDied(foe)
	assert.Equal(t, turn.Defeat, c.OnUnitDied(hero))
	assert.Equal(t, turn.Defeat, c.Evaluate())
}

func TestCycle_NeutralUnitsExcluded(t *testing.T) {
	c := turn.NewCycle(event.NewBus())
	bystander := spawn(unit.TeamNeutral)
	c.Register(bystander)
	c.Register(spawn(unit.TeamPlayer))
	c.Register(spawn(unit.TeamEnemy))

	assert.Empty(t, c.Roster(unit.TeamNeutral))

	bystander.ApplyDamage(100)
	assert.Equal(t, turn.Undecided, c.OnUnitDied(bystander))
}
