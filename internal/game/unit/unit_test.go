package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kestrel-games/skirmish/internal/game/grid"
	"github.com/kestrel-games/skirmish/internal/game/unit"
)

func testArchetype() *unit.Archetype {
	return &unit.Archetype{
		ID:            "soldier",
		Name:          "Soldier",
		MaxHealth:     20,
		AttackDamage:  8,
		BaseDefense:   3,
		MovementRange: 5,
		AttackRange:   1,
	}
}

func TestArchetype_New(t *testing.T) {
	u := testArchetype().New(unit.TeamPlayer, grid.Coord{X: 2, Y: 3})

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "soldier", u.Archetype)
	assert.Equal(t, 20, u.Health)
	assert.Equal(t, 20, u.MaxHealth)
	assert.Equal(t, grid.Coord{X: 2, Y: 3}, u.Position)
	assert.Equal(t, unit.TeamPlayer, u.Team)
	assert.True(t, u.Alive)
	assert.False(t, u.MovedThisTurn)
	assert.False(t, u.AttackedThisTurn)

	other := testArchetype().New(unit.TeamEnemy, grid.Coord{X: 0, Y: 0})
	assert.NotEqual(t, u.ID, other.ID)
}

func TestUnit_ApplyDamage(t *testing.T) {
	u := testArchetype().New(unit.TeamPlayer, grid.Coord{})

	died := u.ApplyDamage(5)
	assert.False(t, died)
	assert.Equal(t, 15, u.Health)
	assert.True(t, u.Alive)

	died = u.ApplyDamage(50)
	assert.True(t, died)
	assert.Equal(t, 0, u.Health, "health floors at 0")
	assert.False(t, u.Alive)

	// Damage on an already-dead unit reports no new death.
	died = u.ApplyDamage(5)
	assert.False(t, died)
	assert.Equal(t, 0, u.Health)
}

func TestUnit_Property_AliveTracksHealth(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		u := testArchetype().New(unit.TeamEnemy, grid.Coord{})
		hits := rapid.IntRange(0, 8).Draw(rt, "hits")
		for i := 0; i < hits; i++ {
			u.ApplyDamage(rapid.IntRange(0, 12).Draw(rt, "dmg"))
			u.Heal(rapid.IntRange(0, 12).Draw(rt, "heal"))
		}
		assert.Equal(rt, u.Health > 0, u.Alive)
		assert.GreaterOrEqual(rt, u.Health, 0)
		assert.LessOrEqual(rt, u.Health, u.MaxHealth)
	})
}

func TestUnit_Heal(t *testing.T) {
	u := testArchetype().New(unit.TeamPlayer, grid.Coord{})
	u.ApplyDamage(10)

	u.Heal(4)
	assert.Equal(t, 14, u.Health)

	u.Heal(100)
	assert.Equal(t, 20, u.Health, "clamped to max")

	u.ApplyDamage(100)
	require.False(t, u.Alive)
	u.Heal(5)
	assert.Equal(t, 0, u.Health, "healing a dead unit is a no-op")
	assert.False(t, u.Alive)
}

func TestUnit_ResetTurn_Idempotent(t *testing.T) {
	u := testArchetype().New(unit.TeamPlayer, grid.Coord{})
	u.MovedThisTurn = true
	u.AttackedThisTurn = true

	u.ResetTurn()
	assert.False(t, u.MovedThisTurn)
	assert.False(t, u.AttackedThisTurn)

	u.ResetTurn()
	assert.False(t, u.MovedThisTurn)
	assert.False(t, u.AttackedThisTurn)
}

func TestUnit_EffectiveDefense(t *testing.T) {
	u := testArchetype().New(unit.TeamPlayer, grid.Coord{})
	assert.Equal(t, 3, u.EffectiveDefense())
	u.TerrainDefenseBonus = 5
	assert.Equal(t, 8, u.EffectiveDefense())
}

func TestTeam_String(t *testing.T) {
	assert.Equal(t, "player", unit.TeamPlayer.String())
	assert.Equal(t, "enemy", unit.TeamEnemy.String())
	assert.Equal(t, "neutral", unit.TeamNeutral.String())
}

func TestTeam_Opponent(t *testing.T) {
	assert.Equal(t, unit.TeamEnemy, unit.TeamPlayer.Opponent())
	assert.Equal(t, unit.TeamPlayer, unit.TeamEnemy.Opponent())
}
