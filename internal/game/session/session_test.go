package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kestrel-games/skirmish/internal/game/board"
	"github.com/kestrel-games/skirmish/internal/game/combat"
	"github.com/kestrel-games/skirmish/internal/game/event"
	"github.com/kestrel-games/skirmish/internal/game/grid"
	"github.com/kestrel-games/skirmish/internal/game/session"
	"github.com/kestrel-games/skirmish/internal/game/terrain"
	"github.com/kestrel-games/skirmish/internal/game/turn"
	"github.com/kestrel-games/skirmish/internal/game/unit"
	"github.com/kestrel-games/skirmish/internal/scripting"
)

const testMap = `
map:
  name: Proving Grounds
  tile_size: 16
  legend:
    ".": plains
    "f": fort
    "^": mountain
  rows:
    - "....."
    - "..^.."
    - "..f.."
    - "....."
`

func testCatalog(t *testing.T) *terrain.Catalog {
	t.Helper()
	c, err := terrain.NewCatalog(map[terrain.ID]terrain.Terrain{
		"plains":   {Name: "Plains", MovementCost: 1, Passable: true},
		"fort":     {Name: "Fort", MovementCost: 2, DefenseBonus: 5, Passable: true},
		"mountain": {Name: "Mountain", MovementCost: terrain.ImpassableCost, Passable: false},
	})
	require.NoError(t, err)
	return c
}

func testArchetypes() map[string]*unit.Archetype {
	return map[string]*unit.Archetype{
		"soldier": {
			ID: "soldier", Name: "Soldier",
			MaxHealth: 20, AttackDamage: 10, BaseDefense: 3,
			MovementRange: 4, AttackRange: 1,
		},
		"archer": {
			ID: "archer", Name: "Archer",
			MaxHealth: 12, AttackDamage: 6, BaseDefense: 1,
			MovementRange: 3, AttackRange: 2,
		},
	}
}

func newTestSession(t *testing.T, hooks *scripting.Hooks) *session.Session {
	t.Helper()
	b, err := board.LoadFromBytes([]byte(testMap))
	require.NoError(t, err)

	s, err := session.New(session.Config{
		Logger:     zap.NewNop(),
		Board:      b,
		Catalog:    testCatalog(t),
		Archetypes: testArchetypes(),
		Hooks:      hooks,
	})
	require.NoError(t, err)
	return s
}

func TestSession_SpawnAndRegistry(t *testing.T) {
	s := newTestSession(t, nil)

	u, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)
	got, ok := s.Unit(u.ID)
	require.True(t, ok)
	assert.Same(t, u, got)

	_, err = s.Spawn("dragon", unit.TeamEnemy, grid.Coord{X: 1, Y: 0})
	require.Error(t, err, "unknown archetype is a content error")

	_, err = s.Spawn("soldier", unit.TeamEnemy, grid.Coord{X: 2, Y: 1})
	require.Error(t, err, "impassable spawn tile is a content error")
}

func TestSession_Spawn_PrimesTerrainBonus(t *testing.T) {
	s := newTestSession(t, nil)
	u, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 2, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, u.TerrainDefenseBonus, "fort tile grants its bonus on spawn")
}

func TestSession_Move(t *testing.T) {
	s := newTestSession(t, nil)
	u, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)

	var moves []event.UnitMoved
	s.Bus().Subscribe(func(e event.Event) {
		if m, ok := e.(event.UnitMoved); ok {
			moves = append(moves, m)
		}
	})

	rej, err := s.Move(u.ID, grid.Coord{X: 2, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, session.MoveAccepted, rej)
	assert.Equal(t, grid.Coord{X: 2, Y: 0}, u.Position)
	assert.True(t, u.MovedThisTurn)
	require.Len(t, moves, 1)
	assert.Equal(t, grid.Coord{X: 0, Y: 0}, moves[0].From)
	assert.Equal(t, grid.Coord{X: 2, Y: 0}, moves[0].To)

	rej, err = s.Move(u.ID, grid.Coord{X: 3, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, session.MoveRejectedAlreadyMoved, rej)
	assert.Equal(t, grid.Coord{X: 2, Y: 0}, u.Position)
}

func TestSession_Move_Rejections(t *testing.T) {
	s := newTestSession(t, nil)
	u, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)

	rej, err := s.Move(u.ID, grid.Coord{X: 2, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, session.MoveRejectedUnreachable, rej, "mountain is impassable")

	rej, err = s.Move(u.ID, grid.Coord{X: 4, Y: 3})
	require.NoError(t, err)
	assert.Equal(t, session.MoveRejectedUnreachable, rej, "beyond movement budget")

	u.ApplyDamage(100)
	rej, err = s.Move(u.ID, grid.Coord{X: 1, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, session.MoveRejectedDead, rej)

	_, err = s.Move("ghost", grid.Coord{X: 1, Y: 0})
	require.Error(t, err, "unknown unit is a programming error")
}

func TestSession_Move_RefreshesTerrainBonus(t *testing.T) {
	s := newTestSession(t, nil)
	u, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 2, Y: 3})
	require.NoError(t, err)
	require.Zero(t, u.TerrainDefenseBonus)

	rej, err := s.Move(u.ID, grid.Coord{X: 2, Y: 2})
	require.NoError(t, err)
	require.Equal(t, session.MoveAccepted, rej)
	assert.Equal(t, 5, u.TerrainDefenseBonus, "fort bonus applies after the move")
}

func TestSession_Attack_EventsAndDeath(t *testing.T) {
	s := newTestSession(t, nil)
	attacker, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)
	defender, err := s.Spawn("archer", unit.TeamEnemy, grid.Coord{X: 1, Y: 0})
	require.NoError(t, err)

	var kinds []string
	s.Bus().Subscribe(func(e event.Event) { kinds = append(kinds, e.Kind()) })

	// soldier 10 vs archer defense 1 -> 9 damage, archer at 3.
	res, rej, err := s.Attack(attacker.ID, defender.ID)
	require.NoError(t, err)
	require.Equal(t, combat.NotRejected, rej)
	assert.Equal(t, 9, res.Damage)
	assert.False(t, res.DefenderDied)
	assert.Equal(t, []string{"combat.attack_performed", "unit.damage_taken", "unit.health_changed"}, kinds)

	// Next turn pair so the soldier can attack again.
	s.EndTurn()
	s.EndTurn()
	kinds = nil

	res, rej, err = s.Attack(attacker.ID, defender.ID)
	require.NoError(t, err)
	require.Equal(t, combat.NotRejected, rej)
	assert.True(t, res.DefenderDied)
	assert.Contains(t, kinds, "unit.died")
	assert.Contains(t, kinds, "battle.ended")
	assert.Equal(t, turn.Victory, s.Outcome())
}

func TestSession_Attack_RejectionIsNotAnError(t *testing.T) {
	s := newTestSession(t, nil)
	attacker, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)
	defender, err := s.Spawn("archer", unit.TeamEnemy, grid.Coord{X: 4, Y: 3})
	require.NoError(t, err)

	res, rej, err := s.Attack(attacker.ID, defender.ID)
	require.NoError(t, err)
	assert.Equal(t, combat.RejectedOutOfRange, rej)
	assert.Zero(t, res.Damage)
	assert.Equal(t, 12, defender.Health)

	res, rej, err = s.Attack(attacker.ID, "ghost")
	require.NoError(t, err)
	assert.Equal(t, combat.RejectedDeadTarget, rej)
	assert.Zero(t, res.Damage)
}

func TestSession_TurnFlow(t *testing.T) {
	s := newTestSession(t, nil)
	u, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)
	_, err = s.Spawn("archer", unit.TeamEnemy, grid.Coord{X: 4, Y: 3})
	require.NoError(t, err)

	s.Begin()
	assert.Equal(t, unit.TeamPlayer, s.ActiveTeam())
	assert.Equal(t, 1, s.TurnNumber())

	rej, err := s.Move(u.ID, grid.Coord{X: 1, Y: 0})
	require.NoError(t, err)
	require.Equal(t, session.MoveAccepted, rej)

	s.EndTurn()
	assert.Equal(t, unit.TeamEnemy, s.ActiveTeam())
	s.EndTurn()
	assert.Equal(t, unit.TeamPlayer, s.ActiveTeam())
	assert.Equal(t, 2, s.TurnNumber())
	assert.False(t, u.MovedThisTurn, "flags reset when the side regains control")
}

func TestSession_Heal(t *testing.T) {
	s := newTestSession(t, nil)
	u, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)
	u.ApplyDamage(10)

	var changed []event.HealthChanged
	s.Bus().Subscribe(func(e event.Event) {
		if hc, ok := e.(event.HealthChanged); ok {
			changed = append(changed, hc)
		}
	})

	require.NoError(t, s.Heal(u.ID, 6))
	assert.Equal(t, 16, u.Health)
	require.Len(t, changed, 1)
	assert.Equal(t, 16, changed[0].Health)

	require.Error(t, s.Heal("ghost", 5))
}

func TestSession_DeathHookDispatch(t *testing.T) {
	hooks := scripting.NewHooks(zap.NewNop(), 0)
	defer hooks.Close()
	require.NoError(t, hooks.LoadString(`
		deaths = 0
		last_name = ""
		function on_soldier_died(u)
			deaths = deaths + 1
			last_name = u.name
		end
		function death_report()
			return last_name .. ":" .. deaths
		end
	`))

	archetypes := testArchetypes()
	archetypes["soldier"].OnDeathHook = "on_soldier_died"

	b, err := board.LoadFromBytes([]byte(testMap))
	require.NoError(t, err)
	s, err := session.New(session.Config{
		Logger:     zap.NewNop(),
		Board:      b,
		Catalog:    testCatalog(t),
		Archetypes: archetypes,
		Hooks:      hooks,
	})
	require.NoError(t, err)

	attacker, err := s.Spawn("archer", unit.TeamEnemy, grid.Coord{X: 1, Y: 0})
	require.NoError(t, err)
	victim, err := s.Spawn("soldier", unit.TeamPlayer, grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)
	victim.Health = 1

	res, rej, err := s.Attack(attacker.ID, victim.ID)
	require.NoError(t, err)
	require.Equal(t, combat.NotRejected, rej)
	require.True(t, res.DefenderDied)

	ret, err := hooks.Call("death_report")
	require.NoError(t, err)
	assert.Equal(t, "Soldier:1", ret.String())
}
