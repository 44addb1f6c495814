// Package session owns one battle: the terrain catalog and query, the
// board, the movement solver, the unit registry, the turn cycle, and the
// event bus. Everything is dependency-injected and session-scoped; there
// is no process-wide state.
package session

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/kestrel-games/skirmish/internal/game/board"
	"github.com/kestrel-games/skirmish/internal/game/combat"
	"github.com/kestrel-games/skirmish/internal/game/event"
	"github.com/kestrel-games/skirmish/internal/game/grid"
	"github.com/kestrel-games/skirmish/internal/game/movement"
	"github.com/kestrel-games/skirmish/internal/game/terrain"
	"github.com/kestrel-games/skirmish/internal/game/turn"
	"github.com/kestrel-games/skirmish/internal/game/unit"
	"github.com/kestrel-games/skirmish/internal/scripting"
)

// MoveRejection identifies which precondition stopped a move. Like attack
// rejections these are expected outcomes, signaled by value, never errors.
type MoveRejection int

const (
	// MoveAccepted means the unit moved.
	MoveAccepted MoveRejection = iota
	// MoveRejectedDead means dead units cannot move.
	MoveRejectedDead
	// MoveRejectedAlreadyMoved means the unit already moved this turn.
	MoveRejectedAlreadyMoved
	// MoveRejectedUnreachable means the target is not in the unit's
	// reachable set (impassable, out of budget, or off the board).
	MoveRejectedUnreachable
)

// String returns a human-readable move rejection label.
func (r MoveRejection) String() string {
	switch r {
	case MoveAccepted:
		return "accepted"
	case MoveRejectedDead:
		return "dead units cannot move"
	case MoveRejectedAlreadyMoved:
		return "already moved this turn"
	case MoveRejectedUnreachable:
		return "target not reachable"
	default:
		return "unknown"
	}
}

// Session is the single-threaded simulation core for one battle. All
// operations run to completion synchronously; mutations are single-writer.
type Session struct {
	logger     *zap.Logger
	bus        *event.Bus
	board      *board.Board
	query      *terrain.Query
	solver     *movement.RangeSolver
	cycle      *turn.Cycle
	hooks      *scripting.Hooks
	archetypes map[string]*unit.Archetype
	units      map[string]*unit.Unit
}

// Config collects the collaborators a Session needs.
type Config struct {
	Logger     *zap.Logger
	Board      *board.Board
	Catalog    *terrain.Catalog
	Archetypes map[string]*unit.Archetype
	// Hooks hosts archetype death hooks and map scripts. Nil disables
	// scripting entirely.
	Hooks *scripting.Hooks
}

// New assembles a Session.
//
// Precondition: cfg.Logger, cfg.Board, and cfg.Catalog must be non-nil.
// Postcondition: Returns a Session on turn 1, player side active, with an
// empty unit registry.
func New(cfg Config) (*Session, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("session: logger is required")
	}
	if cfg.Board == nil {
		return nil, fmt.Errorf("session: board is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("session: terrain catalog is required")
	}

	bus := event.NewBus()
	query := terrain.NewQuery(cfg.Catalog, cfg.Board, cfg.Logger)

	s := &Session{
		logger:     cfg.Logger,
		bus:        bus,
		board:      cfg.Board,
		query:      query,
		solver:     movement.NewRangeSolver(query),
		cycle:      turn.NewCycle(bus),
		hooks:      cfg.Hooks,
		archetypes: cfg.Archetypes,
		units:      make(map[string]*unit.Unit),
	}

	if s.hooks != nil {
		s.hooks.GetUnit = s.unitInfo
		s.hooks.HealUnit = s.Heal
		s.hooks.Log = func(msg string) {
			s.logger.Info("script", zap.String("message", msg))
		}
	}

	return s, nil
}

// Bus returns the event bus. Collaborators (UI, loggers, AI drivers)
// subscribe here; the core never requires a subscriber.
func (s *Session) Bus() *event.Bus { return s.bus }

// Board returns the battle's tile map.
func (s *Session) Board() *board.Board { return s.board }

// Terrain returns the terrain query layer.
func (s *Session) Terrain() *terrain.Query { return s.query }

// ActiveTeam returns the side currently in control.
func (s *Session) ActiveTeam() unit.Team { return s.cycle.ActiveTeam() }

// TurnNumber returns the current turn number.
func (s *Session) TurnNumber() int { return s.cycle.TurnNumber() }

// Outcome reports the battle result from the current rosters.
func (s *Session) Outcome() turn.Outcome { return s.cycle.Evaluate() }

// Unit returns the registered unit with the given id.
func (s *Session) Unit(id string) (*unit.Unit, bool) {
	u, ok := s.units[id]
	return u, ok
}

// Units returns every registered unit on team, dead or alive.
func (s *Session) Units(team unit.Team) []*unit.Unit {
	var out []*unit.Unit
	for _, u := range s.units {
		if u.Team == team {
			out = append(out, u)
		}
	}
	return out
}

// ArchetypeIDs returns the registered archetype ids in sorted order.
func (s *Session) ArchetypeIDs() []string {
	ids := make([]string, 0, len(s.archetypes))
	for id := range s.archetypes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Spawn instantiates a unit of the named archetype at pos and registers it
// with the turn cycle. The unit's terrain defense bonus is primed from its
// starting tile.
//
// Precondition: archetypeID must be registered; pos must be a passable tile.
// Postcondition: Returns the live unit, or an error for unknown archetypes
// and impassable tiles (content errors, not rejections).
func (s *Session) Spawn(archetypeID string, team unit.Team, pos grid.Coord) (*unit.Unit, error) {
	a, ok := s.archetypes[archetypeID]
	if !ok {
		return nil, fmt.Errorf("session: unknown archetype %q", archetypeID)
	}
	if !s.query.IsPassable(pos) {
		return nil, fmt.Errorf("session: cannot spawn %q on impassable tile %s", archetypeID, pos)
	}

	u := a.New(team, pos)
	u.TerrainDefenseBonus = s.query.DefenseBonus(pos)
	s.units[u.ID] = u
	s.cycle.Register(u)

	s.logger.Debug("unit spawned",
		zap.String("unit_id", u.ID),
		zap.String("archetype", archetypeID),
		zap.Stringer("team", team),
		zap.Stringer("pos", pos),
	)
	return u, nil
}

// Begin starts the first turn. Call once after all units are spawned.
func (s *Session) Begin() {
	s.cycle.StartTurn()
}

// EndTurn relinquishes the active side's control. The driver decides when;
// the core accepts it at any later time.
func (s *Session) EndTurn() {
	s.cycle.EndTurn()
}

// Reachable returns the coordinates the unit can move to this turn, mapped
// to their minimum path cost. The unit's own tile is excluded.
func (s *Session) Reachable(unitID string) (map[grid.Coord]int, error) {
	u, ok := s.units[unitID]
	if !ok {
		return nil, fmt.Errorf("session: unknown unit %q", unitID)
	}
	return s.solver.Reachable(u.Position, u.MovementRange), nil
}

// Move relocates a unit to target. Rejected (no state change) when the
// unit is dead, has already moved this turn, or target is outside its
// reachable set. On success the unit's terrain defense bonus is refreshed
// and a UnitMoved event fires.
func (s *Session) Move(unitID string, target grid.Coord) (MoveRejection, error) {
	u, ok := s.units[unitID]
	if !ok {
		return 0, fmt.Errorf("session: unknown unit %q", unitID)
	}
	if !u.Alive {
		return MoveRejectedDead, nil
	}
	if u.MovedThisTurn {
		return MoveRejectedAlreadyMoved, nil
	}
	reachable := s.solver.Reachable(u.Position, u.MovementRange)
	if _, ok := reachable[target]; !ok {
		return MoveRejectedUnreachable, nil
	}

	from := u.Position
	u.Position = target
	u.MovedThisTurn = true
	u.TerrainDefenseBonus = s.query.DefenseBonus(target)

	s.bus.Publish(event.UnitMoved{UnitID: u.ID, From: from, To: target})
	return MoveAccepted, nil
}

// Attack resolves an attack between two registered units. A rejected
// attack returns zero damage and the reason; a successful one publishes
// the combat events, dispatches the defender's death hook if it died, and
// reports the resulting battle outcome.
func (s *Session) Attack(attackerID, defenderID string) (combat.Result, combat.Rejection, error) {
	attacker, ok := s.units[attackerID]
	if !ok {
		return combat.Result{}, 0, fmt.Errorf("session: unknown attacker %q", attackerID)
	}
	// A missing defender is a rejection, not an error: targeting a unit
	// that was removed is an expected race for the driver.
	defender := s.units[defenderID]

	res, rej := combat.Resolve(attacker, defender, s.query)
	if rej != combat.NotRejected {
		s.logger.Debug("attack rejected",
			zap.String("attacker_id", attackerID),
			zap.String("defender_id", defenderID),
			zap.Stringer("reason", rej),
		)
		return res, rej, nil
	}

	s.bus.Publish(event.AttackPerformed{AttackerID: attacker.ID, TargetID: defender.ID, Damage: res.Damage})
	s.bus.Publish(event.DamageTaken{UnitID: defender.ID, Amount: res.Damage, SourceID: attacker.ID})
	s.bus.Publish(event.HealthChanged{UnitID: defender.ID, Health: defender.Health, MaxHealth: defender.MaxHealth})

	if res.DefenderDied {
		s.bus.Publish(event.UnitDied{UnitID: defender.ID})
		s.dispatchDeathHook(defender)
		s.cycle.OnUnitDied(defender)
	}

	return res, rej, nil
}

// Heal restores health on a living unit and publishes HealthChanged.
// Healing a dead unit is a silent no-op, matching the unit transition.
func (s *Session) Heal(unitID string, amount int) error {
	u, ok := s.units[unitID]
	if !ok {
		return fmt.Errorf("session: unknown unit %q", unitID)
	}
	if !u.Alive {
		return nil
	}
	u.Heal(amount)
	s.bus.Publish(event.HealthChanged{UnitID: u.ID, Health: u.Health, MaxHealth: u.MaxHealth})
	return nil
}

// dispatchDeathHook calls the unit's archetype on_death hook, if any.
func (s *Session) dispatchDeathHook(u *unit.Unit) {
	if s.hooks == nil {
		return
	}
	a, ok := s.archetypes[u.Archetype]
	if !ok || a.OnDeathHook == "" {
		return
	}
	args := []lua.LValue{s.hooks.UnitTable(s.unitInfo(u.ID))}
	if _, err := s.hooks.Call(a.OnDeathHook, args...); err != nil {
		s.logger.Warn("death hook failed",
			zap.String("unit_id", u.ID),
			zap.String("hook", a.OnDeathHook),
			zap.Error(err),
		)
	}
}

// unitInfo snapshots a unit for the scripting layer.
func (s *Session) unitInfo(id string) *scripting.UnitInfo {
	u, ok := s.units[id]
	if !ok {
		return nil
	}
	return &scripting.UnitInfo{
		ID:        u.ID,
		Name:      u.Name,
		Archetype: u.Archetype,
		Team:      u.Team.String(),
		Health:    u.Health,
		MaxHealth: u.MaxHealth,
		X:         u.Position.X,
		Y:         u.Position.Y,
	}
}
