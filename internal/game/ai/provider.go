// Package ai provides enemy-side decision providers. The core never makes
// enemy decisions itself: when the enemy turn starts, control returns to
// the driver, which asks a Provider to act and end the turn. Timing
// ("thinking" delays) is the driver's concern, never the provider's.
package ai

import (
	"sort"

	"go.uber.org/zap"

	"github.com/kestrel-games/skirmish/internal/game/combat"
	"github.com/kestrel-games/skirmish/internal/game/grid"
	"github.com/kestrel-games/skirmish/internal/game/session"
	"github.com/kestrel-games/skirmish/internal/game/unit"
)

// Provider takes all actions for one side's turn and ends it.
type Provider interface {
	// TakeTurn acts for team in s and must eventually call s.EndTurn().
	TakeTurn(s *session.Session, team unit.Team) error
}

// Idle is a Provider that passes: it takes no actions and ends the turn.
type Idle struct{}

// TakeTurn ends the turn immediately.
func (Idle) TakeTurn(s *session.Session, _ unit.Team) error {
	s.EndTurn()
	return nil
}

// Aggressive moves each living unit toward the nearest living opposing
// unit and attacks when in range. Units act in a deterministic order.
type Aggressive struct {
	logger *zap.Logger
}

// NewAggressive constructs an Aggressive provider.
//
// Precondition: logger must be non-nil.
func NewAggressive(logger *zap.Logger) *Aggressive {
	if logger == nil {
		panic("ai.NewAggressive: logger must not be nil")
	}
	return &Aggressive{logger: logger}
}

// TakeTurn acts for every living unit on team, then ends the turn.
// Rejections from the core are accepted silently; they only mean the unit
// had nothing useful left to do.
func (a *Aggressive) TakeTurn(s *session.Session, team unit.Team) error {
	for _, actor := range livingSorted(s, team) {
		target := nearestLiving(s, team.Opponent(), actor.Position)
		if target == nil {
			break
		}

		if actor.Position.Manhattan(target.Position) > actor.AttackRange {
			a.advance(s, actor, target)
		}

		res, rej, err := s.Attack(actor.ID, target.ID)
		if err != nil {
			return err
		}
		if rej == combat.NotRejected {
			a.logger.Debug("ai attack",
				zap.String("actor_id", actor.ID),
				zap.String("target_id", target.ID),
				zap.Int("damage", res.Damage),
				zap.Bool("killed", res.DefenderDied),
			)
		}
	}

	s.EndTurn()
	return nil
}

// advance moves actor to the reachable tile closest to target, preferring
// lower path cost on ties. Staying put is preferred over a sidestep that
// gains nothing.
func (a *Aggressive) advance(s *session.Session, actor *unit.Unit, target *unit.Unit) {
	reachable, err := s.Reachable(actor.ID)
	if err != nil || len(reachable) == 0 {
		return
	}

	best := actor.Position
	bestDist := actor.Position.Manhattan(target.Position)
	bestCost := 0
	for _, entry := range sortedEntries(reachable) {
		dist := entry.coord.Manhattan(target.Position)
		closer := dist < bestDist
		cheaperTie := dist == bestDist && best != actor.Position && entry.cost < bestCost
		if closer || cheaperTie {
			best = entry.coord
			bestDist = dist
			bestCost = entry.cost
		}
	}

	if best == actor.Position {
		return
	}
	if rej, err := s.Move(actor.ID, best); err != nil || rej != session.MoveAccepted {
		return
	}
}

type reachEntry struct {
	coord grid.Coord
	cost  int
}

// sortedEntries flattens a reachable map into a deterministic order.
func sortedEntries(reachable map[grid.Coord]int) []reachEntry {
	entries := make([]reachEntry, 0, len(reachable))
	for c, cost := range reachable {
		entries = append(entries, reachEntry{coord: c, cost: cost})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].coord.Y != entries[j].coord.Y {
			return entries[i].coord.Y < entries[j].coord.Y
		}
		return entries[i].coord.X < entries[j].coord.X
	})
	return entries
}

// livingSorted returns team's living units ordered by id for determinism.
func livingSorted(s *session.Session, team unit.Team) []*unit.Unit {
	units := s.Units(team)
	var living []*unit.Unit
	for _, u := range units {
		if u.Alive {
			living = append(living, u)
		}
	}
	sort.Slice(living, func(i, j int) bool { return living[i].ID < living[j].ID })
	return living
}

// nearestLiving returns the living unit on team closest to from, or nil.
// Ties break toward the lower unit id.
func nearestLiving(s *session.Session, team unit.Team, from grid.Coord) *unit.Unit {
	var best *unit.Unit
	bestDist := 0
	for _, u := range livingSorted(s, team) {
		d := from.Manhattan(u.Position)
		if best == nil || d < bestDist {
			best = u
			bestDist = d
		}
	}
	return best
}
