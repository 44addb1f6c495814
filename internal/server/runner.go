package server

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kestrel-games/skirmish/internal/game/ai"
	"github.com/kestrel-games/skirmish/internal/game/session"
	"github.com/kestrel-games/skirmish/internal/game/turn"
	"github.com/kestrel-games/skirmish/internal/game/unit"
)

// MatchRunner drives one battle to completion. The core never schedules
// anything itself: the runner owns the enemy "thinking" delay and decides
// when each side's provider acts.
type MatchRunner struct {
	logger     *zap.Logger
	sess       *session.Session
	player     ai.Provider
	enemy      ai.Provider
	thinkDelay time.Duration
	maxTurns   int

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMatchRunner constructs a runner.
//
// Precondition: logger, sess, player, and enemy must be non-nil;
// maxTurns >= 1.
func NewMatchRunner(logger *zap.Logger, sess *session.Session, player, enemy ai.Provider, thinkDelay time.Duration, maxTurns int) *MatchRunner {
	if logger == nil || sess == nil || player == nil || enemy == nil {
		panic("server.NewMatchRunner: all collaborators must be non-nil")
	}
	if maxTurns < 1 {
		panic("server.NewMatchRunner: maxTurns must be >= 1")
	}
	return &MatchRunner{
		logger:     logger,
		sess:       sess,
		player:     player,
		enemy:      enemy,
		thinkDelay: thinkDelay,
		maxTurns:   maxTurns,
		stop:       make(chan struct{}),
	}
}

// Start runs the match until one side loses, the turn limit is hit, or
// Stop is called. Implements Service.
//
// Postcondition: Returns nil on a decided battle or a stop; a provider
// failure is returned as an error.
func (r *MatchRunner) Start() error {
	r.sess.Begin()

	for {
		select {
		case <-r.stop:
			r.logger.Info("match stopped", zap.Int("turn", r.sess.TurnNumber()))
			return nil
		default:
		}

		if outcome := r.sess.Outcome(); outcome != turn.Undecided {
			r.logger.Info("match decided",
				zap.Stringer("outcome", outcome),
				zap.Int("turns", r.sess.TurnNumber()),
			)
			return nil
		}
		if r.sess.TurnNumber() > r.maxTurns {
			r.logger.Warn("turn limit reached, stopping match", zap.Int("max_turns", r.maxTurns))
			return nil
		}

		team := r.sess.ActiveTeam()
		provider := r.player
		if team == unit.TeamEnemy {
			provider = r.enemy
			if !r.pause(r.thinkDelay) {
				return nil
			}
		}

		if err := provider.TakeTurn(r.sess, team); err != nil {
			return fmt.Errorf("provider for %s: %w", team, err)
		}
	}
}

// Stop interrupts the match loop. Safe to call more than once.
func (r *MatchRunner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// pause sleeps for d unless stopped first; reports whether to continue.
func (r *MatchRunner) pause(d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.stop:
		return false
	}
}
