// Package main provides the skirmish binary: it loads battle content,
// assembles a session, and runs a headless match with both sides driven
// by decision providers.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/kestrel-games/skirmish/internal/config"
	"github.com/kestrel-games/skirmish/internal/game/ai"
	"github.com/kestrel-games/skirmish/internal/game/board"
	"github.com/kestrel-games/skirmish/internal/game/event"
	"github.com/kestrel-games/skirmish/internal/game/grid"
	"github.com/kestrel-games/skirmish/internal/game/session"
	"github.com/kestrel-games/skirmish/internal/game/terrain"
	"github.com/kestrel-games/skirmish/internal/game/unit"
	"github.com/kestrel-games/skirmish/internal/observability"
	"github.com/kestrel-games/skirmish/internal/scripting"
	"github.com/kestrel-games/skirmish/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	loadStart := time.Now()

	catalog, err := terrain.LoadCatalogFromFile(cfg.Content.TerrainFile)
	if err != nil {
		logger.Fatal("loading terrain catalog", zap.Error(err))
	}

	battleMap, err := board.LoadFromFile(cfg.Content.MapFile)
	if err != nil {
		logger.Fatal("loading map", zap.Error(err))
	}
	if err := battleMap.ValidateTerrain(catalog); err != nil {
		logger.Fatal("validating map terrain", zap.Error(err))
	}

	archetypes, err := unit.LoadArchetypesFromDir(cfg.Content.ArchetypesDir)
	if err != nil {
		logger.Fatal("loading archetypes", zap.Error(err))
	}

	var hooks *scripting.Hooks
	if cfg.Content.ScriptsDir != "" {
		hooks = scripting.NewHooks(logger, cfg.Game.ScriptInstructionLimit)
		defer hooks.Close()
		if err := hooks.LoadDir(cfg.Content.ScriptsDir); err != nil {
			logger.Fatal("loading scripts", zap.Error(err))
		}
	}

	logger.Info("content loaded",
		zap.String("map", battleMap.Name),
		zap.Int("terrains", catalog.Len()),
		zap.Int("archetypes", len(archetypes)),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	sess, err := session.New(session.Config{
		Logger:     logger,
		Board:      battleMap,
		Catalog:    catalog,
		Archetypes: archetypes,
		Hooks:      hooks,
	})
	if err != nil {
		logger.Fatal("assembling session", zap.Error(err))
	}

	if err := deployUnits(sess, battleMap); err != nil {
		logger.Fatal("deploying units", zap.Error(err))
	}

	// Every notification the core emits is observable; the headless
	// binary just logs them.
	sess.Bus().Subscribe(func(e event.Event) {
		logger.Info("event", zap.String("kind", e.Kind()), zap.Any("payload", e))
	})

	runner := server.NewMatchRunner(
		logger,
		sess,
		ai.NewAggressive(logger.Named("player")),
		ai.NewAggressive(logger.Named("enemy")),
		cfg.Game.EnemyThinkDelay,
		cfg.Game.MaxTurns,
	)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("match", runner)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("match runner failed", zap.Error(err))
	}

	logger.Info("match finished", zap.Stringer("outcome", sess.Outcome()))
}

// deployUnits places one squad per side on opposite map edges, cycling
// through the loaded archetypes in sorted order.
func deployUnits(sess *session.Session, battleMap *board.Board) error {
	type slot struct {
		team unit.Team
		pos  grid.Coord
	}
	last := battleMap.Width() - 1
	slots := []slot{
		{unit.TeamPlayer, grid.Coord{X: 0, Y: 0}},
		{unit.TeamPlayer, grid.Coord{X: 0, Y: battleMap.Height() - 1}},
		{unit.TeamEnemy, grid.Coord{X: last, Y: 0}},
		{unit.TeamEnemy, grid.Coord{X: last, Y: battleMap.Height() - 1}},
	}

	ids := sess.ArchetypeIDs()
	if len(ids) == 0 {
		return errors.New("no archetypes loaded")
	}
	for i, sl := range slots {
		if _, err := sess.Spawn(ids[i%len(ids)], sl.team, sl.pos); err != nil {
			return err
		}
	}
	return nil
}
