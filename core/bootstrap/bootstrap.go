package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/maxbot/core/config"
	"github.com/m3rciful/maxbot/core/game"
	"github.com/m3rciful/maxbot/core/logger"
	"github.com/m3rciful/maxbot/core/state"
	"github.com/m3rciful/maxbot/core/stats"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	// Now is the clock shared by the stores, the game engine and stats.
	Now state.Clock
	// EngineOptions are passed to game.NewEngine.
	EngineOptions []game.Option
}

// Result exposes the in-memory infrastructure built by the pipeline.
type Result struct {
	Config   *coreconfig.Config
	Now      state.Clock
	Sessions *state.Sessions
	Profiles *state.Profiles
	Locks    *state.Locks
	Engine   *game.Engine
	Stats    *stats.Aggregator
}

// Run initializes the logger and builds the session and profile stores, the
// per-user locks, the game engine and the stats aggregator. Nothing here
// outlives the process.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sessions := state.NewSessions(now)
	profiles := state.NewProfiles(now)
	engineOpts := append([]game.Option{game.WithClock(now)}, opts.EngineOptions...)

	res := &Result{
		Config:   opts.Config,
		Now:      now,
		Sessions: sessions,
		Profiles: profiles,
		Locks:    state.NewLocks(),
		Engine:   game.NewEngine(engineOpts...),
		Stats:    stats.NewAggregator(sessions, profiles, now),
	}
	logger.Info(context.Background(), "app", "bootstrap",
		slog.String("status", "ok"),
		slog.String("bot_id", opts.Config.Dialog.BotID),
		slog.Int("admins", len(opts.Config.Telegram.AdminIDs)),
	)
	return res, nil
}
