package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/maxbot/core/config"
	"github.com/m3rciful/maxbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the shared chain: panic recovery, request
// context and receipt logging, then per-user rate limiting.
func DefaultMiddlewares(ctx context.Context, cfg *coreconfig.Config, onLimited tele.HandlerFunc) ([]Middleware, error) {
	logMW, err := middleware.LoggerMiddleware(ctx)
	if err != nil {
		return nil, fmt.Errorf("telegram: logger middleware: %w", err)
	}
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: logMW},
	}

	if cfg != nil {
		interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
		if interval > 0 {
			ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, t := range cfg.RateLimit.ExcludeUpdates {
				ex[strings.ToLower(t)] = struct{}{}
			}
			rl, err := middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval:  interval,
				Exclude:   ex,
				OnLimited: onLimited,
			})
			if err != nil {
				return nil, fmt.Errorf("telegram: rate limit middleware: %w", err)
			}
			mws = append(mws, Middleware{Name: "rate_limit", Use: rl})
		}
	}
	return mws, nil
}
