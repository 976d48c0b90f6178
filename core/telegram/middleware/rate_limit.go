package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/maypok86/otter"

	"github.com/m3rciful/maxbot/core/logger"
	tghelpers "github.com/m3rciful/maxbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const rateLimitCapacity = 100_000

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// UpdateKind classifies an update for rate-limit exclusions.
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// RateLimitMiddleware returns a middleware that enforces a minimum interval
// between updates from the same user. Each accepted update opens a window of
// Interval during which further updates from that user are dropped.
func RateLimitMiddleware(opts RateLimitOptions) (tele.MiddlewareFunc, error) {
	if opts.Interval <= 0 {
		return func(next tele.HandlerFunc) tele.HandlerFunc { return next }, nil
	}
	windows, err := otter.MustBuilder[int64, struct{}](rateLimitCapacity).
		WithTTL(opts.Interval).
		Build()
	if err != nil {
		return nil, err
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}
			if _, skip := opts.Exclude[UpdateKind(c.Update())]; skip {
				return next(c)
			}

			if windows.SetIfAbsent(user.ID, struct{}{}) {
				return next(c)
			}

			ctx, ok := tghelpers.ContextFrom(c)
			if !ok {
				ctx = context.Background()
			}
			logger.Warn(ctx, "tg", "tg.rate_limit",
				slog.String("status", "rate_limited"),
				slog.String("kind", UpdateKind(c.Update())),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}, nil
}
