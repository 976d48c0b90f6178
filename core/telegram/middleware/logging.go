package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/maypok86/otter"

	"github.com/m3rciful/maxbot/core/logger"
	"github.com/m3rciful/maxbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/maxbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const (
	receiptCapacity = 10_000
	receiptTTL      = 10 * time.Second
)

// LoggerMiddleware stores the request context (rid and update metadata) on
// the telebot context and logs one sampled receipt line per update. Receipts
// are deduplicated by update id when the chain runs more than once.
func LoggerMiddleware(base context.Context) (tele.MiddlewareFunc, error) {
	seen, err := otter.MustBuilder[int, struct{}](receiptCapacity).
		WithTTL(receiptTTL).
		Build()
	if err != nil {
		return nil, err
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			upd := c.Update()
			userID, chatID := tghelpers.IDs(c)
			rid := logger.BuildRID(upd.ID, chatID, userID)
			c.Set("rid", rid)

			ctx := logger.WithRID(base, rid)
			ctx = logger.WithEventMeta(ctx, upd.ID, userID, chatID)
			ctx = logger.WithLogger(ctx, logger.Component("tg"))
			tghelpers.StoreContext(c, ctx)

			if logger.ShouldSampleDebug() && seen.SetIfAbsent(upd.ID, struct{}{}) {
				logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", receiptAttrs(c)...)
			}
			return next(c)
		}
	}, nil
}

func receiptAttrs(c tele.Context) []slog.Attr {
	upd := c.Update()
	attrs := []slog.Attr{
		slog.String("status", "ok"),
		slog.String("kind", UpdateKind(upd)),
	}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if user := c.Sender(); user != nil {
		if user.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
		}
		if user.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", user.LanguageCode))
		}
	}
	switch {
	case upd.Callback != nil:
		key, payload := callbacks.ParseData(upd.Callback.Data)
		if upd.Callback.Unique != "" {
			key, payload = upd.Callback.Unique, upd.Callback.Data
		}
		if key != "" {
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
		}
		if payload != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
		}
	case upd.Message != nil:
		if t := c.Text(); t != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
		}
	}
	return attrs
}
