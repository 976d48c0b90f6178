package helpers

import (
	"context"
	"strconv"

	"github.com/m3rciful/maxbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

const contextKey = "logger_ctx"

// StoreContext attaches reusable context to tele.Context for downstream helpers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(contextKey, ctx)
}

// ContextFrom telegram context if previously stored by middleware.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	if v := c.Get(contextKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx, true
		}
	}
	return nil, false
}

// IDs returns the sender and chat ids of the update as strings. Either may be empty.
func IDs(c tele.Context) (userID, chatID string) {
	if u := c.Sender(); u != nil {
		userID = strconv.FormatInt(u.ID, 10)
	}
	if ch := c.Chat(); ch != nil {
		chatID = strconv.FormatInt(ch.ID, 10)
	}
	return userID, chatID
}

// BuildContext derives a context.Context from parent and tele.Context,
// enriched with RID and update/user/chat metadata for consistent logging.
func BuildContext(parent context.Context, c tele.Context) context.Context {
	if cached, ok := ContextFrom(c); ok {
		return cached
	}
	if parent == nil {
		parent = context.Background()
	}

	upd := c.Update()
	userID, chatID := IDs(c)

	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(upd.ID, chatID, userID)
	}

	ctx := logger.WithRID(parent, rid)
	ctx = logger.WithEventMeta(ctx, upd.ID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}
