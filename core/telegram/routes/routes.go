// Package routes binds Telegram endpoints to the dialog dispatch engine.
package routes

import (
	"context"
	"log/slog"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/logger"
	"github.com/m3rciful/maxbot/core/telegram"
	tghelpers "github.com/m3rciful/maxbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Dispatcher is the dialog side of the bridge.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev dialog.Event) ([]dialog.OutboundCommand, error)
}

// Deliverer sends the replies produced for one event.
type Deliverer interface {
	Deliver(ctx context.Context, origin tele.Editable, cmds []dialog.OutboundCommand) error
}

// LimitedNotice is the toast shown when a button press is rate limited.
const LimitedNotice = "⏳ Too many requests, slow down."

// Bridge converts updates into dialog events and ships the replies back.
type Bridge struct {
	base    context.Context
	router  Dispatcher
	deliver Deliverer
}

// New creates a bridge. base is used when no request context was stored by
// the logger middleware.
func New(base context.Context, router Dispatcher, deliver Deliverer) *Bridge {
	if base == nil {
		base = context.Background()
	}
	return &Bridge{base: base, router: router, deliver: deliver}
}

// Routes lists the catch-all endpoints; command and callback matching is
// done by the dialog router, not by telebot.
func (b *Bridge) Routes() []telegram.Route {
	return []telegram.Route{
		{Endpoint: tele.OnText, Handler: b.OnText},
		{Endpoint: tele.OnCallback, Handler: b.OnCallback},
	}
}

// OnText handles plain messages and slash commands.
func (b *Bridge) OnText(c tele.Context) error {
	return b.handle(c, nil)
}

// OnCallback handles inline button presses. The press is acknowledged before
// dispatch so the client stops its spinner even if the handler is slow.
func (b *Bridge) OnCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(b.base, c)
	if err := c.Respond(); err != nil {
		logger.Debug(ctx, "tg", "callback.respond_failed", slog.String("err", err.Error()))
	}
	var origin tele.Editable
	if cb := c.Callback(); cb != nil && cb.Message != nil {
		origin = cb.Message
	}
	return b.handle(c, origin)
}

// Limited answers a rate-limited update. Only button presses get feedback;
// dropped messages stay silent.
func Limited(c tele.Context) error {
	if c.Callback() == nil {
		return nil
	}
	return c.Respond(&tele.CallbackResponse{Text: LimitedNotice})
}

func (b *Bridge) handle(c tele.Context, origin tele.Editable) error {
	ctx := tghelpers.BuildContext(b.base, c)
	ev, ok := telegram.Normalize(c)
	if !ok {
		logger.Debug(ctx, "tg", "update.ignored", slog.String("status", "skip"))
		return nil
	}

	cmds, err := b.router.Dispatch(ctx, ev)
	if err != nil {
		// Already reported by the router's error hook; partial replies still go out.
		logger.Debug(ctx, "tg", "dispatch.partial", slog.Int("messages", len(cmds)))
	}
	return b.deliver.Deliver(ctx, origin, cmds)
}
