package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/logger"
	"github.com/m3rciful/maxbot/core/telegram/keyboard"
	"github.com/m3rciful/maxbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// API is the subset of *tele.Bot used for delivery.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Deliverer sends the reply batch of one event in order. When the event came
// from a button press, the first reply replaces the message carrying the button.
type Deliverer struct {
	api  API
	disp *sender.Dispatcher
}

// NewDeliverer wires a deliverer. A nil dispatcher sends synchronously.
func NewDeliverer(api API, disp *sender.Dispatcher) *Deliverer {
	return &Deliverer{api: api, disp: disp}
}

// Deliver schedules cmds for sending. origin may be nil.
func (d *Deliverer) Deliver(ctx context.Context, origin tele.Editable, cmds []dialog.OutboundCommand) error {
	if len(cmds) == 0 {
		return nil
	}
	b := &batch{api: d.api, origin: origin, cmds: cmds}
	if d.disp == nil {
		return b.run(ctx)
	}

	job := sender.Job{Action: "deliver", Endpoint: "sendMessage", Run: b.run}
	if err := d.disp.Enqueue(ctx, job); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.Int("messages", len(cmds)),
				slog.String("err", err.Error()),
			)
			return b.run(ctx)
		}
		return err
	}
	return nil
}

// batch tracks how many commands went out so a retry resumes after the last
// successful one instead of repeating it.
type batch struct {
	api    API
	origin tele.Editable
	cmds   []dialog.OutboundCommand
	sent   int
}

func (b *batch) run(ctx context.Context) error {
	for b.sent < len(b.cmds) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.send(b.cmds[b.sent], b.sent == 0); err != nil {
			return err
		}
		b.sent++
	}
	return nil
}

func (b *batch) send(cmd dialog.OutboundCommand, first bool) error {
	opts := &tele.SendOptions{ReplyMarkup: keyboard.Inline(cmd.Keyboard)}
	if first && b.origin != nil {
		_, err := b.api.Edit(b.origin, cmd.Text, opts)
		if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
			return nil
		}
		logger.Debug(context.Background(), "tg.sender", "edit.fallback", slog.String("err", err.Error()))
	}
	chatID, err := strconv.ParseInt(cmd.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat id %q: %w", cmd.ChatID, err)
	}
	_, err = b.api.Send(tele.ChatID(chatID), cmd.Text, opts)
	return err
}
