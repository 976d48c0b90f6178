package dialog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m3rciful/maxbot/core/state"
)

// Request is what a handler sees for one event. Session is the sender's
// record; it may be read freely while the handler runs but must only be
// changed through Result.Patch.
type Request struct {
	Event   Event
	Session *state.Session
}

// Reply builds an OutboundCommand addressed to the event's chat.
func (r *Request) Reply(text string, kb *Keyboard) OutboundCommand {
	return OutboundCommand{ChatID: r.Event.ChatID, Text: text, Keyboard: kb}
}

// Result is a handler's output.
type Result struct {
	Commands []OutboundCommand
	// Patch is applied to the sender's session exactly once by the router.
	Patch state.Patch
	// Attrs are appended to the per-event summary log line.
	Attrs []slog.Attr
}

// Reply is shorthand for a Result with a single command.
func Reply(cmd OutboundCommand) Result {
	return Result{Commands: []OutboundCommand{cmd}}
}

// HandlerFunc processes one matched event.
type HandlerFunc func(ctx context.Context, req *Request) (Result, error)

type handlerKind int

const (
	kindCommand handlerKind = iota + 1
	kindCallback
	kindConditional
	kindCatchAll
)

func (k handlerKind) String() string {
	switch k {
	case kindCommand:
		return "command"
	case kindCallback:
		return "callback"
	case kindConditional:
		return "conditional"
	case kindCatchAll:
		return "catch_all"
	}
	return "unknown"
}

// Handler is a registrable route. Build one with Command, Callback,
// CallbackData, ConditionalMessage or CatchAll.
type Handler struct {
	kind        handlerKind
	name        string
	command     string
	description string
	hidden      bool
	adminOnly   bool
	onCallback  func(data string) bool
	onState     func(state.State) bool
	fn          HandlerFunc
}

// Name returns the identifier used in logs.
func (h Handler) Name() string { return h.name }

// AdminOnly reports whether the handler requires an admin sender.
func (h Handler) AdminOnly() bool { return h.adminOnly }

// Option adjusts a Handler at construction.
type Option func(*Handler)

// AdminOnly restricts the handler to senders on the admin allow-list.
func AdminOnly() Option {
	return func(h *Handler) { h.adminOnly = true }
}

// Describe sets the command menu description.
func Describe(text string) Option {
	return func(h *Handler) { h.description = strings.TrimSpace(text) }
}

// Hidden keeps a command out of the published menu.
func Hidden() Option {
	return func(h *Handler) { h.hidden = true }
}

// Named overrides the log name of a handler.
func Named(name string) Option {
	return func(h *Handler) {
		if name = strings.TrimSpace(name); name != "" {
			h.name = name
		}
	}
}

func build(h Handler, opts []Option) Handler {
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

// NormalizeCommand lowercases a command name and strips the slash prefix.
func NormalizeCommand(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
}

// Command matches a command event by exact name.
func Command(name string, fn HandlerFunc, opts ...Option) Handler {
	cmd := NormalizeCommand(name)
	return build(Handler{kind: kindCommand, name: "cmd." + cmd, command: cmd, fn: fn}, opts)
}

// Callback matches callback events whose payload satisfies pred.
func Callback(name string, pred func(data string) bool, fn HandlerFunc, opts ...Option) Handler {
	return build(Handler{kind: kindCallback, name: "callback." + name, onCallback: pred, fn: fn}, opts)
}

// CallbackData matches callback events whose payload equals data.
func CallbackData(data string, fn HandlerFunc, opts ...Option) Handler {
	return Callback(data, func(got string) bool { return got == data }, fn, opts...)
}

// ConditionalMessage matches text events while the sender's session state
// satisfies pred. The message content plays no part in matching.
func ConditionalMessage(name string, pred func(state.State) bool, fn HandlerFunc, opts ...Option) Handler {
	return build(Handler{kind: kindConditional, name: "text." + name, onState: pred, fn: fn}, opts)
}

// CatchAll matches any text event no other handler claimed.
func CatchAll(fn HandlerFunc, opts ...Option) Handler {
	return build(Handler{kind: kindCatchAll, name: "text.fallback", fn: fn}, opts)
}
