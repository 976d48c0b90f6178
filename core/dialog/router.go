package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"strings"
	"time"

	"github.com/m3rciful/maxbot/core/logger"
	"github.com/m3rciful/maxbot/core/state"
)

const component = "dialog"

// DefaultRefusal is sent when a non-admin reaches an admin-only handler.
const DefaultRefusal = "❌ You do not have administrator rights."

var (
	// ErrHandlerPanic marks errors produced by a recovered handler panic.
	ErrHandlerPanic = errors.New("dialog: handler panicked")
	// ErrNoSender is returned for events without a sender id.
	ErrNoSender = errors.New("dialog: event has no sender")
)

// PanicError wraps a recovered handler panic with its stack.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrHandlerPanic, e.Value)
}

// Is lets errors.Is match ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

// ErrorHook receives handler faults. Mutations already applied by the
// failing event are kept.
type ErrorHook func(ctx context.Context, ev Event, handler string, err error)

// LogErrorHook reports faults through the structured logger.
func LogErrorHook(ctx context.Context, ev Event, handler string, err error) {
	attrs := []slog.Attr{
		slog.String("handler", handler),
		slog.String("kind", string(ev.Kind)),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		slog.String("err_code", deriveErrorCode(err)),
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}
	logger.Error(ctx, component, "handler.fault", attrs...)
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAdmins sets the predicate deciding who may run admin-only handlers.
// Without it every admin-only handler refuses.
func WithAdmins(isAdmin func(userID string) bool) RouterOption {
	return func(r *Router) { r.isAdmin = isAdmin }
}

// WithRefusal overrides the refusal text for admin-only handlers.
func WithRefusal(text string) RouterOption {
	return func(r *Router) {
		if text != "" {
			r.refusal = text
		}
	}
}

// WithErrorHook replaces the fault hook.
func WithErrorHook(h ErrorHook) RouterOption {
	return func(r *Router) {
		if h != nil {
			r.onError = h
		}
	}
}

// WithTimeout bounds lock wait plus handler run time per event. Zero disables it.
func WithTimeout(d time.Duration) RouterOption {
	return func(r *Router) { r.timeout = d }
}

// Router dispatches events with precedence command, callback, conditional
// message, catch-all. Events of one sender are serialized.
type Router struct {
	commands     map[string]Handler
	callbacks    []Handler
	conditionals []Handler
	catchAll     Handler

	sessions *state.Sessions
	locks    *state.Locks
	isAdmin  func(string) bool
	refusal  string
	onError  ErrorHook
	timeout  time.Duration
}

// NewRouter freezes the registry into a router.
func NewRouter(reg *Registry, sessions *state.Sessions, locks *state.Locks, opts ...RouterOption) (*Router, error) {
	if reg == nil || sessions == nil || locks == nil {
		return nil, errors.New("dialog: registry, sessions and locks are required")
	}
	if reg.catchAll == nil {
		return nil, ErrNoCatchAll
	}
	r := &Router{
		commands:     make(map[string]Handler, len(reg.commands)),
		callbacks:    append([]Handler(nil), reg.callbacks...),
		conditionals: append([]Handler(nil), reg.conditionals...),
		catchAll:     *reg.catchAll,
		sessions:     sessions,
		locks:        locks,
		refusal:      DefaultRefusal,
		onError:      LogErrorHook,
	}
	for k, h := range reg.commands {
		r.commands[k] = h
	}
	for _, opt := range opts {
		opt(r)
	}

	cmds, cbs, conds := reg.counts()
	logger.Info(context.Background(), "tg.wire", "complete",
		slog.Int("commands", cmds),
		slog.Int("callbacks", cbs),
		slog.Int("conditionals", conds),
	)
	return r, nil
}

// Dispatch routes one event and returns the commands to deliver. Events that
// run a handler apply exactly one session update, even when the handler fails.
// Admin refusals apply none.
// An event that matches nothing returns no commands and changes nothing.
func (r *Router) Dispatch(ctx context.Context, ev Event) ([]OutboundCommand, error) {
	if ev.SenderID == "" {
		return nil, ErrNoSender
	}
	start := time.Now()
	ctx = logger.WithEventMeta(ctx, ev.UpdateID, ev.SenderID, ev.ChatID)
	if logger.RIDFrom(ctx) == "" {
		ctx = logger.WithRID(ctx, logger.BuildRID(ev.UpdateID, ev.ChatID, ev.SenderID))
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	unlock, err := r.locks.Lock(ctx, ev.SenderID)
	if err != nil {
		r.summary(ctx, ev, "lock", start, "fail", "fail", 0, false, err)
		r.onError(ctx, ev, "lock", err)
		return nil, err
	}
	defer unlock()

	h, ok := r.match(ev)
	if !ok {
		r.summary(ctx, ev, "none", start, "skip", "no_match", 0, false, nil)
		return nil, nil
	}
	ctx = logger.WithHandler(ctx, h.name)

	// A refusal leaves the stores untouched: no session is created or updated.
	if h.adminOnly && (r.isAdmin == nil || !r.isAdmin(ev.SenderID)) {
		cmds := []OutboundCommand{{ChatID: ev.ChatID, Text: r.refusal}}
		r.summary(ctx, ev, h.name, start, "denied", "denied", len(cmds), false, nil)
		return cmds, nil
	}

	req := &Request{Event: ev, Session: r.sessions.GetOrCreate(ev.SenderID)}

	res, err := invoke(ctx, h, req)
	r.sessions.Update(ev.SenderID, res.Patch)
	for i := range res.Commands {
		if res.Commands[i].ChatID == "" {
			res.Commands[i].ChatID = ev.ChatID
		}
	}

	kb := false
	for _, c := range res.Commands {
		if c.Keyboard != nil {
			kb = true
			break
		}
	}
	r.summary(ctx, ev, h.name, start, "", "", len(res.Commands), kb, err, res.Attrs...)
	if err != nil {
		r.onError(ctx, ev, h.name, err)
		return res.Commands, err
	}
	return res.Commands, nil
}

// match resolves the handler for ev. Commands that are not registered are
// treated as plain text.
func (r *Router) match(ev Event) (Handler, bool) {
	switch ev.Kind {
	case KindCommand:
		if h, ok := r.commands[NormalizeCommand(ev.Command)]; ok {
			return h, true
		}
		return r.matchText(ev)
	case KindCallback:
		for _, h := range r.callbacks {
			if h.onCallback(ev.CallbackData) {
				return h, true
			}
		}
		return Handler{}, false
	case KindText:
		return r.matchText(ev)
	}
	return Handler{}, false
}

func (r *Router) matchText(ev Event) (Handler, bool) {
	if len(r.conditionals) > 0 {
		st := r.sessions.GetOrCreate(ev.SenderID).State
		for _, h := range r.conditionals {
			if h.onState(st) {
				return h, true
			}
		}
	}
	return r.catchAll, true
}

func invoke(ctx context.Context, h Handler, req *Request) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{}
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return h.fn(ctx, req)
}

func (r *Router) summary(ctx context.Context, ev Event, handler string, start time.Time, status, outcome string, messages int, kb bool, err error, extras ...slog.Attr) {
	if status == "" {
		status = "ok"
		if err != nil {
			status = "fail"
		}
	}
	if outcome == "" {
		outcome = status
	}
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", handler),
		slog.String("kind", string(ev.Kind)),
		slog.String("outcome", outcome),
		slog.Int("messages", messages),
		slog.Bool("kb", kb),
		slog.Int64("duration_ms", logger.Took(start).Milliseconds()),
	}
	if ev.Kind == KindCallback {
		attrs = append(attrs, slog.String("cb_key", ev.CallbackData))
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	attrs = append(attrs, extras...)
	logger.Info(ctx, component, "handler.handled", attrs...)
}

func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrHandlerPanic):
		return "PANIC"
	case errors.Is(err, state.ErrLockTimeout):
		return "LOCK_TIMEOUT"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	}
	type coder interface{ Code() string }
	var c coder
	if errors.As(err, &c) {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(t.Name())
	}
	return "UNKNOWN_ERROR"
}
