package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/m3rciful/maxbot/core/logger"
)

var (
	// ErrDuplicateCommand is returned when a command name is registered twice.
	ErrDuplicateCommand = errors.New("dialog: duplicate command")
	// ErrDuplicateCatchAll is returned when a second catch-all is registered.
	ErrDuplicateCatchAll = errors.New("dialog: catch-all already registered")
	// ErrNoCatchAll is returned by NewRouter when no catch-all was registered.
	ErrNoCatchAll = errors.New("dialog: catch-all handler is required")
	// ErrInvalidHandler is returned for handlers missing a function or matcher.
	ErrInvalidHandler = errors.New("dialog: invalid handler")
)

// CommandInfo describes a registered command for menu publishing.
type CommandInfo struct {
	Name        string
	Description string
	AdminOnly   bool
}

// Registry collects handlers before the router is built. It is not safe for
// concurrent registration.
type Registry struct {
	commands     map[string]Handler
	callbacks    []Handler
	conditionals []Handler
	catchAll     *Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Handler)}
}

// Register adds a handler. Callbacks and conditional handlers are matched
// in registration order.
func (r *Registry) Register(h Handler) error {
	if h.fn == nil {
		return fmt.Errorf("%w: %s has no function", ErrInvalidHandler, h.name)
	}
	switch h.kind {
	case kindCommand:
		if h.command == "" {
			return fmt.Errorf("%w: empty command name", ErrInvalidHandler)
		}
		if _, exists := r.commands[h.command]; exists {
			logger.Warn(context.Background(), "tg.wire", "register.command.duplicate",
				slog.String("name", h.command),
			)
			return fmt.Errorf("%w: /%s", ErrDuplicateCommand, h.command)
		}
		r.commands[h.command] = h
	case kindCallback:
		if h.onCallback == nil {
			return fmt.Errorf("%w: %s has no predicate", ErrInvalidHandler, h.name)
		}
		r.callbacks = append(r.callbacks, h)
	case kindConditional:
		if h.onState == nil {
			return fmt.Errorf("%w: %s has no predicate", ErrInvalidHandler, h.name)
		}
		r.conditionals = append(r.conditionals, h)
	case kindCatchAll:
		if r.catchAll != nil {
			return ErrDuplicateCatchAll
		}
		r.catchAll = &h
	default:
		return fmt.Errorf("%w: unknown kind", ErrInvalidHandler)
	}
	return nil
}

// MustRegister registers every handler and panics on the first error.
func (r *Registry) MustRegister(hs ...Handler) {
	for _, h := range hs {
		if err := r.Register(h); err != nil {
			panic(err)
		}
	}
}

// Commands lists registered commands sorted by name. When visibleOnly is set,
// hidden and admin-only commands are omitted.
func (r *Registry) Commands(visibleOnly bool) []CommandInfo {
	out := make([]CommandInfo, 0, len(r.commands))
	for name, h := range r.commands {
		if visibleOnly && (h.hidden || h.adminOnly) {
			continue
		}
		out = append(out, CommandInfo{Name: name, Description: h.description, AdminOnly: h.adminOnly})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) counts() (commands, callbacks, conditionals int) {
	return len(r.commands), len(r.callbacks), len(r.conditionals)
}
