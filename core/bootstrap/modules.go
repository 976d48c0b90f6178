package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/logger"
)

// Module contributes handlers to the dialog registry.
type Module interface {
	Register(reg *dialog.Registry) error
}

// ModuleFunc adapts a bare function to the Module interface.
type ModuleFunc func(reg *dialog.Registry) error

// Register executes the underlying function.
func (f ModuleFunc) Register(reg *dialog.Registry) error {
	return f(reg)
}

// Router registers every module and builds the dispatch router over the
// bootstrapped stores. Admin checks and the handler timeout come from config.
func (r *Result) Router(modules ...Module) (*dialog.Router, *dialog.Registry, error) {
	reg := dialog.NewRegistry()
	for i, m := range modules {
		if m == nil {
			continue
		}
		if err := m.Register(reg); err != nil {
			return nil, nil, fmt.Errorf("bootstrap: module %d: %w", i, err)
		}
	}

	router, err := dialog.NewRouter(reg, r.Sessions, r.Locks,
		dialog.WithAdmins(r.Config.IsAdmin),
		dialog.WithTimeout(time.Duration(r.Config.Dialog.HandlerTimeoutMS)*time.Millisecond),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: router: %w", err)
	}
	logger.Debug(context.Background(), "tg.wire", "modules", slog.Int("modules", len(modules)))
	return router, reg, nil
}
