// Package httpapi exposes read-only process stats over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/maxbot/core/logger"
	"github.com/m3rciful/maxbot/core/stats"
)

const component = "http"

// StatsSource yields the current stats snapshot.
type StatsSource interface {
	Snapshot() stats.Snapshot
}

type statsResponse struct {
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	TotalUsers    int     `json:"total_users"`
	ActiveUsers   int     `json:"active_users"`
	TotalMessages int     `json:"total_messages"`
	MemoryUsage   string  `json:"memory_usage"`
	StartedAt     string  `json:"started_at"`
}

// NewRouter builds the chi router serving /healthz and /stats.
func NewRouter(src StatsSource) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(requestLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		snap := src.Snapshot()
		writeJSON(w, http.StatusOK, statsResponse{
			Uptime:        snap.Uptime.Round(time.Second).String(),
			UptimeSeconds: snap.Uptime.Seconds(),
			TotalUsers:    snap.TotalUsers,
			ActiveUsers:   snap.ActiveUsers,
			TotalMessages: snap.TotalMessages,
			MemoryUsage:   snap.MemoryUsageHint,
			StartedAt:     humanize.RelTime(snap.TakenAt.Add(-snap.Uptime), snap.TakenAt, "ago", "from now"),
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(context.Background(), component, "response.encode_failed", slog.String("err", err.Error()))
	}
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		ctx := logger.WithRID(r.Context(), chiMiddleware.GetReqID(r.Context()))
		status := "ok"
		if ww.Status() >= http.StatusBadRequest {
			status = "fail"
		}
		logger.Debug(ctx, component, "request",
			slog.String("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("code", ww.Status()),
			slog.Duration("duration", logger.Took(start)),
		)
	})
}

// Serve runs an HTTP server on addr until ctx is done, then shuts it down
// gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, component, "listen", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info(ctx, component, "stopped")
	return nil
}
