package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/m3rciful/maxbot/core/bootstrap"
	coreconfig "github.com/m3rciful/maxbot/core/config"
	"github.com/m3rciful/maxbot/core/httpapi"
	"github.com/m3rciful/maxbot/core/logger"
	coretelegram "github.com/m3rciful/maxbot/core/telegram"
	"github.com/m3rciful/maxbot/core/telegram/routes"
)

// Options describe how to load configuration, bootstrap the app, and run the bot.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string
	// EnvFiles are loaded with godotenv before config; missing files are skipped.
	EnvFiles []string

	LoadConfig func(path string) (*coreconfig.Config, error)
	Bootstrap  bootstrap.Options
	// Modules returns the feature modules registered on the dialog router.
	Modules func(res *bootstrap.Result) []bootstrap.Module

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
	ServeHTTP      func(ctx context.Context, addr string, h http.Handler) error
	// Context defaults to one cancelled by SIGINT or SIGTERM.
	Context context.Context
}

// Run loads configuration, bootstraps the stores and the dispatch router, and
// runs the Telegram runtime next to the stats HTTP API until shutdown.
func Run(opts Options) error {
	if opts.Modules == nil {
		return fmt.Errorf("cmd: Modules is required")
	}
	loadEnvFiles(opts.EnvFiles)

	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	cfgPath := os.Getenv(env)
	if cfgPath == "" {
		cfgPath = opts.DefaultConfigPath
	}
	if cfgPath == "" {
		return fmt.Errorf("cmd: config path not provided via %s or DefaultConfigPath", env)
	}

	load := opts.LoadConfig
	if load == nil {
		load = coreconfig.Load
	}
	log.Printf("loading config: %s", cfgPath)
	cfg, err := load(cfgPath)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}

	bopts := opts.Bootstrap
	bopts.Config = cfg
	res, err := bootstrap.Run(bopts)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}

	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	router, reg, err := res.Router(opts.Modules(res)...)
	if err != nil {
		return fmt.Errorf("cmd: dialog wiring failed: %w", err)
	}

	ctx := opts.Context
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
	}

	middlewares, err := coretelegram.DefaultMiddlewares(ctx, cfg, routes.Limited)
	if err != nil {
		return fmt.Errorf("cmd: middleware build failed: %w", err)
	}

	startedAt := time.Now()
	runOpts := coretelegram.RunOptions{
		Config:      cfg,
		Commands:    reg.Commands(true),
		Middlewares: middlewares,
		Routes: func(rt coretelegram.Runtime) []coretelegram.Route {
			deliver := coretelegram.NewDeliverer(rt.Bot, rt.Dispatcher)
			return routes.New(ctx, router, deliver).Routes()
		},
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			logger.Info(ctx, "app", "ready",
				slog.Duration("startup_duration", logger.Took(startedAt)),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			snap := res.Stats.Snapshot()
			logger.Info(ctx, "app", "shutdown",
				slog.Int("users", snap.TotalUsers),
				slog.Int("messages", snap.TotalMessages),
				slog.Uint64("sent", rt.Dispatcher.DoneCount()),
				slog.Uint64("send_errors", rt.Dispatcher.ErrorCount()),
			)
			return nil
		},
	}

	runTelegram := opts.RunTelegram
	if runTelegram == nil {
		runTelegram = coretelegram.RunTelegram
	}
	serve := opts.ServeHTTP
	if serve == nil {
		serve = httpapi.Serve
	}

	g, gctx := errgroup.WithContext(ctx)
	gctx, stop := context.WithCancel(gctx)
	defer stop()
	g.Go(func() error {
		// The HTTP API has no purpose once the bot is gone.
		defer stop()
		return runTelegram(gctx, runOpts)
	})
	if addr := cfg.HTTP.Listen; addr != "" {
		g.Go(func() error {
			return serve(gctx, addr, httpapi.NewRouter(res.Stats))
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadEnvFiles(files []string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Printf("env file %s: %v", f, err)
		}
	}
}
