package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/m3rciful/maxbot/core/bootstrap"
	coreconfig "github.com/m3rciful/maxbot/core/config"
	"github.com/m3rciful/maxbot/core/dialog"
	coretelegram "github.com/m3rciful/maxbot/core/telegram"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func echoModule(reg *dialog.Registry) error {
	echo := func(_ context.Context, req *dialog.Request) (dialog.Result, error) {
		return dialog.Reply(req.Reply(req.Event.Text, nil)), nil
	}
	if err := reg.Register(dialog.Command("help", echo, dialog.Describe("Show help"))); err != nil {
		return err
	}
	if err := reg.Register(dialog.Command("admin", echo, dialog.AdminOnly(), dialog.Describe("Admin"))); err != nil {
		return err
	}
	return reg.Register(dialog.CatchAll(echo))
}

func baseOptions(t *testing.T, cfgBody string) Options {
	t.Setenv("CONFIG_PATH", writeConfig(t, cfgBody))
	return Options{
		Bootstrap:      bootstrap.Options{LoggerInit: func(*coreconfig.Config) error { return nil }},
		Modules:        func(*bootstrap.Result) []bootstrap.Module { return []bootstrap.Module{bootstrap.ModuleFunc(echoModule)} },
		ShutdownLogger: func() error { return nil },
		Context:        context.Background(),
	}
}

func TestRunPublishesVisibleCommandsAndSkipsHTTP(t *testing.T) {
	opts := baseOptions(t, "telegram:\n  token: t\n")
	var got coretelegram.RunOptions
	opts.RunTelegram = func(_ context.Context, ro coretelegram.RunOptions) error {
		got = ro
		return nil
	}
	opts.ServeHTTP = func(context.Context, string, http.Handler) error {
		t.Fatalf("http server must not start without http.listen")
		return nil
	}

	if err := Run(opts); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got.Commands) != 1 || got.Commands[0].Name != "help" {
		t.Fatalf("commands = %+v", got.Commands)
	}
	if got.Routes == nil || len(got.Middlewares) == 0 {
		t.Fatalf("runtime not wired: %+v", got)
	}
}

func TestRunStopsHTTPWhenBotFails(t *testing.T) {
	opts := baseOptions(t, "telegram:\n  token: t\nhttp:\n  listen: \":0\"\n")
	boom := errors.New("boom")
	opts.RunTelegram = func(context.Context, coretelegram.RunOptions) error { return boom }
	served := make(chan struct{})
	opts.ServeHTTP = func(ctx context.Context, addr string, _ http.Handler) error {
		close(served)
		<-ctx.Done()
		return nil
	}

	if err := Run(opts); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	<-served
}

func TestRunRequiresModules(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Fatalf("expected error without modules")
	}
}

func TestRunFailsOnInvalidConfig(t *testing.T) {
	opts := baseOptions(t, "telegram:\n  run_mode: carrier-pigeon\n  token: t\n")
	opts.RunTelegram = func(context.Context, coretelegram.RunOptions) error {
		t.Fatalf("bot must not start")
		return nil
	}
	if err := Run(opts); err == nil {
		t.Fatalf("expected config error")
	}
}
