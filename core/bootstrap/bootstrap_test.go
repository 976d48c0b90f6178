package bootstrap

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/maxbot/core/config"
	"github.com/m3rciful/maxbot/core/dialog"
)

func noLogger(*coreconfig.Config) error { return nil }

func testConfig() *coreconfig.Config {
	cfg := &coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "x", AdminIDs: []string{"1"}}}
	if err := coreconfig.Normalize(cfg); err != nil {
		panic(err)
	}
	return cfg
}

func TestRunRequiresConfig(t *testing.T) {
	if _, err := Run(Options{LoggerInit: noLogger}); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestRunPropagatesLoggerError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(Options{Config: testConfig(), LoggerInit: func(*coreconfig.Config) error { return boom }})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestRouterWiresModulesAndAdmins(t *testing.T) {
	res, err := Run(Options{Config: testConfig(), LoggerInit: noLogger})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	reply := func(text string) dialog.HandlerFunc {
		return func(_ context.Context, req *dialog.Request) (dialog.Result, error) {
			return dialog.Reply(req.Reply(text, nil)), nil
		}
	}
	mod := ModuleFunc(func(reg *dialog.Registry) error {
		if err := reg.Register(dialog.Command("admin", reply("secret"), dialog.AdminOnly())); err != nil {
			return err
		}
		return reg.Register(dialog.CatchAll(reply("echo")))
	})

	router, reg, err := res.Router(mod)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	if len(reg.Commands(false)) != 1 {
		t.Fatalf("commands = %+v", reg.Commands(false))
	}

	out, err := router.Dispatch(context.Background(), dialog.Event{Kind: dialog.KindCommand, SenderID: "1", ChatID: "1", Text: "/admin", Command: "admin"})
	if err != nil || len(out) != 1 || out[0].Text != "secret" {
		t.Fatalf("admin dispatch = %+v, %v", out, err)
	}
	out, err = router.Dispatch(context.Background(), dialog.Event{Kind: dialog.KindCommand, SenderID: "2", ChatID: "2", Text: "/admin", Command: "admin"})
	if err != nil || len(out) != 1 || out[0].Text != dialog.DefaultRefusal {
		t.Fatalf("non-admin dispatch = %+v, %v", out, err)
	}
	if _, ok := res.Sessions.Lookup("2"); ok || res.Sessions.Len() != 1 {
		t.Fatalf("refused sender got a session; sessions = %d", res.Sessions.Len())
	}
}

func TestRouterWithoutCatchAllFails(t *testing.T) {
	res, err := Run(Options{Config: testConfig(), LoggerInit: noLogger})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, _, err := res.Router(); !errors.Is(err, dialog.ErrNoCatchAll) {
		t.Fatalf("err = %v, want ErrNoCatchAll", err)
	}
}
