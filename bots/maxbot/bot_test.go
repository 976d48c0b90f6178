package maxbot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/game"
	"github.com/m3rciful/maxbot/core/state"
	"github.com/m3rciful/maxbot/core/stats"
)

const adminID = "100"

type harness struct {
	t        *testing.T
	sessions *state.Sessions
	profiles *state.Profiles
	router   *dialog.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	sessions := state.NewSessions(now)
	profiles := state.NewProfiles(now)
	bot := New(Deps{
		BotID:        "test_bot",
		Sessions:     sessions,
		Profiles:     profiles,
		Engine:       game.NewEngine(game.WithTargetSource(func() int { return 42 }), game.WithClock(now)),
		Stats:        stats.NewAggregator(sessions, profiles, now),
		Now:          now,
		RandomNumber: func() int { return 17 },
	})
	reg := dialog.NewRegistry()
	if err := bot.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	router, err := dialog.NewRouter(reg, sessions, state.NewLocks(),
		dialog.WithAdmins(func(id string) bool { return id == adminID }),
	)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return &harness{t: t, sessions: sessions, profiles: profiles, router: router}
}

func (h *harness) send(ev dialog.Event) []dialog.OutboundCommand {
	h.t.Helper()
	if ev.ChatID == "" {
		ev.ChatID = "chat-" + ev.SenderID
	}
	ev.From = dialog.User{FirstName: "Ann", LastName: "Lee", Username: "ann"}
	out, err := h.router.Dispatch(context.Background(), ev)
	if err != nil {
		h.t.Fatalf("dispatch %+v: %v", ev, err)
	}
	return out
}

func (h *harness) command(user, name string) []dialog.OutboundCommand {
	return h.send(dialog.Event{Kind: dialog.KindCommand, SenderID: user, Text: "/" + name, Command: name})
}

func (h *harness) callback(user, data string) []dialog.OutboundCommand {
	return h.send(dialog.Event{Kind: dialog.KindCallback, SenderID: user, CallbackData: data})
}

func (h *harness) text(user, body string) []dialog.OutboundCommand {
	return h.send(dialog.Event{Kind: dialog.KindText, SenderID: user, Text: body})
}

func single(t *testing.T, out []dialog.OutboundCommand) dialog.OutboundCommand {
	t.Helper()
	if len(out) != 1 {
		t.Fatalf("expected one command, got %d: %+v", len(out), out)
	}
	return out[0]
}

func TestStartShowsMenuAndStoresName(t *testing.T) {
	h := newHarness(t)
	cmd := single(t, h.command("1", "start"))

	if !strings.Contains(cmd.Text, "Welcome to Max Bot") || cmd.Keyboard == nil {
		t.Fatalf("unexpected welcome: %+v", cmd)
	}
	if cmd.ChatID != "chat-1" {
		t.Fatalf("chat id = %q", cmd.ChatID)
	}
	prof := h.profiles.GetOrCreate("1")
	if prof.DisplayName != "Ann Lee" || prof.Username != "ann" {
		t.Fatalf("profile not updated: %+v", prof)
	}
	if prof.TotalMessages != 0 {
		t.Fatalf("start must not count profile messages")
	}
}

func TestGuessingFlow(t *testing.T) {
	h := newHarness(t)

	intro := single(t, h.callback("1", cbGuessNumber))
	if !strings.Contains(intro.Text, "Attempts left: 7") {
		t.Fatalf("intro: %q", intro.Text)
	}
	if st := h.sessions.GetOrCreate("1").State; st != state.StateGuessing {
		t.Fatalf("state = %q", st)
	}

	if got := single(t, h.text("1", "abc")).Text; got != textInvalidGuess {
		t.Fatalf("parse error reply = %q", got)
	}
	if got := single(t, h.text("1", "50")).Text; !strings.Contains(got, "lower than 50") {
		t.Fatalf("hint reply = %q", got)
	}
	win := single(t, h.text("1", "42"))
	if !strings.Contains(win.Text, "Excellent") || !strings.Contains(win.Text, "Attempts used: 2") {
		t.Fatalf("win reply = %q", win.Text)
	}
	if win.Keyboard == nil {
		t.Fatalf("win reply should offer a new game")
	}
	if st := h.sessions.GetOrCreate("1").State; st != state.StateIdle {
		t.Fatalf("state after win = %q", st)
	}

	echo := single(t, h.text("1", "42"))
	if !strings.Contains(echo.Text, "Message from Ann") {
		t.Fatalf("idle text should hit the catch-all, got %q", echo.Text)
	}
	if got := h.profiles.GetOrCreate("1").TotalMessages; got != 1 {
		t.Fatalf("profile total = %d, want 1", got)
	}
	if got := h.sessions.GetOrCreate("1").MessageCount; got != 5 {
		t.Fatalf("session count = %d, want 5", got)
	}
}

func TestRestartDiscardsGame(t *testing.T) {
	h := newHarness(t)
	h.callback("1", cbGuessNumber)
	h.text("1", "10")
	h.text("1", "20")

	resumed := single(t, h.callback("1", cbGuessNumber))
	if !strings.Contains(resumed.Text, "Attempts used: 2") {
		t.Fatalf("resume lost attempts: %q", resumed.Text)
	}
	fresh := single(t, h.callback("1", cbGuessNew))
	if !strings.Contains(fresh.Text, "Attempts used: 0") {
		t.Fatalf("restart kept attempts: %q", fresh.Text)
	}
}

func TestStartDropsGame(t *testing.T) {
	h := newHarness(t)
	h.callback("1", cbGuessNumber)
	h.command("1", "start")

	sess := h.sessions.GetOrCreate("1")
	if sess.State != state.StateIdle {
		t.Fatalf("state = %q", sess.State)
	}
	if _, ok := game.Active(sess); ok {
		t.Fatalf("start should drop the running game")
	}
}

func TestAdminAccess(t *testing.T) {
	h := newHarness(t)
	h.callback("1", cbGuessNumber)

	refusal := single(t, h.command("1", "admin"))
	if refusal.Text != dialog.DefaultRefusal {
		t.Fatalf("refusal = %q", refusal.Text)
	}
	if got := single(t, h.callback("1", cbUsersList)).Text; got != dialog.DefaultRefusal {
		t.Fatalf("users list refusal = %q", got)
	}
	if st := h.sessions.GetOrCreate("1").State; st != state.StateGuessing {
		t.Fatalf("refusal changed state to %q", st)
	}

	panel := single(t, h.command(adminID, "admin"))
	if !strings.Contains(panel.Text, "Admin panel") {
		t.Fatalf("admin panel = %q", panel.Text)
	}
	h.command("1", "start")
	list := single(t, h.callback(adminID, cbUsersList))
	if !strings.Contains(list.Text, "Users (") || !strings.Contains(list.Text, "Ann Lee") {
		t.Fatalf("users list = %q", list.Text)
	}
}

func TestUnhandledCallbacksAreSilent(t *testing.T) {
	h := newHarness(t)
	for _, data := range []string{cbQuiz, cbTicTacToe, cbBotManagement, cbBotLogs, "garbage"} {
		if out := h.callback("7", data); len(out) != 0 {
			t.Fatalf("%s produced %+v", data, out)
		}
	}
	if _, ok := h.sessions.Lookup("7"); ok {
		t.Fatalf("unhandled callbacks created a session")
	}
}

func TestSettingsToggles(t *testing.T) {
	h := newHarness(t)
	h.callback("1", cbLangSettings)
	h.callback("1", cbNotifSettings)
	out := single(t, h.callback("1", cbThemeSettings))

	prefs := h.profiles.GetOrCreate("1").Preferences
	if prefs.Language != "en" || prefs.NotificationsEnabled || prefs.Theme != themeDark {
		t.Fatalf("prefs = %+v", prefs)
	}
	if !strings.Contains(out.Text, "Theme: dark") {
		t.Fatalf("settings text = %q", out.Text)
	}
	h.callback("1", cbLangSettings)
	if got := h.profiles.GetOrCreate("1").Preferences.Language; got != "ru" {
		t.Fatalf("language did not cycle back, got %q", got)
	}
}

func TestRandomNumber(t *testing.T) {
	h := newHarness(t)
	out := single(t, h.callback("1", cbRandomNumber))
	if !strings.Contains(out.Text, "Your number: 17") {
		t.Fatalf("random text = %q", out.Text)
	}
	if st := h.sessions.GetOrCreate("1").State; st != state.StateIdle {
		t.Fatalf("random number changed state to %q", st)
	}
}

func TestInfoAndStats(t *testing.T) {
	h := newHarness(t)
	h.command("1", "start")
	h.command("2", "start")

	info := single(t, h.command("1", "info")).Text
	if !strings.Contains(info, "test_bot") || !strings.Contains(info, "Total users: 2") {
		t.Fatalf("info = %q", info)
	}
	st := single(t, h.command("1", "stats")).Text
	if !strings.Contains(st, "Session messages: 2") {
		t.Fatalf("stats = %q", st)
	}
}

func TestUnknownCommandEchoes(t *testing.T) {
	h := newHarness(t)
	out := single(t, h.command("1", "nosuch"))
	if !strings.Contains(out.Text, "Text: /nosuch") {
		t.Fatalf("unknown command reply = %q", out.Text)
	}
}

func TestMenuCommandsExcludeAdmin(t *testing.T) {
	reg := dialog.NewRegistry()
	if err := New(Deps{Sessions: state.NewSessions(nil), Profiles: state.NewProfiles(nil)}).Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, c := range reg.Commands(true) {
		if c.Name == "admin" {
			t.Fatalf("admin command published in menu")
		}
		if c.Description == "" {
			t.Fatalf("command %s has no description", c.Name)
		}
	}
}

func TestParallelGuessesFromOneUserConsumeEveryAttempt(t *testing.T) {
	h := newHarness(t)
	single(t, h.callback("1", cbGuessNumber))

	const guesses = 5
	var wg sync.WaitGroup
	errs := make(chan error, guesses)
	for i := 0; i < guesses; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.router.Dispatch(context.Background(), dialog.Event{
				Kind: dialog.KindText, SenderID: "1", ChatID: "chat-1", Text: "10",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}

	g, ok := game.Active(h.sessions.GetOrCreate("1"))
	if !ok {
		t.Fatalf("game should still be active")
	}
	if g.Attempts != guesses || g.Remaining() != game.MaxAttempts-guesses {
		t.Fatalf("attempts = %d remaining = %d, want %d and %d", g.Attempts, g.Remaining(), guesses, game.MaxAttempts-guesses)
	}
}
