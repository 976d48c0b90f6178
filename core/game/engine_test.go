package game

import (
	"context"
	"testing"

	"github.com/m3rciful/maxbot/core/state"
)

func fixedTarget(n int) Option {
	return WithTargetSource(func() int { return n })
}

// play applies the engine's patch to the store the way the router does.
func play(t *testing.T, e *Engine, s *state.Sessions, text string) Outcome {
	t.Helper()
	out, p := e.Play(context.Background(), s.GetOrCreate("u1"), text)
	s.Update("u1", p)
	return out
}

func start(e *Engine, s *state.Sessions) GuessGame {
	g, p := e.Start(context.Background(), s.GetOrCreate("u1"))
	s.Update("u1", p)
	return g
}

func TestWinScenario(t *testing.T) {
	e := NewEngine(fixedTarget(42))
	s := state.NewSessions(nil)
	start(e, s)

	out := play(t, e, s, "50")
	if out.Verdict != VerdictLower || out.Attempts != 1 {
		t.Fatalf("after 50: %+v", out)
	}
	out = play(t, e, s, "42")
	if out.Verdict != VerdictWon || out.Attempts != 2 || out.Tone != ToneExcellent {
		t.Fatalf("after 42: %+v", out)
	}
	if out.Target != 42 {
		t.Fatalf("target not revealed: %+v", out)
	}

	sess := s.GetOrCreate("u1")
	if sess.State != state.StateIdle {
		t.Fatalf("state = %q, want idle", sess.State)
	}
	if _, ok := Active(sess); ok {
		t.Fatalf("game must be cleared after a win")
	}
}

func TestHigherHint(t *testing.T) {
	e := NewEngine(fixedTarget(42))
	s := state.NewSessions(nil)
	start(e, s)
	if out := play(t, e, s, "10"); out.Verdict != VerdictHigher {
		t.Fatalf("verdict = %q, want higher", out.Verdict)
	}
}

func TestExhaustion(t *testing.T) {
	e := NewEngine(fixedTarget(7))
	s := state.NewSessions(nil)
	start(e, s)

	var out Outcome
	for i := 0; i < MaxAttempts; i++ {
		out = play(t, e, s, "50")
	}
	if out.Verdict != VerdictExhausted || out.Target != 7 || out.Attempts != MaxAttempts {
		t.Fatalf("seventh guess: %+v", out)
	}
	sess := s.GetOrCreate("u1")
	if sess.State != state.StateIdle {
		t.Fatalf("state = %q, want idle", sess.State)
	}
	if _, ok := Active(sess); ok {
		t.Fatalf("game must be cleared after exhaustion")
	}
}

func TestWinOnLastAttemptBeatsExhaustion(t *testing.T) {
	e := NewEngine(fixedTarget(7))
	s := state.NewSessions(nil)
	start(e, s)
	for i := 0; i < MaxAttempts-1; i++ {
		play(t, e, s, "1")
	}
	out := play(t, e, s, "7")
	if out.Verdict != VerdictWon || out.Tone != ToneNotBad {
		t.Fatalf("last-attempt win: %+v", out)
	}
}

func TestParseErrorConsumesNothing(t *testing.T) {
	e := NewEngine(fixedTarget(42))
	s := state.NewSessions(nil)
	start(e, s)

	for _, text := range []string{"abc", "4.2", "", "forty"} {
		if out := play(t, e, s, text); out.Verdict != VerdictInvalid {
			t.Fatalf("%q: verdict = %q", text, out.Verdict)
		}
	}
	g, ok := Active(s.GetOrCreate("u1"))
	if !ok || g.Attempts != 0 {
		t.Fatalf("parse errors consumed attempts: %+v", g)
	}
	if out := play(t, e, s, " -3 "); out.Verdict != VerdictHigher || out.Attempts != 1 {
		t.Fatalf("signed guess: %+v", out)
	}
}

func TestRestartResetsAttempts(t *testing.T) {
	e := NewEngine(fixedTarget(42))
	s := state.NewSessions(nil)
	first := start(e, s)
	play(t, e, s, "1")
	play(t, e, s, "2")

	resumed := start(e, s)
	if resumed.ID != first.ID || resumed.Attempts != 2 {
		t.Fatalf("start should resume the active game: %+v", resumed)
	}

	seen := map[string]bool{first.ID: true}
	for i := 0; i < 2; i++ {
		g, p := e.Restart(context.Background(), s.GetOrCreate("u1"))
		s.Update("u1", p)
		if g.Attempts != 0 {
			t.Fatalf("restart leaked attempts: %d", g.Attempts)
		}
		if seen[g.ID] {
			t.Fatalf("restart reused game id %s", g.ID)
		}
		seen[g.ID] = true
		active, _ := Active(s.GetOrCreate("u1"))
		if active.ID != g.ID || active.Attempts != 0 {
			t.Fatalf("stored game mismatch: %+v", active)
		}
	}
}

func TestPlayWithoutGameReturnsIdle(t *testing.T) {
	e := NewEngine()
	s := state.NewSessions(nil)
	s.Update("u1", state.WithState(state.StateGuessing))

	out := play(t, e, s, "5")
	if out.Verdict != VerdictNoGame {
		t.Fatalf("verdict = %q", out.Verdict)
	}
	if got := s.GetOrCreate("u1").State; got != state.StateIdle {
		t.Fatalf("state = %q, want idle", got)
	}
}

func TestDefaultTargetInRange(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 1000; i++ {
		if n := e.draw(); n < MinTarget || n > MaxTarget {
			t.Fatalf("target %d out of range", n)
		}
	}
}

func TestToneFor(t *testing.T) {
	cases := map[int]Tone{1: ToneExcellent, 3: ToneExcellent, 4: ToneGood, 5: ToneGood, 6: ToneNotBad, 7: ToneNotBad}
	for attempts, want := range cases {
		if got := ToneFor(attempts); got != want {
			t.Errorf("ToneFor(%d) = %q, want %q", attempts, got, want)
		}
	}
}
