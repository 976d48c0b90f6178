package game

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/maxbot/core/logger"
	"github.com/m3rciful/maxbot/core/state"
)

const component = "game"

// TargetSource draws a hidden number in [MinTarget, MaxTarget].
type TargetSource func() int

// Option configures an Engine.
type Option func(*Engine)

// WithTargetSource overrides the random target source.
func WithTargetSource(src TargetSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.target = src
		}
	}
}

// WithClock overrides the clock used for StartedAt.
func WithClock(now state.Clock) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine runs guessing games over session records.
type Engine struct {
	target TargetSource
	now    state.Clock
	newID  func() string
}

// NewEngine constructs an engine drawing targets uniformly from [1,100].
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		target: func() int { return MinTarget + rand.Intn(MaxTarget-MinTarget+1) },
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start resumes the session's active game or creates a new one.
// The returned patch switches the session to the guessing state.
func (e *Engine) Start(ctx context.Context, sess *state.Session) (GuessGame, state.Patch) {
	if g, ok := Active(sess); ok && sess.State == state.StateGuessing {
		logger.Debug(ctx, component, "game.resumed",
			slog.String("game_id", g.ID),
			slog.Int("attempts", g.Attempts),
		)
		return g, state.WithState(state.StateGuessing)
	}
	return e.Restart(ctx, sess)
}

// Restart discards any current game and creates a fresh one with zero attempts.
func (e *Engine) Restart(ctx context.Context, sess *state.Session) (GuessGame, state.Patch) {
	prev, hadPrev := Active(sess)
	g := GuessGame{
		ID:          e.newID(),
		Target:      e.draw(),
		MaxAttempts: MaxAttempts,
		StartedAt:   e.now(),
	}
	attrs := []slog.Attr{slog.String("game_id", g.ID)}
	if hadPrev {
		attrs = append(attrs, slog.String("prev_game_id", prev.ID))
	}
	logger.Info(ctx, component, "game.started", attrs...)

	p := state.WithState(state.StateGuessing)
	p.Set = map[string]any{DataKey: g}
	return g, p
}

func (e *Engine) draw() int {
	t := e.target()
	if t < MinTarget {
		return MinTarget
	}
	if t > MaxTarget {
		return MaxTarget
	}
	return t
}

// Play evaluates one text guess. A parse failure consumes no attempt and
// yields an empty patch. A win is checked before exhaustion; both clear the
// game and return the session to idle.
func (e *Engine) Play(ctx context.Context, sess *state.Session, text string) (Outcome, state.Patch) {
	g, ok := Active(sess)
	if !ok {
		logger.Warn(ctx, component, "game.missing")
		p := state.WithState(state.StateIdle)
		p.Clear = []string{DataKey}
		return Outcome{Verdict: VerdictNoGame}, p
	}

	guess, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return Outcome{
			Verdict:   VerdictInvalid,
			Attempts:  g.Attempts,
			Remaining: g.Remaining(),
			GameID:    g.ID,
		}, state.Patch{}
	}

	g.Attempts++
	out := Outcome{
		Guess:     guess,
		Attempts:  g.Attempts,
		Remaining: g.Remaining(),
		GameID:    g.ID,
	}
	switch {
	case guess == g.Target:
		out.Verdict = VerdictWon
		out.Tone = ToneFor(g.Attempts)
	case g.Attempts >= g.MaxAttempts:
		out.Verdict = VerdictExhausted
	case guess < g.Target:
		out.Verdict = VerdictHigher
	default:
		out.Verdict = VerdictLower
	}

	logger.Debug(ctx, component, "game.guess",
		slog.String("game_id", g.ID),
		slog.Int("attempts", g.Attempts),
		slog.String("verdict", string(out.Verdict)),
	)

	if out.Verdict.Finished() {
		out.Target = g.Target
		logger.Info(ctx, component, "game.finished",
			slog.String("game_id", g.ID),
			slog.Int("attempts", g.Attempts),
			slog.String("verdict", string(out.Verdict)),
		)
		p := state.WithState(state.StateIdle)
		p.Clear = []string{DataKey}
		return out, p
	}
	return out, state.Patch{Set: map[string]any{DataKey: g}}
}
