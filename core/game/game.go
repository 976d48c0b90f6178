// Package game implements the number-guessing mini-game as a state machine
// layered on the session state. The engine never writes to a store; every
// transition is returned as a state.Patch for the caller to apply.
package game

import (
	"time"

	"github.com/m3rciful/maxbot/core/state"
)

const (
	// MinTarget and MaxTarget bound the hidden number, both inclusive.
	MinTarget = 1
	MaxTarget = 100
	// MaxAttempts is the number of valid guesses a game allows.
	MaxAttempts = 7
	// DataKey is the session data slot holding the active GuessGame.
	DataKey = "guess_game"
)

// GuessGame is one round of the game. It lives in a session's data slot only
// while the session is in the guessing state.
type GuessGame struct {
	ID          string
	Target      int
	Attempts    int
	MaxAttempts int
	StartedAt   time.Time
}

// Remaining returns how many valid guesses are left.
func (g GuessGame) Remaining() int {
	if r := g.MaxAttempts - g.Attempts; r > 0 {
		return r
	}
	return 0
}

// Verdict classifies the result of one guess.
type Verdict string

const (
	VerdictInvalid   Verdict = "invalid"
	VerdictHigher    Verdict = "higher"
	VerdictLower     Verdict = "lower"
	VerdictWon       Verdict = "won"
	VerdictExhausted Verdict = "exhausted"
	// VerdictNoGame is returned when the session claims to be guessing but
	// holds no game.
	VerdictNoGame Verdict = "no_game"
)

// Finished reports whether the verdict ends the game.
func (v Verdict) Finished() bool {
	return v == VerdictWon || v == VerdictExhausted
}

// Tone grades a win by the number of attempts used.
type Tone string

const (
	ToneExcellent Tone = "excellent"
	ToneGood      Tone = "good"
	ToneNotBad    Tone = "not bad"
)

// ToneFor returns the win tone for the given attempt count.
func ToneFor(attempts int) Tone {
	switch {
	case attempts <= 3:
		return ToneExcellent
	case attempts <= 5:
		return ToneGood
	default:
		return ToneNotBad
	}
}

// Outcome describes one processed guess.
type Outcome struct {
	Verdict   Verdict
	Guess     int
	Attempts  int
	Remaining int
	// Target is revealed only when the game is finished.
	Target int
	Tone   Tone
	GameID string
}

// Active returns the game stored in the session, if any.
func Active(sess *state.Session) (GuessGame, bool) {
	if sess == nil || sess.Data == nil {
		return GuessGame{}, false
	}
	g, ok := sess.Data[DataKey].(GuessGame)
	return g, ok
}

// IsGuessing is the routing predicate for free text while a game runs.
func IsGuessing(st state.State) bool {
	return st == state.StateGuessing
}
