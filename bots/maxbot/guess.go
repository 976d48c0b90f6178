package maxbot

import (
	"context"
	"log/slog"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/game"
	"github.com/m3rciful/maxbot/core/state"
)

func (b *Bot) guessStart(ctx context.Context, req *dialog.Request) (dialog.Result, error) {
	g, patch := b.engine.Start(ctx, req.Session)
	return guessIntro(req, g, patch), nil
}

func (b *Bot) guessRestart(ctx context.Context, req *dialog.Request) (dialog.Result, error) {
	g, patch := b.engine.Restart(ctx, req.Session)
	return guessIntro(req, g, patch), nil
}

func guessIntro(req *dialog.Request, g game.GuessGame, patch state.Patch) dialog.Result {
	res := dialog.Reply(req.Reply(guessIntroText(g), guessMenu()))
	res.Patch = patch
	res.Attrs = []slog.Attr{slog.String("game_id", g.ID)}
	return res
}

func (b *Bot) guessPlay(ctx context.Context, req *dialog.Request) (dialog.Result, error) {
	out, patch := b.engine.Play(ctx, req.Session, req.Event.Text)

	var kb *dialog.Keyboard
	if out.Verdict.Finished() || out.Verdict == game.VerdictNoGame {
		kb = gameOverMenu()
	}
	res := dialog.Reply(req.Reply(guessOutcomeText(out), kb))
	res.Patch = patch
	res.Attrs = []slog.Attr{
		slog.String("verdict", string(out.Verdict)),
		slog.Int("attempts", out.Attempts),
	}
	if out.GameID != "" {
		res.Attrs = append(res.Attrs, slog.String("game_id", out.GameID))
	}
	return res, nil
}
