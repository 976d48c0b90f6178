package maxbot

import (
	"context"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/game"
	"github.com/m3rciful/maxbot/core/state"
)

func (b *Bot) start(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	ev := req.Event
	name := ev.From.DisplayName()
	username := ev.From.Username
	prof := b.profiles.Update(ev.SenderID, state.ProfilePatch{DisplayName: &name, Username: &username})

	res := dialog.Reply(req.Reply(welcomeText(ev, *prof), mainMenu()))
	res.Patch = state.WithState(state.StateIdle)
	res.Patch.Clear = []string{game.DataKey}
	return res, nil
}

func (b *Bot) mainMenu(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return dialog.Reply(req.Reply(textMainMenu, mainMenu())), nil
}

func (b *Bot) help(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return dialog.Reply(req.Reply(textHelp, nil)), nil
}

func (b *Bot) helpCallback(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return dialog.Reply(req.Reply(textHelp, backOnly())), nil
}

func (b *Bot) info(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return dialog.Reply(req.Reply(infoText(b.botID, b.stats.Snapshot()), nil)), nil
}

func (b *Bot) profile(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	prof := b.profiles.GetOrCreate(req.Event.SenderID)
	return dialog.Reply(req.Reply(profileText(req.Event, *prof, req.Session, b.now()), nil)), nil
}

func (b *Bot) userStats(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	prof := b.profiles.GetOrCreate(req.Event.SenderID)
	var kb *dialog.Keyboard
	if req.Event.Kind == dialog.KindCallback {
		kb = backOnly()
	}
	return dialog.Reply(req.Reply(statsText(*prof, req.Session, b.stats.Snapshot()), kb)), nil
}

func (b *Bot) games(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return dialog.Reply(req.Reply(textGames, gamesMenu())), nil
}

func (b *Bot) settings(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	prof := b.profiles.GetOrCreate(req.Event.SenderID)
	return dialog.Reply(req.Reply(settingsText(prof.Preferences), settingsMenu())), nil
}

func (b *Bot) admin(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return dialog.Reply(req.Reply(adminText(b.stats.Snapshot(), b.sessions.Len()), adminMenu())), nil
}

func (b *Bot) botStats(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return dialog.Reply(req.Reply(botStatsText(b.stats.Snapshot()), backToAdmin())), nil
}

func (b *Bot) usersList(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return dialog.Reply(req.Reply(usersListText(b.profiles.Snapshot(), b.now()), backToAdmin())), nil
}

func (b *Bot) randomNumber(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return dialog.Reply(req.Reply(randomText(b.random(), b.now()), randomMenu())), nil
}

// echo is the catch-all: it reflects the message, returns the session to
// idle and counts the message on the profile.
func (b *Bot) echo(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	prof := b.profiles.GetOrCreate(req.Event.SenderID)
	total := prof.TotalMessages + 1
	b.profiles.Update(req.Event.SenderID, state.ProfilePatch{TotalMessages: &total})

	res := dialog.Reply(req.Reply(echoText(req.Event, b.now()), nil))
	res.Patch = state.WithState(state.StateIdle)
	return res, nil
}
