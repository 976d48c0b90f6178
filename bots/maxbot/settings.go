package maxbot

import (
	"context"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/state"
)

var languages = []string{"ru", "en"}

const (
	themeLight = "light"
	themeDark  = "dark"
)

func nextLanguage(cur string) string {
	for i, l := range languages {
		if l == cur {
			return languages[(i+1)%len(languages)]
		}
	}
	return languages[0]
}

func (b *Bot) updatePreferences(req *dialog.Request, change func(*state.Preferences)) (dialog.Result, error) {
	prefs := b.profiles.GetOrCreate(req.Event.SenderID).Preferences
	change(&prefs)
	prof := b.profiles.Update(req.Event.SenderID, state.ProfilePatch{Preferences: &prefs})
	return dialog.Reply(req.Reply(settingsText(prof.Preferences), settingsMenu())), nil
}

func (b *Bot) toggleLanguage(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return b.updatePreferences(req, func(p *state.Preferences) {
		p.Language = nextLanguage(p.Language)
	})
}

func (b *Bot) toggleNotifications(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return b.updatePreferences(req, func(p *state.Preferences) {
		p.NotificationsEnabled = !p.NotificationsEnabled
	})
}

func (b *Bot) toggleTheme(_ context.Context, req *dialog.Request) (dialog.Result, error) {
	return b.updatePreferences(req, func(p *state.Preferences) {
		if p.Theme == themeDark {
			p.Theme = themeLight
		} else {
			p.Theme = themeDark
		}
	})
}
