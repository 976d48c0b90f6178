// Package maxbot wires the Max demo bot features onto the dialog router:
// menus, profile and stats screens, settings toggles and the guessing game.
package maxbot

import (
	"math/rand"
	"time"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/game"
	"github.com/m3rciful/maxbot/core/state"
	"github.com/m3rciful/maxbot/core/stats"
)

// Deps are the shared components the bot handlers use.
type Deps struct {
	BotID    string
	Sessions *state.Sessions
	Profiles *state.Profiles
	Engine   *game.Engine
	Stats    *stats.Aggregator
	// Now defaults to time.Now.
	Now state.Clock
	// RandomNumber draws the "random number" result; defaults to [1,100].
	RandomNumber func() int
}

// Bot holds the handler set.
type Bot struct {
	botID    string
	sessions *state.Sessions
	profiles *state.Profiles
	engine   *game.Engine
	stats    *stats.Aggregator
	now      state.Clock
	random   func() int
}

// New builds the bot from its dependencies.
func New(d Deps) *Bot {
	b := &Bot{
		botID:    d.BotID,
		sessions: d.Sessions,
		profiles: d.Profiles,
		engine:   d.Engine,
		stats:    d.Stats,
		now:      d.Now,
		random:   d.RandomNumber,
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.random == nil {
		b.random = func() int { return game.MinTarget + rand.Intn(game.MaxTarget-game.MinTarget+1) }
	}
	if b.engine == nil {
		b.engine = game.NewEngine()
	}
	return b
}

// Register adds every command, callback and text handler of the bot.
func (b *Bot) Register(reg *dialog.Registry) error {
	handlers := []dialog.Handler{
		dialog.Command("start", b.start, dialog.Describe("Open the main menu")),
		dialog.Command("help", b.help, dialog.Describe("Show help")),
		dialog.Command("info", b.info, dialog.Describe("Bot information")),
		dialog.Command("profile", b.profile, dialog.Describe("Your profile")),
		dialog.Command("stats", b.userStats, dialog.Describe("Your statistics")),
		dialog.Command("games", b.games, dialog.Describe("Games")),
		dialog.Command("settings", b.settings, dialog.Describe("Settings")),
		dialog.Command("admin", b.admin, dialog.Describe("Administration"), dialog.AdminOnly()),

		dialog.CallbackData(cbMainMenu, b.mainMenu),
		dialog.CallbackData(cbStats, b.userStats),
		dialog.CallbackData(cbSettings, b.settings),
		dialog.CallbackData(cbGames, b.games),
		dialog.CallbackData(cbHelp, b.helpCallback),
		dialog.CallbackData(cbAdmin, b.admin, dialog.AdminOnly()),
		dialog.CallbackData(cbBotStats, b.botStats, dialog.AdminOnly()),
		dialog.CallbackData(cbUsersList, b.usersList, dialog.AdminOnly()),
		dialog.CallbackData(cbRandomNumber, b.randomNumber),
		dialog.CallbackData(cbGuessNumber, b.guessStart),
		dialog.CallbackData(cbGuessNew, b.guessRestart),
		dialog.CallbackData(cbLangSettings, b.toggleLanguage),
		dialog.CallbackData(cbNotifSettings, b.toggleNotifications),
		dialog.CallbackData(cbThemeSettings, b.toggleTheme),

		dialog.ConditionalMessage("guess", game.IsGuessing, b.guessPlay),
		dialog.CatchAll(b.echo),
	}
	for _, h := range handlers {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}
