package maxbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/m3rciful/maxbot/core/buildinfo"
	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/game"
	"github.com/m3rciful/maxbot/core/state"
	"github.com/m3rciful/maxbot/core/stats"
)

const (
	dateTimeLayout = "02.01.2006 15:04"
	clockLayout    = "15:04:05"
	notSet         = "not set"

	textInvalidGuess = "❌ Please enter a number!"
	textMainMenu     = "🏠 Main menu\n\nChoose an action:"
)

const textHelp = `📖 Max Bot help

📋 Commands:
/start - open the main menu
/help - show this help
/info - bot information
/profile - your profile
/stats - your statistics
/settings - settings
/games - games
/admin - administration

🎮 Games:
• Random number - draw a number from 1 to 100
• Guess the number - find the hidden number in 7 tries

⚙️ Settings:
• Interface language
• Notifications
• Theme

Use /start to get back to the main menu.`

const textGames = `🎮 Games

Pick a game below:

🎲 Random number - draw a number from 1 to 100
🎯 Guess the number - find the hidden number
📝 Quiz - questions and answers
🎮 Tic-tac-toe - the classic game`

const textSettingsIntro = `⚙️ Settings

You can change:
• 🌐 Interface language
• 🔔 Notifications
• 🎨 Theme`

func handle(username string) string {
	if username = strings.TrimPrefix(strings.TrimSpace(username), "@"); username == "" {
		return notSet
	}
	return "@" + username
}

func onOff(v bool) string {
	if v {
		return "✅ On"
	}
	return "❌ Off"
}

func uptime(d time.Duration) string {
	return d.Truncate(time.Second).String()
}

func welcomeText(ev dialog.Event, prof state.Profile) string {
	name := ev.From.FirstName
	if name == "" {
		name = ev.From.DisplayName()
	}
	return fmt.Sprintf(`🤖 Welcome to Max Bot!

👋 Hi, %s!

🎯 What I can do:
• 📊 Statistics
• ⚙️ User settings
• 🎮 Mini-games
• 📚 Help
• 🔧 Administration

🆔 Your ID: %s
👤 Username: %s
📅 First seen: %s

Choose an action below:`,
		name, ev.SenderID, handle(ev.From.Username), prof.FirstSeen.Format(dateTimeLayout))
}

func infoText(botID string, snap stats.Snapshot) string {
	return fmt.Sprintf(`ℹ️ About Max Bot

🤖 Bot ID: %s
📊 Statistics:
• Uptime: %s
• Total users: %s
• Active users: %s
• Total messages: %s
• Memory usage: %s

🔧 Build:
• Version: %s
• Commit: %s`,
		botID, uptime(snap.Uptime),
		humanize.Comma(int64(snap.TotalUsers)),
		humanize.Comma(int64(snap.ActiveUsers)),
		humanize.Comma(int64(snap.TotalMessages)),
		snap.MemoryUsageHint,
		buildinfo.Version, buildinfo.Commit)
}

func profileText(ev dialog.Event, prof state.Profile, sess *state.Session, now time.Time) string {
	name := prof.DisplayName
	if name == "" {
		name = ev.From.DisplayName()
	}
	username := prof.Username
	if username == "" {
		username = ev.From.Username
	}
	expires := "never"
	if prof.Subscription.ExpiresAt != nil {
		expires = prof.Subscription.ExpiresAt.Format(dateTimeLayout)
	}
	return fmt.Sprintf(`👤 Your profile

🆔 ID: %s
👤 Username: %s
📛 Name: %s

📊 Statistics:
• First seen: %s
• Total messages: %d
• Session messages: %d
• Last activity: %s

⚙️ Settings:
• Notifications: %s
• Theme: %s
• Language: %s

🎫 Subscription:
• Plan: %s
• Features: %s
• Expires: %s`,
		prof.UserID, handle(username), name,
		prof.FirstSeen.Format(dateTimeLayout),
		prof.TotalMessages, sess.MessageCount,
		humanize.RelTime(sess.LastActivity, now, "ago", "from now"),
		onOff(prof.Preferences.NotificationsEnabled),
		prof.Preferences.Theme, prof.Preferences.Language,
		strings.ToUpper(prof.Subscription.Plan),
		strings.Join(prof.Subscription.FeatureList(), ", "),
		expires)
}

func statsText(prof state.Profile, sess *state.Session, snap stats.Snapshot) string {
	return fmt.Sprintf(`📊 Your statistics

👤 Personal:
• Total messages: %d
• Session messages: %d
• With the bot since: %s
• Last activity: %s

🤖 Bot:
• Total users: %d
• Active users: %d
• Total messages: %d
• Uptime: %s`,
		prof.TotalMessages, sess.MessageCount,
		humanize.RelTime(prof.FirstSeen, snap.TakenAt, "ago", "from now"),
		sess.LastActivity.Format(clockLayout),
		snap.TotalUsers, snap.ActiveUsers, snap.TotalMessages, uptime(snap.Uptime))
}

func settingsText(prefs state.Preferences) string {
	return fmt.Sprintf(`%s

Current values:
• 🌐 Language: %s
• 🔔 Notifications: %s
• 🎨 Theme: %s

Choose a setting to change:`,
		textSettingsIntro, prefs.Language, onOff(prefs.NotificationsEnabled), prefs.Theme)
}

func adminText(snap stats.Snapshot, sessions int) string {
	return fmt.Sprintf(`👨‍💼 Admin panel

🔐 System status: ✅ Active
📊 Bot:
• Total users: %d
• Active sessions: %d
• Total messages: %d
• Uptime: %s

Choose an action:`,
		snap.TotalUsers, sessions, snap.TotalMessages, uptime(snap.Uptime))
}

func botStatsText(snap stats.Snapshot) string {
	return fmt.Sprintf(`📈 Bot statistics

• Uptime: %s
• Total users: %d
• Active users (1h): %d
• Total messages: %d
• Heap in use: %s
• Snapshot at: %s`,
		uptime(snap.Uptime), snap.TotalUsers, snap.ActiveUsers, snap.TotalMessages,
		snap.MemoryUsageHint, snap.TakenAt.Format(dateTimeLayout))
}

const usersListLimit = 20

func usersListText(profiles []state.Profile, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👥 Users (%d)\n", len(profiles))
	if len(profiles) == 0 {
		b.WriteString("\nNo users yet.")
		return b.String()
	}
	b.WriteString("\n")
	for i, p := range profiles {
		if i == usersListLimit {
			fmt.Fprintf(&b, "… and %d more\n", len(profiles)-usersListLimit)
			break
		}
		name := p.DisplayName
		if name == "" {
			name = p.UserID
		}
		fmt.Fprintf(&b, "• %s (%s), %d msgs, joined %s\n",
			name, handle(p.Username), p.TotalMessages,
			humanize.RelTime(p.FirstSeen, now, "ago", "from now"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func randomText(n int, at time.Time) string {
	return fmt.Sprintf(`🎲 Random number

🎯 Your number: %d

Range: %d-%d
Drawn at: %s

Want another one?`, n, game.MinTarget, game.MaxTarget, at.Format(clockLayout))
}

func guessIntroText(g game.GuessGame) string {
	return fmt.Sprintf(`🎯 Guess the number

I picked a number from %d to %d.
You have %d attempts.

Attempts used: %d
Attempts left: %d

Send a number in the chat to guess!`,
		game.MinTarget, game.MaxTarget, g.MaxAttempts, g.Attempts, g.Remaining())
}

func guessOutcomeText(out game.Outcome) string {
	switch out.Verdict {
	case game.VerdictWon:
		return fmt.Sprintf(`🎉 Congratulations, you got it!

🎯 The number: %d
📊 Attempts used: %d
⭐ Rating: %s!

Play again?`, out.Target, out.Attempts, capitalize(string(out.Tone)))
	case game.VerdictExhausted:
		return fmt.Sprintf(`😔 Game over!

🎯 The number was: %d
📊 Attempts used: %d

Don't give up, try again!`, out.Target, out.Attempts)
	case game.VerdictHigher, game.VerdictLower:
		return fmt.Sprintf(`🤔 Not quite!

Your guess: %d
The number is %s than %d

Attempts used: %d/%d
Attempts left: %d

Try again!`, out.Guess, out.Verdict, out.Guess, out.Attempts, game.MaxAttempts, out.Remaining)
	case game.VerdictNoGame:
		return "🎮 There is no game in progress. Open /games to start one."
	}
	return textInvalidGuess
}

func echoText(ev dialog.Event, at time.Time) string {
	name := ev.From.FirstName
	if name == "" {
		name = ev.From.DisplayName()
	}
	return fmt.Sprintf(`💬 Message from %s!

📝 Text: %s
🆔 Your ID: %s
👤 Username: %s
📅 Time: %s

ℹ️ Use /help for the command list
🏠 Use /start to return to the main menu`,
		name, ev.Text, ev.SenderID, handle(ev.From.Username), at.Format("02.01.2006 15:04:05"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
