package maxbot

import "github.com/m3rciful/maxbot/core/dialog"

// Callback payloads. Quiz, tic-tac-toe, bot management and bot logs are
// advertised in menus but have no handler and are dropped by the router.
const (
	cbMainMenu      = "main_menu"
	cbStats         = "stats"
	cbSettings      = "settings"
	cbGames         = "games"
	cbHelp          = "help"
	cbAdmin         = "admin"
	cbRandomNumber  = "random_number"
	cbGuessNumber   = "guess_number"
	cbGuessNew      = "guess_number_new"
	cbQuiz          = "quiz"
	cbTicTacToe     = "tic_tac_toe"
	cbLangSettings  = "lang_settings"
	cbNotifSettings = "notif_settings"
	cbThemeSettings = "theme_settings"
	cbBotStats      = "bot_stats"
	cbUsersList     = "users_list"
	cbBotManagement = "bot_management"
	cbBotLogs       = "bot_logs"
)

func mainMenu() *dialog.Keyboard {
	return dialog.NewKeyboard(
		dialog.Row(dialog.Btn("📊 Stats", cbStats), dialog.Btn("⚙️ Settings", cbSettings)),
		dialog.Row(dialog.Btn("🎮 Games", cbGames), dialog.Btn("📚 Help", cbHelp)),
		dialog.Row(dialog.Btn("🔧 Admin", cbAdmin)),
	)
}

func settingsMenu() *dialog.Keyboard {
	return dialog.NewKeyboard(
		dialog.Row(dialog.Btn("🌐 Language", cbLangSettings)),
		dialog.Row(dialog.Btn("🔔 Notifications", cbNotifSettings)),
		dialog.Row(dialog.Btn("🎨 Theme", cbThemeSettings)),
		dialog.Row(backToMain()),
	)
}

func gamesMenu() *dialog.Keyboard {
	return dialog.NewKeyboard(
		dialog.Row(dialog.Btn("🎲 Random number", cbRandomNumber)),
		dialog.Row(dialog.Btn("🎯 Guess the number", cbGuessNumber)),
		dialog.Row(dialog.Btn("📝 Quiz", cbQuiz)),
		dialog.Row(dialog.Btn("🎮 Tic-tac-toe", cbTicTacToe)),
		dialog.Row(backToMain()),
	)
}

func adminMenu() *dialog.Keyboard {
	return dialog.NewKeyboard(
		dialog.Row(dialog.Btn("📈 Bot stats", cbBotStats)),
		dialog.Row(dialog.Btn("👥 Users", cbUsersList)),
		dialog.Row(dialog.Btn("🔧 Management", cbBotManagement)),
		dialog.Row(dialog.Btn("📊 Logs", cbBotLogs)),
		dialog.Row(backToMain()),
	)
}

func backOnly() *dialog.Keyboard {
	return dialog.NewKeyboard(dialog.Row(backToMain()))
}

func backToAdmin() *dialog.Keyboard {
	return dialog.NewKeyboard(dialog.Row(dialog.Btn("⬅️ Back", cbAdmin)))
}

func randomMenu() *dialog.Keyboard {
	return dialog.NewKeyboard(
		dialog.Row(dialog.Btn("🎲 Another one", cbRandomNumber)),
		dialog.Row(backToGames()),
	)
}

func guessMenu() *dialog.Keyboard {
	return dialog.NewKeyboard(
		dialog.Row(dialog.Btn("🔄 New game", cbGuessNew)),
		dialog.Row(backToGames()),
	)
}

func gameOverMenu() *dialog.Keyboard {
	return dialog.NewKeyboard(
		dialog.Row(dialog.Btn("🎮 Play again", cbGuessNumber)),
		dialog.Row(backToGames()),
	)
}

func backToMain() dialog.Button {
	return dialog.Btn("⬅️ Back", cbMainMenu)
}

func backToGames() dialog.Button {
	return dialog.Btn("⬅️ Back to games", cbGames)
}
