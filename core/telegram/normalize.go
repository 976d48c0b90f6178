package telegram

import (
	"strconv"
	"strings"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// Normalize maps a Telegram update to a dialog event. It reports false for
// updates the dialog layer does not handle (no sender, no text, media).
func Normalize(c tele.Context) (dialog.Event, bool) {
	user := c.Sender()
	if user == nil {
		return dialog.Event{}, false
	}
	ev := dialog.Event{
		SenderID: strconv.FormatInt(user.ID, 10),
		From: dialog.User{
			Username:     user.Username,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			LanguageCode: user.LanguageCode,
		},
		UpdateID: c.Update().ID,
	}
	if chat := c.Chat(); chat != nil {
		ev.ChatID = strconv.FormatInt(chat.ID, 10)
	} else {
		ev.ChatID = ev.SenderID
	}

	if cb := c.Callback(); cb != nil {
		key, payload := callbacks.ParseData(cb.Data)
		if cb.Unique != "" {
			key, payload = cb.Unique, cb.Data
		}
		if key == "" {
			return dialog.Event{}, false
		}
		ev.Kind = dialog.KindCallback
		ev.CallbackData = callbacks.Data(key, payload)
		return ev, true
	}

	msg := c.Message()
	if msg == nil || msg.Text == "" {
		return dialog.Event{}, false
	}
	ev.Text = msg.Text
	ev.Kind = dialog.KindText
	if name, args, ok := ParseCommand(msg.Text); ok {
		ev.Kind = dialog.KindCommand
		ev.Command = name
		ev.Args = args
	}
	return ev, true
}

// ParseCommand splits "/name@bot args" into the lowercased name and the
// trimmed arguments.
func ParseCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || len(text) < 2 {
		return "", "", false
	}
	token, rest, _ := strings.Cut(text, " ")
	token, _, _ = strings.Cut(token[1:], "@")
	if token == "" {
		return "", "", false
	}
	return strings.ToLower(token), strings.TrimSpace(rest), true
}
