package keyboard

import (
	"github.com/m3rciful/maxbot/core/dialog"

	tele "gopkg.in/telebot.v4"
)

// Inline renders a dialog keyboard as a Telegram inline keyboard. Button
// data is sent as-is so that callbacks round-trip to the same routing key.
func Inline(kb *dialog.Keyboard) *tele.ReplyMarkup {
	if kb == nil || len(kb.Rows) == 0 {
		return nil
	}
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Text, Data: btn.Data}
		}
		inline = append(inline, r)
	}
	markup.InlineKeyboard = inline
	return markup
}
