package keyboard

import (
	"testing"

	"github.com/m3rciful/maxbot/core/dialog"
)

func TestInline(t *testing.T) {
	kb := dialog.NewKeyboard(
		dialog.Row(dialog.Btn("A", "a"), dialog.Btn("B", "b")),
		dialog.Row(),
		dialog.Row(dialog.Btn("C", "c")),
	)
	m := Inline(kb)
	if m == nil || len(m.InlineKeyboard) != 2 {
		t.Fatalf("unexpected markup: %+v", m)
	}
	if got := m.InlineKeyboard[0][1]; got.Text != "B" || got.Data != "b" {
		t.Fatalf("button = %+v", got)
	}
	if Inline(nil) != nil {
		t.Fatalf("nil keyboard should render nil markup")
	}
}
