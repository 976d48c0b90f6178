package telegram

import (
	"context"
	"log/slog"

	"github.com/m3rciful/maxbot/core/dialog"
	"github.com/m3rciful/maxbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// MenuCommands converts registered commands into the Telegram menu list.
// Commands without a description are skipped since Telegram rejects them.
func MenuCommands(cmds []dialog.CommandInfo) []tele.Command {
	out := make([]tele.Command, 0, len(cmds))
	for _, c := range cmds {
		if c.Description == "" {
			continue
		}
		out = append(out, tele.Command{Text: c.Name, Description: c.Description})
	}
	return out
}

// SetupCommands publishes the command menu shown by Telegram clients.
func SetupCommands(ctx context.Context, bot *tele.Bot, cmds []dialog.CommandInfo) {
	list := MenuCommands(cmds)
	if len(list) == 0 {
		return
	}
	if err := bot.SetCommands(list); err != nil {
		logger.Error(ctx, "tg.wire", "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
		return
	}
	logger.Info(ctx, "tg.wire", "register.commands",
		slog.Int("commands", len(list)),
	)
}
