package telegram

import (
	"testing"
	"time"

	"github.com/m3rciful/maxbot/core/dialog"

	tele "gopkg.in/telebot.v4"
)

func TestBuildPoller(t *testing.T) {
	lp, ok := BuildPoller(PollerOptions{RunMode: "longpoll"}).(*tele.LongPoller)
	if !ok || lp.Timeout != defaultLongPollTimeout {
		t.Fatalf("unexpected long poller: %#v", lp)
	}
	lp, _ = BuildPoller(PollerOptions{LongPollTimeoutSeconds: 3}).(*tele.LongPoller)
	if lp == nil || lp.Timeout != 3*time.Second {
		t.Fatalf("timeout not applied: %#v", lp)
	}

	wh, ok := BuildPoller(PollerOptions{
		RunMode: "Webhook",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://example.org/hook"},
	}).(*tele.Webhook)
	if !ok || wh.Listen != "0.0.0.0:8443" || wh.Endpoint.PublicURL != "https://example.org/hook" {
		t.Fatalf("unexpected webhook: %#v", wh)
	}
}

func TestMenuCommandsSkipsUndescribed(t *testing.T) {
	got := MenuCommands([]dialog.CommandInfo{
		{Name: "help", Description: "Show help"},
		{Name: "secret"},
	})
	if len(got) != 1 || got[0].Text != "help" {
		t.Fatalf("menu = %+v", got)
	}
}
