package routes

import (
	"context"
	"errors"
	"testing"

	"github.com/m3rciful/maxbot/core/dialog"

	tele "gopkg.in/telebot.v4"
)

type fakeRouter struct {
	events []dialog.Event
	reply  []dialog.OutboundCommand
	err    error
}

func (f *fakeRouter) Dispatch(_ context.Context, ev dialog.Event) ([]dialog.OutboundCommand, error) {
	f.events = append(f.events, ev)
	return f.reply, f.err
}

type fakeDeliverer struct {
	origin tele.Editable
	cmds   []dialog.OutboundCommand
	calls  int
}

func (f *fakeDeliverer) Deliver(_ context.Context, origin tele.Editable, cmds []dialog.OutboundCommand) error {
	f.calls++
	f.origin = origin
	f.cmds = cmds
	return nil
}

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("new bot: %v", err)
	}
	return b
}

func TestOnTextDispatchesAndDelivers(t *testing.T) {
	router := &fakeRouter{reply: []dialog.OutboundCommand{{ChatID: "5", Text: "hi"}}}
	out := &fakeDeliverer{}
	br := New(context.Background(), router, out)

	c := offlineBot(t).NewContext(tele.Update{ID: 1, Message: &tele.Message{
		Text:   "/start",
		Sender: &tele.User{ID: 5},
		Chat:   &tele.Chat{ID: 5},
	}})
	if err := br.OnText(c); err != nil {
		t.Fatalf("on text: %v", err)
	}
	if len(router.events) != 1 || router.events[0].Command != "start" {
		t.Fatalf("events = %+v", router.events)
	}
	if out.calls != 1 || out.origin != nil || len(out.cmds) != 1 {
		t.Fatalf("delivery = %+v", out)
	}
}

func TestOnTextIgnoresUpdatesWithoutText(t *testing.T) {
	router := &fakeRouter{}
	out := &fakeDeliverer{}
	br := New(context.Background(), router, out)

	c := offlineBot(t).NewContext(tele.Update{ID: 2, Message: &tele.Message{
		Sender: &tele.User{ID: 5},
		Chat:   &tele.Chat{ID: 5},
	}})
	if err := br.OnText(c); err != nil {
		t.Fatalf("on text: %v", err)
	}
	if len(router.events) != 0 || out.calls != 0 {
		t.Fatalf("expected nothing dispatched, got %d events, %d deliveries", len(router.events), out.calls)
	}
}

func TestDispatchErrorStillDeliversPartialReplies(t *testing.T) {
	router := &fakeRouter{
		reply: []dialog.OutboundCommand{{ChatID: "5", Text: "partial"}},
		err:   errors.New("boom"),
	}
	out := &fakeDeliverer{}
	br := New(context.Background(), router, out)

	c := offlineBot(t).NewContext(tele.Update{ID: 3, Message: &tele.Message{
		Text:   "hello",
		Sender: &tele.User{ID: 5},
		Chat:   &tele.Chat{ID: 5},
	}})
	if err := br.OnText(c); err != nil {
		t.Fatalf("on text: %v", err)
	}
	if out.calls != 1 || out.cmds[0].Text != "partial" {
		t.Fatalf("delivery = %+v", out)
	}
}

func TestRoutesCoverTextAndCallbacks(t *testing.T) {
	br := New(context.Background(), &fakeRouter{}, &fakeDeliverer{})
	got := map[any]bool{}
	for _, r := range br.Routes() {
		got[r.Endpoint] = r.Handler != nil
	}
	if !got[tele.OnText] || !got[tele.OnCallback] {
		t.Fatalf("routes = %+v", got)
	}
}
