package state

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestSessionsGetOrCreateIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	s := NewSessions(clock.Now)

	first := s.GetOrCreate("u1")
	clock.Advance(time.Minute)
	second := s.GetOrCreate("u1")

	if first != second {
		t.Fatalf("expected the same record on repeated access")
	}
	if first.State != StateIdle || first.MessageCount != 0 {
		t.Fatalf("unexpected fresh session: %+v", first)
	}
	if !first.LastActivity.Equal(clock.t.Add(-time.Minute)) {
		t.Fatalf("GetOrCreate must not touch LastActivity on existing session")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
}

func TestSessionsUpdateTouchesAndCounts(t *testing.T) {
	clock := newFakeClock()
	s := NewSessions(clock.Now)

	clock.Advance(time.Second)
	s.Update("u1", WithState(StateGuessing))
	clock.Advance(time.Second)
	sess := s.Update("u1", Patch{Set: map[string]any{"k": 1}})

	if sess.MessageCount != 2 {
		t.Fatalf("message count = %d, want 2", sess.MessageCount)
	}
	if sess.State != StateGuessing {
		t.Fatalf("state = %q, want guessing", sess.State)
	}
	if !sess.LastActivity.Equal(clock.Now()) {
		t.Fatalf("last activity not refreshed")
	}
	if sess.Data["k"] != 1 {
		t.Fatalf("data not merged: %#v", sess.Data)
	}

	s.Update("u1", Patch{Clear: []string{"k"}})
	if _, ok := sess.Data["k"]; ok {
		t.Fatalf("clear did not remove key")
	}
}

func TestPatchMergeLaterWins(t *testing.T) {
	p := WithState(StateGuessing)
	p.Set = map[string]any{"a": 1, "b": 2}
	q := WithState(StateIdle)
	q.Clear = []string{"a"}

	m := p.Merge(q)
	if *m.State != StateIdle {
		t.Fatalf("state = %q, want idle", *m.State)
	}
	if _, ok := m.Set["a"]; ok {
		t.Fatalf("cleared key must not stay in Set")
	}
	if m.Set["b"] != 2 {
		t.Fatalf("unrelated key lost: %#v", m.Set)
	}
}

func TestSessionsSnapshotAndReset(t *testing.T) {
	s := NewSessions(nil)
	s.Update("a", Patch{})
	s.Update("b", Patch{})
	s.Update("b", Patch{})

	total := 0
	for _, v := range s.Snapshot() {
		total += v.MessageCount
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}

	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("reset left %d sessions", s.Len())
	}
	if _, ok := s.Lookup("a"); ok {
		t.Fatalf("lookup after reset found a session")
	}
}

func TestProfilesDefaultsAndNoCounters(t *testing.T) {
	clock := newFakeClock()
	p := NewProfiles(clock.Now)

	prof := p.GetOrCreate("u1")
	if prof.Preferences.Language != "ru" || !prof.Preferences.NotificationsEnabled || prof.Preferences.Theme != "light" {
		t.Fatalf("unexpected preferences: %+v", prof.Preferences)
	}
	if prof.Subscription.Plan != "free" || prof.Subscription.ExpiresAt != nil {
		t.Fatalf("unexpected subscription: %+v", prof.Subscription)
	}
	if got := prof.Subscription.FeatureList(); len(got) != 1 || got[0] != FeatureBasicMessaging {
		t.Fatalf("features = %v", got)
	}

	clock.Advance(time.Hour)
	name := "Ann"
	p.Update("u1", ProfilePatch{DisplayName: &name})
	p.Update("u1", ProfilePatch{})

	if prof.TotalMessages != 0 {
		t.Fatalf("profile update must not increment counters, got %d", prof.TotalMessages)
	}
	if prof.DisplayName != "Ann" {
		t.Fatalf("display name = %q", prof.DisplayName)
	}
	if !prof.FirstSeen.Equal(clock.Now().Add(-time.Hour)) {
		t.Fatalf("first seen must be fixed at creation")
	}

	n := prof.TotalMessages + 1
	p.Update("u1", ProfilePatch{TotalMessages: &n})
	if prof.TotalMessages != 1 {
		t.Fatalf("explicit counter update ignored")
	}
}

func TestProfilesSnapshotOrder(t *testing.T) {
	clock := newFakeClock()
	p := NewProfiles(clock.Now)
	p.GetOrCreate("late")
	clock.Advance(-time.Minute)
	p.GetOrCreate("early")

	snap := p.Snapshot()
	if len(snap) != 2 || snap[0].UserID != "early" {
		t.Fatalf("unexpected order: %+v", snap)
	}
	p.Reset()
	if p.Len() != 0 {
		t.Fatalf("reset left %d profiles", p.Len())
	}
}
