package state

import (
	"sync"
	"time"
)

// State identifies the conversational mode of a user.
type State string

const (
	// StateIdle indicates there is no active conversation flow.
	StateIdle State = "idle"
	// StateGuessing indicates an active number-guessing game.
	StateGuessing State = "guessing"
)

// Clock returns the current time; stores and stats accept one for tests.
type Clock func() time.Time

// Session is the ephemeral per-user record.
type Session struct {
	State State
	// Data holds opaque per-feature payloads keyed by feature name.
	Data         map[string]any
	LastActivity time.Time
	MessageCount int
}

// Patch is a partial session update. Nil or empty fields are left untouched.
type Patch struct {
	State *State
	Set   map[string]any
	Clear []string
}

// WithState returns a patch that only switches the state.
func WithState(st State) Patch {
	return Patch{State: &st}
}

// Merge combines two patches; fields of q win over p.
func (p Patch) Merge(q Patch) Patch {
	out := Patch{State: p.State}
	if q.State != nil {
		out.State = q.State
	}
	out.Clear = append(append([]string(nil), p.Clear...), q.Clear...)
	if len(p.Set)+len(q.Set) > 0 {
		out.Set = make(map[string]any, len(p.Set)+len(q.Set))
		for k, v := range p.Set {
			out.Set[k] = v
		}
		for _, k := range q.Clear {
			delete(out.Set, k)
		}
		for k, v := range q.Set {
			out.Set[k] = v
		}
	}
	return out
}

// SessionView is a read-only copy of the counters used for aggregation.
type SessionView struct {
	UserID       string
	State        State
	LastActivity time.Time
	MessageCount int
}

// Sessions maps user ids to Session records.
type Sessions struct {
	mu    sync.RWMutex
	items map[string]*Session
	now   Clock
}

// NewSessions creates an empty store. A nil clock defaults to time.Now.
func NewSessions(now Clock) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{items: make(map[string]*Session), now: now}
}

// GetOrCreate returns the shared record for userID, creating an idle session
// on first access. Callers must hold the user's lock from Locks while reading
// or mutating the returned record.
func (s *Sessions) GetOrCreate(userID string) *Session {
	s.mu.RLock()
	sess, ok := s.items[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.items[userID]; ok {
		return sess
	}
	sess = &Session{
		State:        StateIdle,
		Data:         make(map[string]any),
		LastActivity: s.now(),
	}
	s.items[userID] = sess
	return sess
}

// Lookup returns the session without creating it.
func (s *Sessions) Lookup(userID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.items[userID]
	return sess, ok
}

// Update merges p into the user's session, refreshes LastActivity and
// increments MessageCount.
func (s *Sessions) Update(userID string, p Patch) *Session {
	sess := s.GetOrCreate(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.State != nil {
		sess.State = *p.State
	}
	for _, key := range p.Clear {
		delete(sess.Data, key)
	}
	for key, val := range p.Set {
		sess.Data[key] = val
	}
	sess.LastActivity = s.now()
	sess.MessageCount++
	return sess
}

// Snapshot copies the aggregate fields of every session.
func (s *Sessions) Snapshot() []SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionView, 0, len(s.items))
	for id, sess := range s.items {
		out = append(out, SessionView{
			UserID:       id,
			State:        sess.State,
			LastActivity: sess.LastActivity,
			MessageCount: sess.MessageCount,
		})
	}
	return out
}

// Len returns the number of sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Reset drops every session. Tests only.
func (s *Sessions) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*Session)
}
