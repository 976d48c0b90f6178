package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrLockTimeout is returned when a user's lock could not be acquired before
// the context ended.
var ErrLockTimeout = errors.New("state: user lock wait aborted")

type lockEntry struct {
	slot chan struct{}
	refs int
}

// Locks is a per-user mutual exclusion table. Events for one user are
// serialized while different users proceed in parallel. Entries are
// reference-counted and removed once nobody holds or waits on them.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

// NewLocks creates an empty lock table.
func NewLocks() *Locks {
	return &Locks{entries: make(map[string]*lockEntry)}
}

// Lock blocks until the user's lock is held or ctx is done. The returned
// function releases the lock and must be called exactly once.
func (l *Locks) Lock(ctx context.Context, userID string) (func(), error) {
	e := l.acquire(userID)
	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		l.release(userID, e)
		return nil, fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.slot
			l.release(userID, e)
		})
	}, nil
}

func (l *Locks) acquire(userID string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[userID]
	if !ok {
		e = &lockEntry{slot: make(chan struct{}, 1)}
		l.entries[userID] = e
	}
	e.refs++
	return e
}

func (l *Locks) release(userID string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, userID)
	}
}

// Held reports how many users currently hold or wait on a lock.
func (l *Locks) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
