// Package stats derives process-wide counters from the session and profile
// stores on demand. It holds no counters of its own.
package stats

import (
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/m3rciful/maxbot/core/state"
)

// ActiveWindow is how recently a session must have been touched to count as active.
const ActiveWindow = time.Hour

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Uptime        time.Duration
	TotalUsers    int
	ActiveUsers   int
	TotalMessages int
	// MemoryUsageHint is a human-readable heap size, informational only.
	MemoryUsageHint string
	TakenAt         time.Time
}

// Aggregator computes snapshots over the stores.
type Aggregator struct {
	sessions  *state.Sessions
	profiles  *state.Profiles
	startedAt time.Time
	now       state.Clock
	memory    func() uint64
}

// NewAggregator starts the uptime clock. A nil clock defaults to time.Now.
func NewAggregator(sessions *state.Sessions, profiles *state.Profiles, now state.Clock) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		sessions:  sessions,
		profiles:  profiles,
		startedAt: now(),
		now:       now,
		memory:    heapAlloc,
	}
}

func heapAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

// StartedAt returns when the aggregator was created.
func (a *Aggregator) StartedAt() time.Time { return a.startedAt }

// Snapshot reads the stores without mutating them. A session is active when
// its last activity lies in (now-ActiveWindow, now].
func (a *Aggregator) Snapshot() Snapshot {
	now := a.now()
	snap := Snapshot{
		Uptime:          now.Sub(a.startedAt),
		TotalUsers:      a.profiles.Len(),
		MemoryUsageHint: humanize.Bytes(a.memory()),
		TakenAt:         now,
	}
	for _, s := range a.sessions.Snapshot() {
		snap.TotalMessages += s.MessageCount
		if age := now.Sub(s.LastActivity); age >= 0 && age < ActiveWindow {
			snap.ActiveUsers++
		}
	}
	return snap
}
