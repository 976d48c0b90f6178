package state

import (
	"sort"
	"sync"
	"time"
)

// Preferences are user-tunable presentation settings.
type Preferences struct {
	Language             string
	NotificationsEnabled bool
	Theme                string
}

// Subscription describes the plan a user is on.
type Subscription struct {
	Plan string
	// ExpiresAt is nil for plans without expiry.
	ExpiresAt *time.Time
	Features  map[string]struct{}
}

// FeatureList returns the feature set in sorted order.
func (s Subscription) FeatureList() []string {
	out := make([]string, 0, len(s.Features))
	for f := range s.Features {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Profile is the longer-lived per-user identity and preference record.
type Profile struct {
	UserID    string
	FirstSeen time.Time
	// TotalMessages is caller-managed; the store never increments it.
	TotalMessages int
	Preferences   Preferences
	Subscription  Subscription
	DisplayName   string
	Username      string
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	DisplayName   *string
	Username      *string
	TotalMessages *int
	Preferences   *Preferences
	Subscription  *Subscription
}

const (
	defaultLanguage = "ru"
	defaultTheme    = "light"
	defaultPlan     = "free"
	// FeatureBasicMessaging is granted to every new profile.
	FeatureBasicMessaging = "basic_messaging"
)

// Profiles maps user ids to Profile records.
type Profiles struct {
	mu    sync.RWMutex
	items map[string]*Profile
	now   Clock
}

// NewProfiles creates an empty store. A nil clock defaults to time.Now.
func NewProfiles(now Clock) *Profiles {
	if now == nil {
		now = time.Now
	}
	return &Profiles{items: make(map[string]*Profile), now: now}
}

func (p *Profiles) newProfile(userID string) *Profile {
	return &Profile{
		UserID:    userID,
		FirstSeen: p.now(),
		Preferences: Preferences{
			Language:             defaultLanguage,
			NotificationsEnabled: true,
			Theme:                defaultTheme,
		},
		Subscription: Subscription{
			Plan:     defaultPlan,
			Features: map[string]struct{}{FeatureBasicMessaging: {}},
		},
	}
}

// GetOrCreate returns the shared profile for userID, creating it with
// defaults on first access. FirstSeen is fixed at creation.
func (p *Profiles) GetOrCreate(userID string) *Profile {
	p.mu.RLock()
	prof, ok := p.items[userID]
	p.mu.RUnlock()
	if ok {
		return prof
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if prof, ok := p.items[userID]; ok {
		return prof
	}
	prof = p.newProfile(userID)
	p.items[userID] = prof
	return prof
}

// Update merges patch into the user's profile without touching any counter
// the patch does not name.
func (p *Profiles) Update(userID string, patch ProfilePatch) *Profile {
	prof := p.GetOrCreate(userID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if patch.DisplayName != nil {
		prof.DisplayName = *patch.DisplayName
	}
	if patch.Username != nil {
		prof.Username = *patch.Username
	}
	if patch.TotalMessages != nil {
		prof.TotalMessages = *patch.TotalMessages
	}
	if patch.Preferences != nil {
		prof.Preferences = *patch.Preferences
	}
	if patch.Subscription != nil {
		prof.Subscription = *patch.Subscription
	}
	return prof
}

// Snapshot returns copies of every profile ordered by FirstSeen.
func (p *Profiles) Snapshot() []Profile {
	p.mu.RLock()
	out := make([]Profile, 0, len(p.items))
	for _, prof := range p.items {
		out = append(out, *prof)
	}
	p.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].FirstSeen.Equal(out[j].FirstSeen) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].FirstSeen.Before(out[j].FirstSeen)
	})
	return out
}

// Len returns the number of profiles.
func (p *Profiles) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// Reset drops every profile. Tests only.
func (p *Profiles) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = make(map[string]*Profile)
}
