// Package state owns per-user conversational state: the ephemeral Session
// store, the longer-lived Profile store, and the per-user lock table that
// serializes all handling for a single user.
//
// Both stores live for the process lifetime. Records are created lazily on
// first access and are never deleted or evicted; Reset exists for tests only.
package state
