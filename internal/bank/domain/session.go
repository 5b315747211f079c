package domain

import "time"

// Session models a stored login session. Only the SHA-256 fingerprint of the
// opaque token is persisted; the raw token lives solely with the client.
//
// A session is valid while now - CreatedAt < TTL. Expiry is logical: a row
// that has crossed the window is invalid even before the cleanup job has
// physically deleted it.
type Session struct {
	ID        string
	TokenHash string // base64url SHA-256 fingerprint of the opaque token
	UserID    string
	CreatedAt time.Time
}

// ExpiresAt returns the instant the session stops validating for the given
// window.
func (s Session) ExpiresAt(ttl time.Duration) time.Time {
	return s.CreatedAt.Add(ttl)
}

// Expired reports whether the session has crossed the validity window at now.
func (s Session) Expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(s.ExpiresAt(ttl))
}
