package domain

import "time"

// SessionDuration is how long a newly created session stays valid.
const SessionDuration = 7 * 24 * time.Hour

// Session maps an opaque bearer token to a user with an expiry.
// The token is the primary key; ExpiresAt is a unix timestamp so the expiry
// comparison runs inside a single SQL predicate.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt int64     `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsValid reports whether the session has not expired at the given instant.
// Uses strict expires_at > now, matching the storage-layer lookup and the
// sweep predicate (expires_at < now), so a session is never both valid and
// sweepable.
func (s *Session) IsValid(now time.Time) bool {
	return s.ExpiresAt > now.Unix()
}
