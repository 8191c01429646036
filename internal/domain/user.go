package domain

import "time"

// User represents a registered account in the system.
// Username and Email are stored case-normalized to lowercase; uniqueness of
// both is enforced by the storage layer.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	CreatedAt    time.Time `json:"created_at"`
}

// Sanitized returns a copy of the user safe to hand to callers outside the
// core: the password hash is stripped.
func (u *User) Sanitized() *User {
	clean := *u
	clean.PasswordHash = ""
	return &clean
}
