package sqlite

import (
	"context"
	"database/sql"

	"github.com/daveroberts0321/taleblock/internal/domain"
	"github.com/daveroberts0321/taleblock/internal/store"
)

// CreateSession inserts a new session into the database.
// Returns store.ErrAlreadyExists on a token collision, which with 256-bit
// tokens indicates a broken random source rather than bad luck.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)`,
		session.Token,
		session.UserID,
		session.ExpiresAt,
		formatTime(session.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetSessionUser resolves a session token to its user in a single join,
// succeeding only while expires_at > now. Unknown and expired tokens are
// indistinguishable: both return store.ErrNotFound.
func (s *Store) GetSessionUser(ctx context.Context, token string, now int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?`,
		token, now)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteSession removes a session by token. Idempotent: deleting an absent
// token is not an error.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// DeleteExpiredSessions removes all sessions with expires_at < now and
// returns the number removed. Safe to run concurrently with validation:
// the strict < predicate never matches a session that still validates.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now int64) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
