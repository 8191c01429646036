package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/daveroberts0321/taleblock/internal/auth"
	"github.com/daveroberts0321/taleblock/internal/domain"
	domainerrors "github.com/daveroberts0321/taleblock/internal/errors"
	"github.com/daveroberts0321/taleblock/internal/store"
)

// SessionService manages the lifecycle of opaque session tokens.
// A token is valid from creation until its expiry passes or it is deleted;
// there is no refresh, a new login creates a new session.
type SessionService struct {
	store    store.Store
	logger   *slog.Logger
	duration time.Duration

	// now is the clock used for expiry decisions; tests override it.
	now func() time.Time
}

// NewSessionService creates a new session management service.
// A non-positive duration falls back to domain.SessionDuration (7 days).
func NewSessionService(store store.Store, duration time.Duration, logger *slog.Logger) *SessionService {
	if duration <= 0 {
		duration = domain.SessionDuration
	}
	return &SessionService{
		store:    store,
		logger:   logger,
		duration: duration,
		now:      time.Now,
	}
}

// Create generates a fresh token and persists a session for the user.
// Returns the token; the caller hands it to the HTTP layer for the cookie.
func (s *SessionService) Create(ctx context.Context, userID string) (string, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.duration).Unix(),
		CreatedAt: now,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", domainerrors.Storage(err)
	}
	return token, nil
}

// Validate resolves a token to its user. A missing, unknown, or expired
// token returns (nil, nil); absence of a session is a normal outcome, not
// an error. Errors are reserved for storage failures.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	user, err := s.store.GetSessionUser(ctx, token, s.now().Unix())
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, domainerrors.Storage(err)
	}
	return user, nil
}

// Delete removes a session by token. Idempotent: succeeds even if the
// token is unknown or already deleted.
func (s *SessionService) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return domainerrors.Storage(err)
	}
	return nil
}

// SweepExpired removes all sessions whose expiry has passed and returns the
// count removed. The sweep and Validate share the same timestamp semantics,
// so a session that still validates is never swept.
func (s *SessionService) SweepExpired(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, s.now().Unix())
	if err != nil {
		return 0, domainerrors.Storage(err)
	}
	if n > 0 && s.logger != nil {
		s.logger.Info("Swept expired sessions", "count", n)
	}
	return n, nil
}
