package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/daveroberts0321/taleblock/internal/auth"
	"github.com/daveroberts0321/taleblock/internal/domain"
	domainerrors "github.com/daveroberts0321/taleblock/internal/errors"
	"github.com/daveroberts0321/taleblock/internal/id"
	"github.com/daveroberts0321/taleblock/internal/store"
)

// AuthService handles registration, login, logout, and session checks.
// Session persistence is delegated to SessionService.
type AuthService struct {
	store    store.Store
	sessions *SessionService
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, sessions *SessionService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// AuthenticatedContext carries the validated user for a request.
// It is produced only by RequireAuthenticated; holding one is the single
// representation of "logged in" above the core.
type AuthenticatedContext struct {
	User *domain.User
}

// RegisterRequest contains new account data.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains user credentials. Login accepts a username or an
// email address.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult contains the session token and user data after a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates a new user account.
// Username and email are normalized to lowercase before the insert. The
// insert itself arbitrates uniqueness. No check-then-insert, so two
// concurrent registrations of the same name race on the database constraint
// and exactly one wins.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid password")
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, domainerrors.Storage(err)
	}

	user := &domain.User{
		ID:           userID,
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("username or email already exists")
		}
		return nil, domainerrors.Storage(err)
	}

	if s.logger != nil {
		s.logger.Info("User registered",
			"user_id", userID,
			"username", user.Username,
		)
	}

	return user.Sanitized(), nil
}

// Login authenticates a user by username or email and creates a session.
// An unknown login and a wrong password produce the same error, so the
// response never reveals which one was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	login := strings.ToLower(strings.TrimSpace(req.Login))

	user, err := s.store.GetUserByLogin(ctx, login)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, domainerrors.Storage(err)
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &LoginResult{
		Token: token,
		User:  user.Sanitized(),
	}, nil
}

// Logout deletes the session for the given token.
// Always succeeds, even if the token is already invalid.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// RequireAuthenticated validates a session token and returns the
// authenticated context. Fails with Unauthenticated for missing, unknown,
// or expired tokens; the caller decides whether that becomes a redirect or
// a 401.
func (s *AuthService) RequireAuthenticated(ctx context.Context, token string) (*AuthenticatedContext, error) {
	user, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.Unauthenticated("authentication required")
	}
	return &AuthenticatedContext{User: user.Sanitized()}, nil
}
