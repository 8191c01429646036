package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daveroberts0321/taleblock/internal/domain"
	"github.com/daveroberts0321/taleblock/internal/store"
)

// makeTestUser creates a domain.User with sensible defaults for testing.
func makeTestUser(id, username, email string) *domain.User {
	return &domain.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "c2FsdHNhbHRzYWx0c2FsdGZha2VoYXNoZm9ydGVzdA==",
		CreatedAt:    time.Now(),
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-1", "alice", "alice@example.com")

	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.ID != user.ID {
		t.Errorf("ID: got %q, want %q", got.ID, user.ID)
	}
	if got.Username != user.Username {
		t.Errorf("Username: got %q, want %q", got.Username, user.Username)
	}
	if got.Email != user.Email {
		t.Errorf("Email: got %q, want %q", got.Email, user.Email)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, user.PasswordHash)
	}

	// Timestamps should round-trip through RFC3339Nano.
	if got.CreatedAt.Unix() != user.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, user.CreatedAt)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, "nonexistent")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	if storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected status %d, got %d", store.ErrNotFound.Code, storeErr.Code)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := makeTestUser("user-1", "alice", "alice@example.com")
	if err := s.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	second := makeTestUser("user-2", "alice", "other@example.com")
	err := s.CreateUser(ctx, second)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// No partial row may be left behind.
	if _, err := s.GetUser(ctx, "user-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected user-2 absent, got err %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := makeTestUser("user-1", "alice", "alice@example.com")
	if err := s.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	second := makeTestUser("user-2", "bob", "alice@example.com")
	if err := s.CreateUser(ctx, second); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUserByUsernameAndEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-1", "alice", "alice@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName.ID != "user-1" {
		t.Errorf("got %q, want user-1", byName.ID)
	}

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Errorf("got %q, want user-1", byEmail.ID)
	}
}

func TestGetUserByLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-1", "alice", "alice@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Both username and email resolve to the same user.
	for _, login := range []string{"alice", "alice@example.com"} {
		got, err := s.GetUserByLogin(ctx, login)
		if err != nil {
			t.Fatalf("GetUserByLogin(%q): %v", login, err)
		}
		if got.ID != "user-1" {
			t.Errorf("GetUserByLogin(%q): got %q, want user-1", login, got.ID)
		}
	}

	if _, err := s.GetUserByLogin(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
