package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daveroberts0321/taleblock/internal/domain"
	"github.com/daveroberts0321/taleblock/internal/store"
	"github.com/daveroberts0321/taleblock/internal/store/sqlite"
)

// testEnv wires the services against a real temporary SQLite store.
type testEnv struct {
	store    store.Store
	sessions *SessionService
	auth     *AuthService
	stories  *StoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	sessions := NewSessionService(s, domain.SessionDuration, logger)
	return &testEnv{
		store:    s,
		sessions: sessions,
		auth:     NewAuthService(s, sessions, logger),
		stories:  NewStoryService(s, logger),
	}
}

// registerTestUser creates an account and returns the sanitized user.
func (env *testEnv) registerTestUser(t *testing.T, username string) *domain.User {
	t.Helper()

	user, err := env.auth.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "a sturdy passphrase",
	})
	require.NoError(t, err)
	return user
}

// createTestStory creates a story for the user, published by default.
func (env *testEnv) createTestStory(t *testing.T, authorID string, publish bool) *domain.Story {
	t.Helper()

	story, err := env.stories.Create(context.Background(), authorID, CreateStoryRequest{
		Title:   "The Lighthouse",
		Content: "The keeper climbed the stairs every night without fail.",
		Publish: publish,
	})
	require.NoError(t, err)
	return story
}

// frozenClock pins the session clock to a fixed instant that tests can move.
func (env *testEnv) frozenClock(start time.Time) *time.Time {
	now := start
	env.sessions.now = func() time.Time { return now }
	return &now
}
