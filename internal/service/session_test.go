package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreateAndValidate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerTestUser(t, "keeper")

	token, err := env.sessions.Create(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	got, err := env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "keeper", got.Username)
}

func TestSessionValidate_UnknownToken(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.sessions.Validate(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSessionValidate_EmptyToken(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.sessions.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSessionValidate_Expiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerTestUser(t, "keeper")

	start := time.Now().Truncate(time.Second)
	clock := env.frozenClock(start)

	token, err := env.sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	// One second before expiry the session still validates.
	*clock = start.Add(7*24*time.Hour - time.Second)
	got, err := env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.NotNil(t, got)

	// At the expiry instant it no longer does.
	*clock = start.Add(7 * 24 * time.Hour)
	got, err = env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionDelete_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerTestUser(t, "keeper")

	token, err := env.sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, env.sessions.Delete(ctx, token))

	got, err := env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again, or deleting nonsense, still succeeds.
	require.NoError(t, env.sessions.Delete(ctx, token))
	require.NoError(t, env.sessions.Delete(ctx, "never-issued"))
	require.NoError(t, env.sessions.Delete(ctx, ""))
}

func TestSessionSweepExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerTestUser(t, "keeper")

	start := time.Now().Truncate(time.Second)
	clock := env.frozenClock(start)

	expired1, err := env.sessions.Create(ctx, user.ID)
	require.NoError(t, err)
	expired2, err := env.sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	// A later session that outlives the sweep below.
	*clock = start.Add(time.Hour)
	live, err := env.sessions.Create(ctx, user.ID)
	require.NoError(t, err)

	// Move past the first two expiries but not the third.
	*clock = start.Add(7*24*time.Hour + time.Minute)
	n, err := env.sessions.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, token := range []string{expired1, expired2} {
		got, err := env.sessions.Validate(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	got, err := env.sessions.Validate(ctx, live)
	require.NoError(t, err)
	assert.NotNil(t, got, "unexpired session must survive the sweep")

	// Nothing left to sweep.
	n, err = env.sessions.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
