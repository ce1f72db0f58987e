package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/photostore/pkg/session"
)

func TestSessionState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		session       *session.Session
		authenticated bool
		expired       bool
	}{
		{"anonymous", session.New("id", "tok", "", time.Hour), false, false},
		{"authenticated", session.New("id", "tok", "user-1", time.Hour), true, false},
		{"expired", session.New("id", "tok", "user-1", -time.Second), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.authenticated, tt.session.IsAuthenticated())
			assert.Equal(t, tt.expired, tt.session.IsExpired())
		})
	}

	var nilSession *session.Session
	assert.False(t, nilSession.IsAuthenticated())
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()
		s := session.New("id-1", "token-1", "user-1", time.Hour)
		require.NoError(t, store.Create(ctx, s))

		got, err := store.Get(ctx, "token-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "id-1", got.ID)

		require.NoError(t, store.Delete(ctx, "token-1"))
		_, err = store.Get(ctx, "token-1")
		require.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("expired session", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()
		require.NoError(t, store.Create(ctx, session.New("id", "old", "user-1", -time.Minute)))

		_, err := store.Get(ctx, "old")
		require.ErrorIs(t, err, session.ErrExpired)
		_, err = store.Get(ctx, "old")
		require.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()
		require.ErrorIs(t, store.Create(ctx, &session.Session{}), session.ErrInvalidToken)
		_, err := store.Get(ctx, "")
		require.ErrorIs(t, err, session.ErrInvalidToken)
	})

	t.Run("returned session is a copy", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()
		require.NoError(t, store.Create(ctx, session.New("id", "tok", "user-1", time.Hour)))

		got, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		got.UserID = "someone-else"

		again, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "user-1", again.UserID)
	})
}
