package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore(openTestDB(t))

	for _, tc := range []struct{ handle, password string }{
		{"alice", "pw1"},
		{"bob", "correct horse battery staple"},
		{"Ünïcode", "pässwörd9"},
	} {
		user, err := store.Register(ctx, tc.handle, tc.password)
		require.NoError(t, err)
		assert.NotEqual(t, tc.password, user.PasswordHash)

		got, err := store.Authenticate(ctx, tc.handle, tc.password)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = store.Authenticate(ctx, tc.handle, tc.password+"x")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestAuthenticateUnknownHandleLooksLikeWrongPassword(t *testing.T) {
	store := NewCredentialStore(openTestDB(t))
	_, err := store.Authenticate(context.Background(), "nobody", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateHandle(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore(openTestDB(t))

	_, err := store.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = store.Register(ctx, " alice ", "pw2")
	assert.ErrorIs(t, err, ErrDuplicateHandle)

	_, err = store.Authenticate(ctx, "alice", "pw1")
	assert.NoError(t, err, "first registration must keep its password")
}

func TestRegisterRequiresHandleAndPassword(t *testing.T) {
	store := NewCredentialStore(openTestDB(t))
	_, err := store.Register(context.Background(), "  ", "pw1")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = store.Register(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore(openTestDB(t))
	user, err := store.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	got, err := store.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = store.Get(ctx, user.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}
