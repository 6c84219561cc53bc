package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/store"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f[username]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

type brokenUsers struct{}

func (brokenUsers) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func TestBcryptHashAndVerify(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, h.Verify(hash, "s3cret"))
	assert.False(t, h.Verify(hash, "S3cret"))
	assert.False(t, h.Verify("not-a-hash", "s3cret"))

	again, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")
}

func TestNewBcryptFallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcrypt(0).cost)
	assert.Equal(t, DefaultCost, NewBcrypt(99).cost)
	assert.Equal(t, 12, NewBcrypt(12).cost)
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	h := NewBcrypt(bcrypt.MinCost)
	hash, err := h.Hash("hunter2")
	require.NoError(t, err)
	users := fakeUsers{"alice": {ID: 1, Username: "alice", PasswordHash: hash, IsAdmin: true}}
	a, err := NewAuthenticator(users, h)
	require.NoError(t, err)
	return a
}

func TestLoginSuccess(t *testing.T) {
	a := newTestAuthenticator(t)
	u, err := a.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.True(t, u.IsAdmin)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	a := newTestAuthenticator(t)
	cases := []struct{ username, password string }{
		{"alice", "wrong"},
		{"bob", "hunter2"},
		{"alice", ""},
		{"", "hunter2"},
	}
	for _, c := range cases {
		u, err := a.Login(context.Background(), c.username, c.password)
		assert.Nil(t, u)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%s/%s", c.username, c.password)
	}
}

func TestLoginStoreFailure(t *testing.T) {
	a, err := NewAuthenticator(brokenUsers{}, NewBcrypt(bcrypt.MinCost))
	require.NoError(t, err)
	_, err = a.Login(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}
