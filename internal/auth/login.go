package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/store"
)

// ErrInvalidCredentials is returned for an unknown username and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserLookup finds users by username.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticator checks username/password pairs against stored hashes.
type Authenticator struct {
	users  UserLookup
	hasher Hasher
	// decoy is verified against when the user does not exist, so both
	// failure paths cost one hash comparison.
	decoy string
}

// NewAuthenticator returns an Authenticator.
func NewAuthenticator(users UserLookup, hasher Hasher) (*Authenticator, error) {
	decoy, err := hasher.Hash("decoy-password")
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}
	return &Authenticator{users: users, hasher: hasher, decoy: decoy}, nil
}

// Login returns the user when password matches the stored hash. Unknown
// users and wrong passwords both fail with ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.hasher.Verify(a.decoy, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !a.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
