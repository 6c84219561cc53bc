package service

import (
	"context"
	"strings"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/notify"
	"github.com/voyagen/tvguide/internal/store"
)

// NewUser holds the fields of a new user, with the plaintext password.
type NewUser struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

// UserChanges holds a partial user update. A nil or empty Password keeps
// the stored hash.
type UserChanges struct {
	Username *string
	Email    *string
	Password *string
	IsAdmin  *bool
}

// CreateUser hashes the password and stores the user.
func (c *Catalog) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Username == "":
		return nil, invalid("username is required")
	case in.Email == "":
		return nil, invalid("email is required")
	case in.Password == "":
		return nil, invalid("password is required")
	}
	hash, err := c.hasher.Hash(in.Password)
	if err != nil {
		return nil, invalid("password: %v", err)
	}
	u, err := c.store.CreateUser(ctx, store.UserInput{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	c.changed(ctx, notify.UsersUpdated)
	return u, nil
}

// ListUsers returns every user.
func (c *Catalog) ListUsers(ctx context.Context) ([]models.User, error) {
	return c.store.ListUsers(ctx)
}

// GetUser returns one user.
func (c *Catalog) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return c.store.GetUser(ctx, id)
}

// UpdateUser applies a partial update, rehashing only when a new password
// is supplied.
func (c *Catalog) UpdateUser(ctx context.Context, id int64, in UserChanges) (*models.User, error) {
	fields := store.UserUpdate{IsAdmin: in.IsAdmin}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, invalid("username cannot be empty")
		}
		fields.Username = &username
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, invalid("email cannot be empty")
		}
		fields.Email = &email
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := c.hasher.Hash(*in.Password)
		if err != nil {
			return nil, invalid("password: %v", err)
		}
		fields.PasswordHash = &hash
	}
	u, err := c.store.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	c.changed(ctx, notify.UsersUpdated)
	return u, nil
}

// DeleteUser removes a user.
func (c *Catalog) DeleteUser(ctx context.Context, id int64) error {
	if err := c.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	c.changed(ctx, notify.UsersUpdated)
	return nil
}

// Login checks credentials. Unknown users and wrong passwords both fail with
// auth.ErrInvalidCredentials.
func (c *Catalog) Login(ctx context.Context, username, password string) (*models.User, error) {
	return c.auth.Login(ctx, username, password)
}
