package store

import (
	"context"

	"github.com/voyagen/tvguide/internal/models"
)

const userColumns = `id, username, email, password_hash, is_admin`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin)
	return u, err
}

// CreateUser inserts a user. Fails with ErrConflict on a taken username.
func (p *Postgres) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, is_admin) VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		in.Username, in.Email, in.PasswordHash, in.IsAdmin,
	))
	if err != nil {
		return nil, classify("CreateUser", err, ErrInvalidReference)
	}
	return &u, nil
}

// ListUsers returns every user ordered by id.
func (p *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	return collect(ctx, p, "ListUsers", `SELECT `+userColumns+` FROM users ORDER BY id`, scanUser)
}

// GetUser returns a user by id.
func (p *Postgres) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, classify("GetUser", err, ErrInvalidReference)
	}
	return &u, nil
}

// GetUserByUsername returns a user by exact username.
func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, classify("GetUserByUsername", err, ErrInvalidReference)
	}
	return &u, nil
}

// UpdateUser sets the non-nil fields of a user. A nil PasswordHash keeps the
// stored hash.
func (p *Postgres) UpdateUser(ctx context.Context, id int64, fields UserUpdate) (*models.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx,
		`UPDATE users SET
		   username = COALESCE($2, username),
		   email = COALESCE($3, email),
		   password_hash = COALESCE($4, password_hash),
		   is_admin = COALESCE($5, is_admin)
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, fields.Username, fields.Email, fields.PasswordHash, fields.IsAdmin,
	))
	if err != nil {
		return nil, classify("UpdateUser", err, ErrInvalidReference)
	}
	return &u, nil
}

// DeleteUser deletes a user.
func (p *Postgres) DeleteUser(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return classify("DeleteUser", err, ErrReferenced)
	}
	if tag.RowsAffected() == 0 {
		return classify("DeleteUser", ErrNotFound, ErrReferenced)
	}
	return nil
}
