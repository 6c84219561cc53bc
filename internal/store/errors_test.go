package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyNoRows(t *testing.T) {
	err := classify("GetChannel", fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrInvalidReference)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "GetChannel")
}

func TestClassifyUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_username_key"}
	err := classify("CreateUser", pgErr, ErrInvalidReference)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "users_username_key")
}

func TestClassifyForeignKeyOnDelete(t *testing.T) {
	pgErr := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "programs_channel_id_fkey"}
	err := classify("DeleteChannel", pgErr, ErrReferenced)
	require.ErrorIs(t, err, ErrReferenced)
	assert.False(t, errors.Is(err, ErrInvalidReference))
}

func TestClassifyForeignKeyOnWrite(t *testing.T) {
	pgErr := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "programs_type_id_fkey"}
	err := classify("CreateProgram", pgErr, ErrInvalidReference)
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestClassifyPassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	err := classify("ListChannels", boom, ErrReferenced)
	require.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "ListChannels: connection reset", err.Error())
}
