package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("conflicts with an existing record")
	// ErrReferenced is returned when a delete is blocked by rows that still
	// reference the record (foreign keys are ON DELETE RESTRICT).
	ErrReferenced = errors.New("record is still referenced")
	// ErrInvalidReference is returned when a write points a foreign key at a
	// row that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// classify wraps err for op, mapping no-rows and constraint violations to
// the store sentinels. onForeignKey is the sentinel to use for a foreign key
// violation, which means different things for deletes and for writes.
func classify(op string, err error, onForeignKey error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, onForeignKey, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
