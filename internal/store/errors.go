package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a component, function or parameter does not exist
	ErrNotFound = errors.New("record not found")

	// ErrUnknownType is returned when a parameter names a type that is not registered
	ErrUnknownType = errors.New("unknown parameter type")

	// ErrConflict is returned when a unique constraint is violated
	ErrConflict = errors.New("record already exists")

	// ErrInvalid is returned when a row breaks a check or not-null constraint
	ErrInvalid = errors.New("invalid record")
)

// ConvertDBError maps driver errors to the store's sentinel errors.
func ConvertDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Detail)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.Detail)
		case "23514": // check_violation
			return fmt.Errorf("%w: %s", ErrInvalid, pgErr.ConstraintName)
		case "23502": // not_null_violation
			return fmt.Errorf("%w: column %s", ErrInvalid, pgErr.ColumnName)
		}
	}

	return err
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
