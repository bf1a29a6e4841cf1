package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/crimson-sun/orderflow/internal/store"
)

// classify wraps a database error with the operation name and maps the
// SQLSTATE classes the pipeline reacts to onto store sentinels.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("postgres %s: %w", op, err)
	}

	switch {
	case pgErr.Code == pgerrcode.UndefinedTable:
		return fmt.Errorf("postgres %s: %w: %w", op, store.ErrTableNotFound, err)
	case pgErr.Code == pgerrcode.UniqueViolation:
		// the conflict key never raises; any unique violation is on another constraint
		return fmt.Errorf("postgres %s: unique violation on %q: %w", op, pgErr.ConstraintName, err)
	case pgerrcode.IsDataException(pgErr.Code):
		return fmt.Errorf("postgres %s: %w: column %q: %w", op, store.ErrRejectedValue, pgErr.ColumnName, err)
	case pgerrcode.IsConnectionException(pgErr.Code):
		return fmt.Errorf("postgres %s: connection lost: %w", op, err)
	default:
		return fmt.Errorf("postgres %s: %w", op, err)
	}
}
