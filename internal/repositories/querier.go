package repositories

import (
	"context"
	"errors"

	apperrors "car-rental/pkg/errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getQuerier(pool *pgxpool.Pool, tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return pool
}

// mapPgError turns driver errors into the application taxonomy.
func mapPgError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(what + " not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperrors.NewConflictError(what + " already exists").With(err, map[string]interface{}{"constraint": pgErr.ConstraintName})
		case pgerrcode.ForeignKeyViolation:
			return apperrors.NewConflictError(what + " is referenced by other records").With(err, map[string]interface{}{"constraint": pgErr.ConstraintName})
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return apperrors.NewBadRequestError("invalid "+what+" data").With(err, map[string]interface{}{"constraint": pgErr.ConstraintName})
		case pgerrcode.InvalidTextRepresentation:
			// malformed uuid in a lookup
			return apperrors.NewNotFoundError(what + " not found")
		}
	}
	return apperrors.NewInfraError(err, map[string]interface{}{"entity": what})
}
