package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/itsatony/sensorhub/internal/database"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

type PostgresBaseRepo struct {
	db database.DB
}

func (r *PostgresBaseRepo) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *PostgresBaseRepo) Commit(tx database.Transaction) error {
	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}
	return nil
}

func (r *PostgresBaseRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewUnavailableError("failed to ping database", err)
	}
	return nil
}

// translate maps driver errors onto the API error taxonomy.
func translate(err error, notFound, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(notFound, err)
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return errors.NewConflictError(op+": duplicate key", err)
	}
	return errors.NewDatabaseError("failed to "+op, err)
}

// expectRows turns a zero-row result into a not_found error.
func expectRows(result sql.Result, notFound string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(notFound, nil)
	}
	return nil
}
