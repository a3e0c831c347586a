// FilePath: internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/itsatony/sensorhub/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

// DB is an interface that both PostgreSQL and TimescaleDB must implement
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
	// Timescale reports whether sensor_data is stored in a hypertable.
	Timescale() bool
}

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	db *sqlx.DB
}

// TimescaleDB represents a PostgreSQL connection with the TimescaleDB extension
type TimescaleDB struct {
	PostgresDB
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Open creates the connection pool. It does not wait for the server; see WaitForDB.
func Open(cfg config.DatabaseConfig) (DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.Timescale {
		nuts.L.Infof("[TimescaleDB] Pool opened for %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
		return &TimescaleDB{PostgresDB{db: db}}, nil
	}
	nuts.L.Infof("[PostgresDB] Pool opened for %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return &PostgresDB{db: db}, nil
}

// Wrap adapts an existing sqlx handle, mainly for tests.
func Wrap(db *sqlx.DB, timescale bool) DB {
	if timescale {
		return &TimescaleDB{PostgresDB{db: db}}
	}
	return &PostgresDB{db: db}
}

// WaitForDB pings the database until it answers, at most attempts times, sleeping interval between tries.
func WaitForDB(ctx context.Context, db DB, attempts int, interval time.Duration) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, interval+5*time.Second)
		err = db.Ping(pingCtx)
		cancel()
		if err == nil {
			nuts.L.Infof("[Database] Database reachable after %d attempt(s)", attempt)
			return nil
		}

		nuts.L.Warnf("[Database] Attempt %d/%d: database not reachable: %v", attempt, attempts, err)
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("database not reachable after %d attempts: %w", attempts, err)
}

// WithTx runs fn inside a transaction, committing on success and rolling back on any error.
func WithTx(ctx context.Context, db DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Implementation of DB interface for PostgresDB
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresDB) GetDB() *sqlx.DB {
	return p.db
}

func (p *PostgresDB) Timescale() bool {
	return false
}

func (t *TimescaleDB) Timescale() bool {
	return true
}
