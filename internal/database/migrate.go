package database

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	nuts "github.com/vaudience/go-nuts"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies all pending up-migrations embedded in the binary.
// databaseURL must be a postgres:// URL.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("migrate new: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migrate version: %w", err)
	}
	nuts.L.Infof("[Database] Schema at version %d (dirty=%t)", version, dirty)
	return nil
}

// hypertableStatements convert sensor_data in place. A hypertable cannot carry a unique
// index without the time column, so id stays indexed but is unique only per timestamp;
// ids are always generated server-side.
var hypertableStatements = []string{
	`ALTER TABLE sensor_data DROP CONSTRAINT IF EXISTS sensor_data_pkey, ADD CONSTRAINT sensor_data_pkey PRIMARY KEY (id, "timestamp")`,
	`CREATE INDEX IF NOT EXISTS ix_sensor_data_id ON sensor_data (id)`,
	`SELECT create_hypertable('sensor_data', 'timestamp', if_not_exists => TRUE, migrate_data => TRUE)`,
}

// EnableTimescale verifies the extension and turns sensor_data into a hypertable on "timestamp".
// Hypertables require the time column in every unique index, so the primary key is widened
// to (id, "timestamp") first. Running it again is a no-op.
func EnableTimescale(ctx context.Context, db DB) error {
	sqlxDB := db.GetDB()

	var hasTimescaleDB bool
	err := sqlxDB.GetContext(ctx, &hasTimescaleDB, "SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'timescaledb')")
	if err != nil {
		return fmt.Errorf("error checking TimescaleDB extension: %w", err)
	}
	if !hasTimescaleDB {
		return fmt.Errorf("TimescaleDB extension not available")
	}

	var isHypertable bool
	err = sqlxDB.GetContext(ctx, &isHypertable,
		`SELECT EXISTS (SELECT 1 FROM timescaledb_information.hypertables WHERE hypertable_name = 'sensor_data')`)
	if err != nil {
		return fmt.Errorf("error checking hypertables: %w", err)
	}
	if isHypertable {
		nuts.L.Infof("[TimescaleDB] sensor_data is already a hypertable")
		return nil
	}

	return WithTx(ctx, db, func(tx *sqlx.Tx) error {
		for _, query := range hypertableStatements {
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return fmt.Errorf("error creating hypertable: %w", err)
			}
		}
		nuts.L.Infof("[TimescaleDB] sensor_data converted to hypertable")
		return nil
	})
}
