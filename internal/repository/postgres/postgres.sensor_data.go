// FilePath: internal/repository/postgres/postgres.sensor_data.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/database"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	sensorDataNotFound = "Sensor data not found"
	sensorDataColumns  = `id, equipment_id, value, "timestamp"`
	// postgres caps a statement at 65535 bind parameters; each row binds 4
	maxInsertBatch = 65535 / 4
)

type SensorDataRepo struct {
	PostgresBaseRepo
	bucket string
}

// Option customises a SensorDataRepo.
type Option func(*SensorDataRepo)

// WithBucketExpr replaces the SQL expression used to truncate timestamps to the hour.
func WithBucketExpr(expr string) Option {
	return func(r *SensorDataRepo) {
		r.bucket = expr
	}
}

func NewSensorDataRepository(db database.DB, opts ...Option) *SensorDataRepo {
	repo := &SensorDataRepo{
		PostgresBaseRepo: PostgresBaseRepo{db: db},
		bucket:           BucketDateTrunc,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

func (r *SensorDataRepo) Create(ctx context.Context, reading *models.SensorReading) error {
	query := `
		INSERT INTO sensor_data (id, equipment_id, value, "timestamp")
		VALUES (:id, :equipment_id, :value, :timestamp)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return translate(err, sensorDataNotFound, "create sensor data")
	}
	return nil
}

// CreateBatch inserts readings in chunks of batchSize rows inside a single transaction.
func (r *SensorDataRepo) CreateBatch(ctx context.Context, readings []models.SensorReading, batchSize int) error {
	if len(readings) == 0 {
		return nil
	}
	if batchSize <= 0 || batchSize > maxInsertBatch {
		batchSize = maxInsertBatch
	}

	query := `
		INSERT INTO sensor_data (id, equipment_id, value, "timestamp")
		VALUES (:id, :equipment_id, :value, :timestamp)`

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	for start := 0; start < len(readings); start += batchSize {
		end := start + batchSize
		if end > len(readings) {
			end = len(readings)
		}
		if _, err := tx.NamedExecContext(ctx, query, readings[start:end]); err != nil {
			return translate(err, sensorDataNotFound, "bulk insert sensor data")
		}
	}

	if err := r.Commit(tx); err != nil {
		return err
	}

	nuts.L.Infof("[SensorDataRepo] Bulk inserted %d readings", len(readings))
	return nil
}

func (r *SensorDataRepo) Get(ctx context.Context, id uuid.UUID) (*models.SensorReading, error) {
	reading := &models.SensorReading{}
	query := `SELECT ` + sensorDataColumns + ` FROM sensor_data WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, reading, query, id)
	if err != nil {
		return nil, translate(err, sensorDataNotFound, "get sensor data")
	}
	return reading, nil
}

func (r *SensorDataRepo) Update(ctx context.Context, reading *models.SensorReading) error {
	query := `
		UPDATE sensor_data SET
			equipment_id = :equipment_id,
			value = :value,
			"timestamp" = :timestamp
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return translate(err, sensorDataNotFound, "update sensor data")
	}
	return expectRows(result, sensorDataNotFound)
}

func (r *SensorDataRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sensor_data WHERE id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return translate(err, sensorDataNotFound, "delete sensor data")
	}
	return expectRows(result, sensorDataNotFound)
}

func (r *SensorDataRepo) List(ctx context.Context, page models.Pagination) ([]models.SensorReading, int, error) {
	var count int
	if err := r.db.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM sensor_data`); err != nil {
		return nil, 0, translate(err, sensorDataNotFound, "count sensor data")
	}

	readings := []models.SensorReading{}
	query := `
		SELECT ` + sensorDataColumns + `
		FROM sensor_data
		ORDER BY "timestamp" DESC, equipment_id ASC, id ASC
		OFFSET $1 LIMIT $2`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, page.Skip, page.Limit)
	if err != nil {
		return nil, 0, translate(err, sensorDataNotFound, "list sensor data")
	}
	return readings, count, nil
}

func (r *SensorDataRepo) ListByEquipment(ctx context.Context, equipmentID string) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}
	query := `
		SELECT ` + sensorDataColumns + `
		FROM sensor_data
		WHERE equipment_id = $1
		ORDER BY "timestamp" DESC, id ASC`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, equipmentID)
	if err != nil {
		return nil, translate(err, sensorDataNotFound, "list sensor data by equipment")
	}
	return readings, nil
}

func (r *SensorDataRepo) EquipmentIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := r.db.GetDB().SelectContext(ctx, &ids, `SELECT DISTINCT equipment_id FROM sensor_data ORDER BY equipment_id`)
	if err != nil {
		return nil, translate(err, sensorDataNotFound, "list equipment ids")
	}
	return ids, nil
}

func (r *SensorDataRepo) HourlyAverages(ctx context.Context, begin, end time.Time, equipmentIDs []string) ([]models.BucketedAverage, error) {
	query, args := hourlyAveragesSQL(r.bucket, begin, end, equipmentIDs)

	buckets := []models.BucketedAverage{}
	if err := r.db.GetDB().SelectContext(ctx, &buckets, query, args...); err != nil {
		return nil, translate(err, sensorDataNotFound, "compute hourly averages")
	}
	return buckets, nil
}

// IntervalAverages reads the page and the count from one repeatable-read snapshot.
func (r *SensorDataRepo) IntervalAverages(ctx context.Context, q models.IntervalQuery) ([]models.IntervalAverage, int, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, errors.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var count int
	countSQL, countArgs := intervalCountSQL(q)
	if err := tx.GetContext(ctx, &count, countSQL, countArgs...); err != nil {
		return nil, 0, translate(err, sensorDataNotFound, "count equipment")
	}

	averages := []models.IntervalAverage{}
	pageSQL, pageArgs := intervalAveragesSQL(q)
	if err := tx.SelectContext(ctx, &averages, pageSQL, pageArgs...); err != nil {
		return nil, 0, translate(err, sensorDataNotFound, "compute interval averages")
	}

	if err := r.Commit(tx); err != nil {
		return nil, 0, err
	}
	return averages, count, nil
}
