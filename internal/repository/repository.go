// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/models"
)

// SensorDataRepository defines the CRUD and aggregate operations on sensor readings.
// Implementations report absent ids as not_found APIErrors.
type SensorDataRepository interface {
	Create(ctx context.Context, reading *models.SensorReading) error
	// CreateBatch inserts all readings in one transaction, batchSize rows per statement.
	CreateBatch(ctx context.Context, readings []models.SensorReading, batchSize int) error
	Get(ctx context.Context, id uuid.UUID) (*models.SensorReading, error)
	Update(ctx context.Context, reading *models.SensorReading) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List orders by timestamp DESC, equipment_id ASC and returns the total row count.
	List(ctx context.Context, page models.Pagination) ([]models.SensorReading, int, error)
	ListByEquipment(ctx context.Context, equipmentID string) ([]models.SensorReading, error)
	EquipmentIDs(ctx context.Context) ([]string, error)

	// HourlyAverages buckets readings in window (begin, end] by equipment and hour,
	// ordered by equipment_id, hour_bucket. An empty allow-list means all equipment.
	HourlyAverages(ctx context.Context, begin, end time.Time, equipmentIDs []string) ([]models.BucketedAverage, error)
	// IntervalAverages returns one page of per-equipment averages over (Begin, End]
	// and the distinct equipment count for the same filter.
	IntervalAverages(ctx context.Context, q models.IntervalQuery) ([]models.IntervalAverage, int, error)
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, page models.Pagination) ([]models.User, int, error)
}

// TokenStore keeps server-side leases for issued access tokens so they can be revoked.
type TokenStore interface {
	Grant(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	IsActive(ctx context.Context, userID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID, tokenID string) error
	RevokeAll(ctx context.Context, userID string) error
}

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
