// FilePath: internal/repository/timescale/timescale.sensor_data.go
package timescale

import (
	"github.com/itsatony/sensorhub/internal/database"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/repository/postgres"
	nuts "github.com/vaudience/go-nuts"
)

// SensorDataRepo stores readings in the sensor_data hypertable. CRUD is shared with the
// postgres repository; hourly buckets use time_bucket, which prunes chunks outside the window.
type SensorDataRepo struct {
	*postgres.SensorDataRepo
}

func NewSensorDataRepository(db database.DB) (*SensorDataRepo, error) {
	if !db.Timescale() {
		return nil, errors.NewInternalError("timescale repository requires a TimescaleDB connection", nil)
	}
	nuts.L.Infof("[TimescaleDB] Using time_bucket for hourly aggregates")
	return &SensorDataRepo{
		SensorDataRepo: postgres.NewSensorDataRepository(db, postgres.WithBucketExpr(postgres.BucketTimeBucket)),
	}, nil
}
