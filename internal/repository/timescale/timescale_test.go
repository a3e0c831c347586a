package timescale

import (
	"os"
	"testing"

	"github.com/itsatony/sensorhub/internal/database"
	"github.com/itsatony/sensorhub/internal/logging"
	"github.com/itsatony/sensorhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.SensorDataRepository = (*SensorDataRepo)(nil)

func TestMain(m *testing.M) {
	if _, err := logging.Setup("error"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestRequiresTimescaleConnection(t *testing.T) {
	_, err := NewSensorDataRepository(database.Wrap(nil, false))
	require.Error(t, err)

	repo, err := NewSensorDataRepository(database.Wrap(nil, true))
	require.NoError(t, err)
	assert.NotNil(t, repo.SensorDataRepo)
}
