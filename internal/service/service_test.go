package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/logging"
	"github.com/itsatony/sensorhub/internal/models"
	"github.com/itsatony/sensorhub/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse"

func TestMain(m *testing.M) {
	if _, err := logging.Setup("error"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fixture struct {
	svc      *Service
	readings *repotest.SensorDataStore
	users    *repotest.UserStore
	leases   *repotest.TokenStore
	notifier *recordingNotifier
	now      time.Time
}

type recordingNotifier struct {
	email string
	token string
}

func (n *recordingNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	n.email = email
	n.token = token
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		readings: repotest.NewSensorDataStore(),
		users:    repotest.NewUserStore(),
		leases:   repotest.NewTokenStore(),
		notifier: &recordingNotifier{},
		now:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	gate := auth.NewGate(f.users, f.leases, auth.Options{
		SecretKey:         "0123456789abcdef0123456789abcdef",
		AccessTokenExpire: time.Hour,
		ResetTokenExpire:  time.Hour,
		Now:               clock,
	})
	f.svc = New(f.readings, f.users, gate, Options{ImportBatchSize: 2, OpenRegistration: true, Now: clock}).
		WithNotifier(f.notifier).
		WithHealthCheck(f.readings)
	require.NoError(t, f.svc.Validate())
	return f
}

func (f *fixture) addUser(t *testing.T, email string, active, superuser bool) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	u := &models.User{ID: uuid.New(), Email: email, IsActive: active, IsSuperuser: superuser, HashedPassword: hash}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func principal(u *models.User) *auth.Principal {
	return &auth.Principal{User: *u, TokenID: uuid.NewString()}
}

func (f *fixture) seed(t *testing.T, equipment string, value float64, ts time.Time) models.SensorReading {
	t.Helper()
	r := models.SensorReading{ID: uuid.New(), EquipmentID: equipment, Value: value, Timestamp: ts}
	require.NoError(t, f.readings.Create(context.Background(), &r))
	return r
}

func assertErrorType(t *testing.T, err error, want errors.ErrorType) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := errors.As(err)
	require.True(t, ok, "expected APIError, got %T: %v", err, err)
	assert.Equal(t, want, apiErr.Type)
}

func float(v float64) *float64 { return &v }

func TestValidate(t *testing.T) {
	svc := New(nil, repotest.NewUserStore(), nil, Options{})
	assert.Error(t, svc.Validate())

	svc = New(repotest.NewSensorDataStore(), repotest.NewUserStore(), nil, Options{})
	assert.Error(t, svc.Validate())
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.svc.Health(context.Background()))

	f.readings.Err = errors.NewDatabaseError("connection refused", nil)
	assertErrorType(t, f.svc.Health(context.Background()), errors.ErrorTypeUnavailable)
}

func TestEventsAreEmitted(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "user@example.com", true, false)

	got := make(chan string, 1)
	f.svc.OnEvent(EventSensorDataCreated, "test", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				got <- id
			}
		}
	})

	created, err := f.svc.CreateSensorData(context.Background(), principal(user), models.SensorReadingCreate{
		EquipmentID: "EQ-1",
		Value:       float(1),
	})
	require.NoError(t, err)

	select {
	case id := <-got:
		assert.Equal(t, created.ID, id)
	case <-time.After(time.Second):
		t.Fatal("sensor_data.created was not emitted")
	}
}
