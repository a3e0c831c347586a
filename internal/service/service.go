package service

import (
	"context"
	"time"

	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Domain events emitted after a successful commit. Handlers receive the entity id
// (or, for imports, the number of inserted rows) as the first argument.
const (
	EventSensorDataCreated  = "sensor_data.created"
	EventSensorDataUpdated  = "sensor_data.updated"
	EventSensorDataDeleted  = "sensor_data.deleted"
	EventSensorDataImported = "sensor_data.imported"
	EventUserDeleted        = "user.deleted"
)

// Options tunes service behaviour.
type Options struct {
	ImportBatchSize  int
	OpenRegistration bool
	// Now is the reference clock for windows and default timestamps; nil means time.Now.
	Now func() time.Time
}

// Service contains all repositories and service-wide dependencies
type Service struct {
	sensorData repository.SensorDataRepository
	users      repository.UserRepository
	gate       *auth.Gate
	health     repository.Pinger
	notifier   Notifier
	events     *nuts.EventEmitter
	opts       Options
}

// New creates a new service instance
func New(
	sensorData repository.SensorDataRepository,
	users repository.UserRepository,
	gate *auth.Gate,
	opts Options,
) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		sensorData: sensorData,
		users:      users,
		gate:       gate,
		notifier:   LogNotifier{},
		events:     nuts.NewEventEmitter(),
		opts:       opts,
	}
}

// WithNotifier replaces the password-reset notifier.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithHealthCheck sets the store probed by Health.
func (s *Service) WithHealthCheck(p repository.Pinger) *Service {
	s.health = p
	return s
}

// Validate checks if all required repositories are initialized
func (s *Service) Validate() error {
	if s.sensorData == nil {
		return ErrMissingRepository("sensorData")
	}
	if s.users == nil {
		return ErrMissingRepository("users")
	}
	if s.gate == nil {
		return ErrMissingRepository("auth gate")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

// Gate exposes the auth gate for the HTTP middleware.
func (s *Service) Gate() *auth.Gate {
	return s.gate
}

// Health pings the backing store.
func (s *Service) Health(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	if err := s.health.Ping(ctx); err != nil {
		return errors.NewUnavailableError("store not reachable", err)
	}
	return nil
}

// OnEvent registers handler for a domain event under listenerID.
func (s *Service) OnEvent(event, listenerID string, handler func(args ...interface{})) {
	s.events.On(event, listenerID, handler)
}

func (s *Service) emit(event string, args ...interface{}) {
	s.events.Emit(event, args...)
}

func (s *Service) now() time.Time {
	return s.opts.Now().UTC()
}
