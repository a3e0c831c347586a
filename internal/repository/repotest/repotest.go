// Package repotest provides in-memory implementations of the repository interfaces for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
	"github.com/itsatony/sensorhub/internal/repository"
)

var (
	_ repository.SensorDataRepository = (*SensorDataStore)(nil)
	_ repository.UserRepository       = (*UserStore)(nil)
	_ repository.TokenStore           = (*TokenStore)(nil)
	_ repository.Pinger               = (*SensorDataStore)(nil)
)

// SensorDataStore keeps readings in a map and mirrors the SQL semantics of the postgres repository.
type SensorDataStore struct {
	mu       sync.Mutex
	readings map[uuid.UUID]models.SensorReading
	// Calls counts every method invocation; tests use it to assert no store access happened.
	Calls int
	// Err, when set, is returned by every method.
	Err error
}

func NewSensorDataStore() *SensorDataStore {
	return &SensorDataStore{readings: make(map[uuid.UUID]models.SensorReading)}
}

func (s *SensorDataStore) enter() (func(), error) {
	s.mu.Lock()
	s.Calls++
	if s.Err != nil {
		s.mu.Unlock()
		return nil, s.Err
	}
	return s.mu.Unlock, nil
}

// Ping reports Err, so tests can simulate an unreachable store.
func (s *SensorDataStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

// Len returns the number of stored readings.
func (s *SensorDataStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readings)
}

func (s *SensorDataStore) Create(ctx context.Context, reading *models.SensorReading) error {
	unlock, err := s.enter()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := s.readings[reading.ID]; ok {
		return errors.NewConflictError("sensor data already exists", nil)
	}
	s.readings[reading.ID] = *reading
	return nil
}

func (s *SensorDataStore) CreateBatch(ctx context.Context, readings []models.SensorReading, batchSize int) error {
	unlock, err := s.enter()
	if err != nil {
		return err
	}
	defer unlock()
	for _, r := range readings {
		if _, ok := s.readings[r.ID]; ok {
			return errors.NewConflictError("sensor data already exists", nil)
		}
	}
	for _, r := range readings {
		s.readings[r.ID] = r
	}
	return nil
}

func (s *SensorDataStore) Get(ctx context.Context, id uuid.UUID) (*models.SensorReading, error) {
	unlock, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer unlock()
	r, ok := s.readings[id]
	if !ok {
		return nil, errors.NewNotFoundError("Sensor data not found", nil)
	}
	return &r, nil
}

func (s *SensorDataStore) Update(ctx context.Context, reading *models.SensorReading) error {
	unlock, err := s.enter()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := s.readings[reading.ID]; !ok {
		return errors.NewNotFoundError("Sensor data not found", nil)
	}
	s.readings[reading.ID] = *reading
	return nil
}

func (s *SensorDataStore) Delete(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.enter()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := s.readings[id]; !ok {
		return errors.NewNotFoundError("Sensor data not found", nil)
	}
	delete(s.readings, id)
	return nil
}

func (s *SensorDataStore) sorted() []models.SensorReading {
	all := make([]models.SensorReading, 0, len(s.readings))
	for _, r := range s.readings {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		if all[i].EquipmentID != all[j].EquipmentID {
			return all[i].EquipmentID < all[j].EquipmentID
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	return all
}

func (s *SensorDataStore) List(ctx context.Context, page models.Pagination) ([]models.SensorReading, int, error) {
	unlock, err := s.enter()
	if err != nil {
		return nil, 0, err
	}
	defer unlock()
	all := s.sorted()
	return paginate(all, page.Skip, page.Limit), len(all), nil
}

func (s *SensorDataStore) ListByEquipment(ctx context.Context, equipmentID string) ([]models.SensorReading, error) {
	unlock, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer unlock()
	out := []models.SensorReading{}
	for _, r := range s.sorted() {
		if r.EquipmentID == equipmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *SensorDataStore) EquipmentIDs(ctx context.Context) ([]string, error) {
	unlock, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer unlock()
	seen := map[string]struct{}{}
	ids := []string{}
	for _, r := range s.readings {
		if _, ok := seen[r.EquipmentID]; !ok {
			seen[r.EquipmentID] = struct{}{}
			ids = append(ids, r.EquipmentID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *SensorDataStore) HourlyAverages(ctx context.Context, begin, end time.Time, equipmentIDs []string) ([]models.BucketedAverage, error) {
	unlock, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer unlock()

	type key struct {
		equipment string
		bucket    time.Time
	}
	sums := map[key]*mean{}
	allow := allowList(equipmentIDs)
	for _, r := range s.readings {
		if !inWindow(r.Timestamp, begin, end) || !allow(r.EquipmentID) {
			continue
		}
		k := key{r.EquipmentID, r.Timestamp.UTC().Truncate(time.Hour)}
		if sums[k] == nil {
			sums[k] = &mean{}
		}
		sums[k].add(r.Value)
	}

	out := make([]models.BucketedAverage, 0, len(sums))
	for k, m := range sums {
		out = append(out, models.BucketedAverage{EquipmentID: k.equipment, HourBucket: k.bucket, AvgValue: m.value()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EquipmentID != out[j].EquipmentID {
			return out[i].EquipmentID < out[j].EquipmentID
		}
		return out[i].HourBucket.Before(out[j].HourBucket)
	})
	return out, nil
}

func (s *SensorDataStore) IntervalAverages(ctx context.Context, q models.IntervalQuery) ([]models.IntervalAverage, int, error) {
	unlock, err := s.enter()
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	sums := map[string]*mean{}
	allow := allowList(q.EquipmentIDs)
	for _, r := range s.readings {
		if !inWindow(r.Timestamp, q.Begin, q.End) || !allow(r.EquipmentID) {
			continue
		}
		if sums[r.EquipmentID] == nil {
			sums[r.EquipmentID] = &mean{}
		}
		sums[r.EquipmentID].add(r.Value)
	}

	all := make([]models.IntervalAverage, 0, len(sums))
	for id, m := range sums {
		all = append(all, models.IntervalAverage{EquipmentID: id, AvgValue: m.value()})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EquipmentID < all[j].EquipmentID })
	return paginate(all, q.Skip, q.Limit), len(all), nil
}

// UserStore is an in-memory user table with a unique email index.
type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
	Calls int
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]models.User)}
}

func (s *UserStore) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range s.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.emailTaken(user.Email, uuid.Nil) {
		return errors.NewConflictError("The user with this email already exists in the system", nil)
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	u, ok := s.users[id]
	if !ok {
		return nil, errors.NewNotFoundError("User not found", nil)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, errors.NewNotFoundError("User not found", nil)
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if _, ok := s.users[user.ID]; !ok {
		return errors.NewNotFoundError("User not found", nil)
	}
	if s.emailTaken(user.Email, user.ID) {
		return errors.NewConflictError("User with this email already exists", nil)
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if _, ok := s.users[id]; !ok {
		return errors.NewNotFoundError("User not found", nil)
	}
	delete(s.users, id)
	return nil
}

func (s *UserStore) List(ctx context.Context, page models.Pagination) ([]models.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	all := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return paginate(all, page.Skip, page.Limit), len(all), nil
}

// TokenStore is an in-memory lease table. Expiry is not modelled.
type TokenStore struct {
	mu     sync.Mutex
	leases map[string]map[string]struct{}
}

func NewTokenStore() *TokenStore {
	return &TokenStore{leases: make(map[string]map[string]struct{})}
}

func (s *TokenStore) Grant(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leases[userID] == nil {
		s.leases[userID] = make(map[string]struct{})
	}
	s.leases[userID][tokenID] = struct{}{}
	return nil
}

func (s *TokenStore) IsActive(ctx context.Context, userID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.leases[userID][tokenID]
	return ok, nil
}

func (s *TokenStore) Revoke(ctx context.Context, userID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.leases[userID], tokenID)
	return nil
}

func (s *TokenStore) RevokeAll(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.leases, userID)
	return nil
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) { m.sum += v; m.n++ }

func (m *mean) value() float64 { return m.sum / float64(m.n) }

func inWindow(ts, begin, end time.Time) bool {
	return ts.After(begin) && !ts.After(end)
}

func allowList(ids []string) func(string) bool {
	if len(ids) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(id string) bool {
		_, ok := set[id]
		return ok
	}
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
