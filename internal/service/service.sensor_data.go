package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ParseID parses a path id, reporting malformed ids as validation errors.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, errors.NewValidationError("invalid id: must be a UUID", err)
	}
	return id, nil
}

func (s *Service) ListSensorData(ctx context.Context, page models.Pagination) (*models.SensorReadingsPublic, error) {
	page, err := page.Normalize()
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}
	readings, count, err := s.sensorData.List(ctx, page)
	if err != nil {
		return nil, err
	}
	out := models.ReadingsToPublic(readings, count)
	return &out, nil
}

func (s *Service) GetSensorData(ctx context.Context, id uuid.UUID) (*models.SensorReadingPublic, error) {
	reading, err := s.sensorData.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := reading.ToPublic()
	return &out, nil
}

// ListSensorDataByEquipment returns every reading of one equipment; count is the number returned.
func (s *Service) ListSensorDataByEquipment(ctx context.Context, equipmentID string) (*models.SensorReadingsPublic, error) {
	readings, err := s.sensorData.ListByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	out := models.ReadingsToPublic(readings, len(readings))
	return &out, nil
}

func (s *Service) EquipmentOptions(ctx context.Context) (*models.EquipmentOptions, error) {
	ids, err := s.sensorData.EquipmentIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := models.OptionsFromEquipmentIDs(ids)
	return &out, nil
}

func (s *Service) CreateSensorData(ctx context.Context, p *auth.Principal, in models.SensorReadingCreate) (*models.SensorReadingPublic, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}

	reading, err := models.NewSensorReading(in, s.now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}
	if err := s.sensorData.Create(ctx, reading); err != nil {
		return nil, err
	}

	nuts.L.Infof("[SensorDataService] Created reading %s for equipment %s", reading.ID, reading.EquipmentID)
	s.emit(EventSensorDataCreated, reading.ID.String())
	out := reading.ToPublic()
	return &out, nil
}

// UpdateSensorData merges only the fields present in the update into the stored reading.
func (s *Service) UpdateSensorData(ctx context.Context, p *auth.Principal, id uuid.UUID, in models.SensorReadingUpdate) (*models.SensorReadingPublic, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}

	existing, err := s.sensorData.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged, err := existing.Apply(in)
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}
	if !in.IsEmpty() {
		if err := s.sensorData.Update(ctx, merged); err != nil {
			return nil, err
		}
		s.emit(EventSensorDataUpdated, id.String())
	}

	out := merged.ToPublic()
	return &out, nil
}

func (s *Service) DeleteSensorData(ctx context.Context, p *auth.Principal, id uuid.UUID) (*models.Message, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}
	if err := s.sensorData.Delete(ctx, id); err != nil {
		return nil, err
	}

	nuts.L.Infof("[SensorDataService] Deleted reading %s", id)
	s.emit(EventSensorDataDeleted, id.String())
	return &models.Message{Message: "Sensor data deleted successfully"}, nil
}
