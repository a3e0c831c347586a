// FilePath: internal/models/models.sensor_data.go
package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxEquipmentIDLength bounds equipment_id, matching the VARCHAR(255) column.
const MaxEquipmentIDLength = 255

// SensorReading is a single measurement emitted by one piece of equipment.
type SensorReading struct {
	ID          uuid.UUID `json:"id" db:"id"`
	EquipmentID string    `json:"equipment_id" db:"equipment_id"`
	Value       float64   `json:"value" db:"value"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}

// Validate enforces the invariants every persisted reading must satisfy.
func (r *SensorReading) Validate() error {
	if err := ValidateEquipmentID(r.EquipmentID); err != nil {
		return err
	}
	if err := ValidateValue(r.Value); err != nil {
		return err
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return nil
}

// ValidateEquipmentID checks the non-empty and length constraints.
func ValidateEquipmentID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("equipment_id must not be empty")
	}
	if len([]rune(id)) > MaxEquipmentIDLength {
		return fmt.Errorf("equipment_id must be at most %d characters", MaxEquipmentIDLength)
	}
	return nil
}

// ValidateValue rejects NaN and infinities.
func ValidateValue(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("value must be a number, got NaN")
	}
	if math.IsInf(v, 0) {
		return fmt.Errorf("value must be finite")
	}
	return nil
}

// SensorReadingCreate is the payload for creating a reading.
// Value is a pointer so that an absent value can be told apart from 0.
type SensorReadingCreate struct {
	EquipmentID string     `json:"equipment_id"`
	Value       *float64   `json:"value"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// SensorReadingUpdate carries a partial update; nil fields are left untouched.
type SensorReadingUpdate struct {
	EquipmentID *string    `json:"equipment_id,omitempty"`
	Value       *float64   `json:"value,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// IsEmpty reports whether the update sets no field at all.
func (u SensorReadingUpdate) IsEmpty() bool {
	return u.EquipmentID == nil && u.Value == nil && u.Timestamp == nil
}

// SensorReadingPublic is the wire representation of a reading.
type SensorReadingPublic struct {
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipment_id"`
	Value       float64   `json:"value"`
	Timestamp   time.Time `json:"timestamp"`
}

// SensorReadingsPublic is a page of readings plus the total row count.
type SensorReadingsPublic struct {
	Data  []SensorReadingPublic `json:"data"`
	Count int                   `json:"count"`
}

// NewSensorReading builds and validates a reading from a create payload.
// A missing timestamp defaults to now.
func NewSensorReading(in SensorReadingCreate, now time.Time) (*SensorReading, error) {
	if in.Value == nil {
		return nil, fmt.Errorf("value is required")
	}
	reading := &SensorReading{
		ID:          uuid.New(),
		EquipmentID: in.EquipmentID,
		Value:       *in.Value,
		Timestamp:   now.UTC(),
	}
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		reading.Timestamp = in.Timestamp.UTC()
	}
	if err := reading.Validate(); err != nil {
		return nil, err
	}
	return reading, nil
}

// Apply merges the set fields of u into a copy of r and validates the result.
func (r SensorReading) Apply(u SensorReadingUpdate) (*SensorReading, error) {
	merged := r
	if u.EquipmentID != nil {
		merged.EquipmentID = *u.EquipmentID
	}
	if u.Value != nil {
		merged.Value = *u.Value
	}
	if u.Timestamp != nil {
		merged.Timestamp = u.Timestamp.UTC()
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ToPublic maps the entity onto its wire DTO.
func (r SensorReading) ToPublic() SensorReadingPublic {
	return SensorReadingPublic{
		ID:          r.ID.String(),
		EquipmentID: r.EquipmentID,
		Value:       r.Value,
		Timestamp:   r.Timestamp.UTC(),
	}
}

// ReadingsToPublic maps a slice of readings, never returning nil.
func ReadingsToPublic(readings []SensorReading, count int) SensorReadingsPublic {
	out := SensorReadingsPublic{Data: make([]SensorReadingPublic, 0, len(readings)), Count: count}
	for _, r := range readings {
		out.Data = append(out.Data, r.ToPublic())
	}
	return out
}

// ImportOutcome summarises one bulk import.
type ImportOutcome struct {
	CountSuccess int `json:"count_success"`
	CountFail    int `json:"count_fail"`
}

// Message is a generic acknowledgement payload.
type Message struct {
	Message string `json:"message"`
}
