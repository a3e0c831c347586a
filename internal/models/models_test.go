package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewSensorReading(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ts := time.Date(2024, 4, 30, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      SensorReadingCreate
		wantErr string
		wantTS  time.Time
	}{
		{name: "explicit timestamp", in: SensorReadingCreate{EquipmentID: "EQ-1", Value: ptr(1.5), Timestamp: &ts}, wantTS: ts},
		{name: "default timestamp", in: SensorReadingCreate{EquipmentID: "EQ-1", Value: ptr(0.0)}, wantTS: now},
		{name: "missing value", in: SensorReadingCreate{EquipmentID: "EQ-1"}, wantErr: "value is required"},
		{name: "nan", in: SensorReadingCreate{EquipmentID: "EQ-1", Value: ptr(math.NaN())}, wantErr: "NaN"},
		{name: "inf", in: SensorReadingCreate{EquipmentID: "EQ-1", Value: ptr(math.Inf(1))}, wantErr: "finite"},
		{name: "empty equipment", in: SensorReadingCreate{EquipmentID: "  ", Value: ptr(1.0)}, wantErr: "must not be empty"},
		{
			name:    "long equipment",
			in:      SensorReadingCreate{EquipmentID: strings.Repeat("x", MaxEquipmentIDLength+1), Value: ptr(1.0)},
			wantErr: "at most 255",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewSensorReading(tt.in, now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, r.ID)
			assert.Equal(t, tt.in.EquipmentID, r.EquipmentID)
			assert.True(t, tt.wantTS.Equal(r.Timestamp))
		})
	}
}

func TestApplyLeavesUnsetFieldsUntouched(t *testing.T) {
	orig := SensorReading{
		ID:          uuid.New(),
		EquipmentID: "EQ-1",
		Value:       10,
		Timestamp:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	updated, err := orig.Apply(SensorReadingUpdate{Value: ptr(42.0)})
	require.NoError(t, err)
	assert.Equal(t, 42.0, updated.Value)
	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, orig.EquipmentID, updated.EquipmentID)
	assert.Equal(t, orig.Timestamp, updated.Timestamp)

	// original is not mutated
	assert.Equal(t, 10.0, orig.Value)

	_, err = orig.Apply(SensorReadingUpdate{EquipmentID: ptr("")})
	assert.Error(t, err)
}

func TestFetchModeUnmarshal(t *testing.T) {
	var req BarChartRequest
	require.NoError(t, json.Unmarshal([]byte(`{"fetch_mode": 3, "skip": 5}`), &req))
	assert.Equal(t, FetchModeLastWeek, req.FetchMode)
	assert.True(t, req.FetchMode.Valid())
	assert.Equal(t, 5, req.Skip)

	require.NoError(t, json.Unmarshal([]byte(`{"fetch_mode": 9}`), &req))
	assert.False(t, req.FetchMode.Valid())

	assert.Error(t, json.Unmarshal([]byte(`{"fetch_mode": "week"}`), &req))
}

func TestOptionsFromEquipmentIDs(t *testing.T) {
	opts := OptionsFromEquipmentIDs([]string{"A", "B"})
	assert.Equal(t, []EquipmentOption{{Value: "A", Label: "A"}, {Value: "B", Label: "B"}}, opts.Data)

	empty := OptionsFromEquipmentIDs(nil)
	assert.NotNil(t, empty.Data)
}

func TestUserValidation(t *testing.T) {
	assert.NoError(t, ValidateEmail("admin@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Admin <admin@example.com>"))
	assert.Error(t, ValidateEmail(""))

	assert.NoError(t, ValidatePassword("changethis"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("p", MaxPasswordLength+1)))

	assert.Equal(t, "admin@example.com", NormalizeEmail("  Admin@Example.COM "))
}

func TestUserPublicOmitsCredential(t *testing.T) {
	u := User{ID: uuid.New(), Email: "a@b.co", HashedPassword: "secret-hash", IsActive: true}
	raw, err := json.Marshal(u.ToPublic())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
	assert.Contains(t, string(raw), `"is_active":true`)
}

func TestPaginationValidate(t *testing.T) {
	assert.NoError(t, DefaultPagination().Validate())
	assert.Error(t, Pagination{Skip: -1}.Validate())
	assert.Error(t, Pagination{Limit: -1}.Validate())
}

func TestPaginationNormalize(t *testing.T) {
	page, err := Pagination{Skip: 5}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Pagination{Skip: 5, Limit: DefaultLimit}, page)

	page, err = Pagination{Limit: 7}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 7, page.Limit)

	_, err = Pagination{Limit: -1}.Normalize()
	assert.Error(t, err)
}
