// FilePath: internal/models/models.dashboard.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// FetchMode selects one of the predefined relative time windows.
type FetchMode int

const (
	FetchModeLast24Hours FetchMode = 1
	FetchModeLast48Hours FetchMode = 2
	FetchModeLastWeek    FetchMode = 3
	FetchModeLastMonth   FetchMode = 4
)

func (m FetchMode) String() string {
	switch m {
	case FetchModeLast24Hours:
		return "last_24h"
	case FetchModeLast48Hours:
		return "last_48h"
	case FetchModeLastWeek:
		return "last_week"
	case FetchModeLastMonth:
		return "last_month"
	}
	return fmt.Sprintf("fetch_mode(%d)", int(m))
}

// Valid reports whether m is one of the known modes.
func (m FetchMode) Valid() bool {
	return m >= FetchModeLast24Hours && m <= FetchModeLastMonth
}

// UnmarshalJSON accepts the numeric mode only; strings and floats are rejected
// so that the resolver sees exactly what the client sent.
func (m *FetchMode) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("fetch_mode must be an integer: %w", err)
	}
	*m = FetchMode(n)
	return nil
}

// BucketedAverage is one line-chart point: the mean value of one equipment in one hour.
type BucketedAverage struct {
	EquipmentID string    `json:"equipment_id" db:"equipment_id"`
	HourBucket  time.Time `json:"hour_bucket" db:"hour_bucket"`
	AvgValue    float64   `json:"avg_value" db:"avg_value"`
}

// IntervalAverage is one bar-chart row: the mean value of one equipment over an interval.
type IntervalAverage struct {
	EquipmentID string  `json:"equipment_id" db:"equipment_id"`
	AvgValue    float64 `json:"avg_value" db:"avg_value"`
}

// LineChartRequest optionally narrows the line chart to a set of equipment ids.
type LineChartRequest struct {
	EquipmentIDs []string `json:"equipment_ids,omitempty"`
}

// LineChartPublic wraps the line-chart points.
type LineChartPublic struct {
	Data []BucketedAverage `json:"data"`
}

// BarChartRequest is the bar-chart query body.
type BarChartRequest struct {
	Skip         int       `json:"skip"`
	Limit        int       `json:"limit"`
	FetchMode    FetchMode `json:"fetch_mode"`
	EquipmentIDs []string  `json:"equipment_ids,omitempty"`
}

// BarChartPublic holds one page of interval averages plus the distinct equipment count
// for the same filter.
type BarChartPublic struct {
	Data  []IntervalAverage `json:"data"`
	Count int               `json:"count"`
}

// IntervalQuery is the store-level form of a bar-chart request. The interval is (Begin, End].
type IntervalQuery struct {
	Begin        time.Time
	End          time.Time
	EquipmentIDs []string
	Skip         int
	Limit        int
}

// EquipmentOption is a select-box entry derived from the distinct equipment ids.
type EquipmentOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// EquipmentOptions wraps the option list.
type EquipmentOptions struct {
	Data []EquipmentOption `json:"data"`
}

// OptionsFromEquipmentIDs labels each id with itself.
func OptionsFromEquipmentIDs(ids []string) EquipmentOptions {
	out := EquipmentOptions{Data: make([]EquipmentOption, 0, len(ids))}
	for _, id := range ids {
		out.Data = append(out.Data, EquipmentOption{Value: id, Label: id})
	}
	return out
}
