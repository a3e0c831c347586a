// Package importer turns an uploaded CSV stream into validated sensor readings.
//
// Rows are independent: a row that fails to parse or validate is counted and skipped,
// it never aborts the import. Only a stream that is not tabular at all (empty input,
// unreadable header, missing required columns) is reported as a malformed file.
package importer

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	ColumnEquipmentID = "equipment_id"
	ColumnValue       = "value"
	ColumnTimestamp   = "timestamp"
)

var headerAliases = map[string]string{
	"equipment_id": ColumnEquipmentID,
	"equipment":    ColumnEquipmentID,
	"equipmentid":  ColumnEquipmentID,
	"sensor":       ColumnEquipmentID,
	"device_id":    ColumnEquipmentID,
	"value":        ColumnValue,
	"val":          ColumnValue,
	"reading":      ColumnValue,
	"measurement":  ColumnValue,
	"timestamp":    ColumnTimestamp,
	"time":         ColumnTimestamp,
	"datetime":     ColumnTimestamp,
	"date_time":    ColumnTimestamp,
	"date":         ColumnTimestamp,
	"ts":           ColumnTimestamp,
}

// zoneless layouts are read as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// RowFailure describes one rejected data row. Line is 1-based and counts the header.
type RowFailure struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result holds the accepted readings and the rejected rows of one upload.
type Result struct {
	Accepted []models.SensorReading
	Failures []RowFailure
}

// Outcome summarises the result as success and failure counts.
func (r *Result) Outcome() models.ImportOutcome {
	return models.ImportOutcome{CountSuccess: len(r.Accepted), CountFail: len(r.Failures)}
}

// NormalizeHeader maps a raw column name onto its canonical name, or "" if unknown.
func NormalizeHeader(raw string) string {
	name := strings.TrimPrefix(raw, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	return headerAliases[name]
}

// ParseTimestamp accepts RFC 3339 and the common zoneless layouts.
func ParseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

type columns struct {
	equipmentID int
	value       int
	timestamp   int
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{equipmentID: -1, value: -1, timestamp: -1}
	for i, raw := range header {
		switch NormalizeHeader(raw) {
		case ColumnEquipmentID:
			if cols.equipmentID < 0 {
				cols.equipmentID = i
			}
		case ColumnValue:
			if cols.value < 0 {
				cols.value = i
			}
		case ColumnTimestamp:
			if cols.timestamp < 0 {
				cols.timestamp = i
			}
		}
	}

	var missing []string
	if cols.equipmentID < 0 {
		missing = append(missing, ColumnEquipmentID)
	}
	if cols.value < 0 {
		missing = append(missing, ColumnValue)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("header is missing required column(s): %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// Parse reads the whole stream. now is the ingestion time used for rows without a timestamp.
func Parse(src io.Reader, now time.Time) (*Result, error) {
	r := csv.NewReader(src)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.NewMalformedFileError("CSV file is empty", err)
	}
	if err != nil {
		return nil, errors.NewMalformedFileError("CSV header could not be read", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, errors.NewMalformedFileError(err.Error(), err)
	}

	result := &Result{}
	ingestedAt := now.UTC()

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				result.Failures = append(result.Failures, RowFailure{Line: parseErr.StartLine, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, errors.NewMalformedFileError("CSV stream could not be read", err)
		}

		line, _ := r.FieldPos(0)
		reading, err := parseRow(record, cols, ingestedAt)
		if err != nil {
			result.Failures = append(result.Failures, RowFailure{Line: line, Reason: err.Error()})
			continue
		}
		result.Accepted = append(result.Accepted, *reading)
	}

	if len(result.Failures) > 0 {
		nuts.L.Debugf("[Importer] %d row(s) rejected, first at line %d: %s",
			len(result.Failures), result.Failures[0].Line, result.Failures[0].Reason)
	}
	return result, nil
}

func parseRow(record []string, cols columns, ingestedAt time.Time) (*models.SensorReading, error) {
	field := func(i int) (string, bool) {
		if i < 0 || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	equipmentID, ok := field(cols.equipmentID)
	if !ok {
		return nil, fmt.Errorf("missing %s field", ColumnEquipmentID)
	}
	rawValue, ok := field(cols.value)
	if !ok || rawValue == "" {
		return nil, fmt.Errorf("missing %s field", ColumnValue)
	}
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return nil, fmt.Errorf("value %q is not a number", rawValue)
	}

	ts := ingestedAt
	if rawTS, ok := field(cols.timestamp); ok && rawTS != "" {
		if ts, err = ParseTimestamp(rawTS); err != nil {
			return nil, err
		}
	}

	reading := &models.SensorReading{
		ID:          uuid.New(),
		EquipmentID: equipmentID,
		Value:       value,
		Timestamp:   ts,
	}
	if err := reading.Validate(); err != nil {
		return nil, err
	}
	return reading, nil
}
