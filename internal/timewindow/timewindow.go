// Package timewindow maps dashboard fetch modes onto concrete time intervals.
package timewindow

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
)

// ErrInvalidFetchMode is wrapped by the validation error Resolve returns for unknown modes.
var ErrInvalidFetchMode = stderrors.New("invalid fetch mode")

// LineChartSpan is the fixed trailing window of the hourly line chart.
const LineChartSpan = 24 * time.Hour

// Window is the half-open interval (Begin, End]: readings strictly after Begin
// and at or before End belong to it.
type Window struct {
	Begin time.Time
	End   time.Time
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts time.Time) bool {
	return ts.After(w.Begin) && !ts.After(w.End)
}

// Resolve returns the window for mode ending at now.
// An unknown mode yields a validation error wrapping ErrInvalidFetchMode.
func Resolve(mode models.FetchMode, now time.Time) (Window, error) {
	end := now.UTC()

	var begin time.Time
	switch mode {
	case models.FetchModeLast24Hours:
		begin = end.Add(-24 * time.Hour)
	case models.FetchModeLast48Hours:
		begin = end.Add(-48 * time.Hour)
	case models.FetchModeLastWeek:
		begin = end.AddDate(0, 0, -7)
	case models.FetchModeLastMonth:
		begin = end.AddDate(0, -1, 0)
	default:
		return Window{}, errors.NewValidationError(
			fmt.Sprintf("Invalid fetch mode %d, expected one of 1 (24h), 2 (48h), 3 (week), 4 (month)", int(mode)),
			fmt.Errorf("%w: %d", ErrInvalidFetchMode, int(mode)),
		)
	}

	return Window{Begin: begin, End: end}, nil
}

// LineChart returns the trailing 24h window used by the hourly line chart.
func LineChart(now time.Time) Window {
	end := now.UTC()
	return Window{Begin: end.Add(-LineChartSpan), End: end}
}
