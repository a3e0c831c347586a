package service

import (
	"context"
	"strings"

	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
	"github.com/itsatony/sensorhub/internal/timewindow"
)

// LineChart returns hourly averages per equipment over the trailing 24 hours,
// ordered by equipment_id then hour.
func (s *Service) LineChart(ctx context.Context, p *auth.Principal, req models.LineChartRequest) (*models.LineChartPublic, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}
	ids, err := cleanEquipmentIDs(req.EquipmentIDs)
	if err != nil {
		return nil, err
	}

	w := timewindow.LineChart(s.now())
	buckets, err := s.sensorData.HourlyAverages(ctx, w.Begin, w.End, ids)
	if err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = []models.BucketedAverage{}
	}
	return &models.LineChartPublic{Data: buckets}, nil
}

// BarChart returns one page of per-equipment averages over the window selected by
// fetch_mode, plus the distinct equipment count for the same filter. A zero limit means 100.
func (s *Service) BarChart(ctx context.Context, p *auth.Principal, req models.BarChartRequest) (*models.BarChartPublic, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}

	page, err := models.Pagination{Skip: req.Skip, Limit: req.Limit}.Normalize()
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}
	ids, err := cleanEquipmentIDs(req.EquipmentIDs)
	if err != nil {
		return nil, err
	}

	w, err := timewindow.Resolve(req.FetchMode, s.now())
	if err != nil {
		return nil, err
	}

	averages, count, err := s.sensorData.IntervalAverages(ctx, models.IntervalQuery{
		Begin:        w.Begin,
		End:          w.End,
		EquipmentIDs: ids,
		Skip:         page.Skip,
		Limit:        page.Limit,
	})
	if err != nil {
		return nil, err
	}
	if averages == nil {
		averages = []models.IntervalAverage{}
	}
	return &models.BarChartPublic{Data: averages, Count: count}, nil
}

// cleanEquipmentIDs trims and de-duplicates an allow-list; blanks are dropped.
func cleanEquipmentIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if err := models.ValidateEquipmentID(id); err != nil {
			return nil, errors.NewValidationError(err.Error(), err)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
