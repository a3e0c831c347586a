package service

import (
	"context"
	"io"

	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/importer"
	"github.com/itsatony/sensorhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ImportCSV parses src, inserts every valid row in one transaction and reports the counts.
// Invalid rows are counted as failures and never abort the import.
func (s *Service) ImportCSV(ctx context.Context, p *auth.Principal, src io.Reader) (*models.ImportOutcome, error) {
	if err := s.gate.Require(p, auth.LevelSuperuser); err != nil {
		return nil, err
	}

	result, err := importer.Parse(src, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.sensorData.CreateBatch(ctx, result.Accepted, s.opts.ImportBatchSize); err != nil {
		return nil, err
	}

	outcome := result.Outcome()
	nuts.L.Infof("[ImportService] User %s imported CSV: %d accepted, %d rejected",
		p.UserID(), outcome.CountSuccess, outcome.CountFail)
	if outcome.CountSuccess > 0 {
		s.emit(EventSensorDataImported, outcome.CountSuccess)
	}
	return &outcome, nil
}
