package resources

import (
	"net/http"
	"time"

	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/monitoring"
	"github.com/itsatony/sensorhub/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// UtilsHandlers serves operational endpoints
type UtilsHandlers struct {
	service    *service.Service
	monitoring *monitoring.Service
}

type eventsQuery struct {
	Event  string        `schema:"event"`
	Window time.Duration `schema:"-"`
	Raw    string        `schema:"window"`
}

// @Summary Health
// @Tags utils
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *UtilsHandlers) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": nuts.GetVersion(),
	})
}

// @Summary Store health check
// @Description Pings the database
// @Tags utils
// @Produce json
// @Success 200 {boolean} bool
// @Failure 503 {object} errors.APIError
// @Router /utils/health-check/ [get]
func (h *UtilsHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := h.service.Health(r.Context()); err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, true)
}

// @Summary Domain event counts
// @Description Events recorded within the window (default 1h), keyed by event name
// @Tags utils
// @Produce json
// @Param event query string false "Event name prefix"
// @Param window query string false "Go duration, e.g. 30m"
// @Success 200 {object} map[string]int64
// @Failure 403 {object} errors.APIError
// @Router /utils/events [get]
// @Security BearerAuth
func (h *UtilsHandlers) Events(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if h.monitoring == nil {
		respondWithError(w, requestID, errors.NewUnavailableError("monitoring is not enabled", nil))
		return
	}

	q := eventsQuery{Window: time.Hour}
	if err := decodeQuery(r, &q); err != nil {
		respondWithError(w, requestID, err)
		return
	}
	if q.Raw != "" {
		d, err := time.ParseDuration(q.Raw)
		if err != nil || d <= 0 {
			respondWithError(w, requestID, errors.NewValidationError("window must be a positive duration", err))
			return
		}
		q.Window = d
	}

	counts, err := h.monitoring.GetEventMetrics(q.Event, q.Window)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, counts)
}
