package resources

import (
	"net/http"

	"github.com/itsatony/sensorhub/api/middleware"
	"github.com/itsatony/sensorhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// @Summary Line chart
// @Description Hourly averages per equipment over the last 24 hours
// @Tags dashboard
// @Accept json
// @Produce json
// @Param filter body models.LineChartRequest false "Optional equipment allow-list"
// @Success 200 {object} models.LineChartPublic
// @Failure 401 {object} errors.APIError
// @Router /sensor-data/dashboard/line-chart [post]
// @Security BearerAuth
func (h *SensorDataHandlers) LineChart(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req models.LineChartRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.LineChart(r.Context(), middleware.PrincipalFrom(r.Context()), req)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Bar chart
// @Description Per-equipment averages over the window selected by fetch_mode (1=24h, 2=48h, 3=week, 4=month)
// @Tags dashboard
// @Accept json
// @Produce json
// @Param query body models.BarChartRequest true "Window, page and filter"
// @Success 200 {object} models.BarChartPublic
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Router /sensor-data/dashboard/bar-chart [post]
// @Security BearerAuth
func (h *SensorDataHandlers) BarChart(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req models.BarChartRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.BarChart(r.Context(), middleware.PrincipalFrom(r.Context()), req)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}
