package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/sensorhub/api/middleware"
	"github.com/itsatony/sensorhub/internal/models"
	"github.com/itsatony/sensorhub/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// SensorDataHandlers encapsulates the sensor-data HTTP handlers
type SensorDataHandlers struct {
	service       *service.Service
	maxUploadSize int64
}

// @Summary List sensor data
// @Description Paginated readings ordered by timestamp descending, equipment id ascending
// @Tags sensor-data
// @Produce json
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Page size, 0 means 100" default(100)
// @Success 200 {object} models.SensorReadingsPublic
// @Failure 400 {object} errors.APIError
// @Router /sensor-data/ [get]
func (h *SensorDataHandlers) ListSensorData(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	page := models.DefaultPagination()
	if err := decodeQuery(r, &page); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.ListSensorData(r.Context(), page)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Get sensor data
// @Tags sensor-data
// @Produce json
// @Param id path string true "Reading ID"
// @Success 200 {object} models.SensorReadingPublic
// @Failure 404 {object} errors.APIError
// @Router /sensor-data/{id} [get]
func (h *SensorDataHandlers) GetSensorData(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := service.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.GetSensorData(r.Context(), id)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary List sensor data of one equipment
// @Tags sensor-data
// @Produce json
// @Param equipment_id path string true "Equipment ID"
// @Success 200 {object} models.SensorReadingsPublic
// @Router /sensor-data/equipment/{equipment_id} [get]
func (h *SensorDataHandlers) ListByEquipment(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	out, err := h.service.ListSensorDataByEquipment(r.Context(), mux.Vars(r)["equipment_id"])
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Equipment options
// @Description Distinct equipment ids as value/label pairs
// @Tags sensor-data
// @Produce json
// @Success 200 {object} models.EquipmentOptions
// @Router /sensor-data/options/equipment [get]
func (h *SensorDataHandlers) EquipmentOptions(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	out, err := h.service.EquipmentOptions(r.Context())
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Create sensor data
// @Tags sensor-data
// @Accept json
// @Produce json
// @Param reading body models.SensorReadingCreate true "Reading"
// @Success 200 {object} models.SensorReadingPublic
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Router /sensor-data/ [post]
// @Security BearerAuth
func (h *SensorDataHandlers) CreateSensorData(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var in models.SensorReadingCreate
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.CreateSensorData(r.Context(), middleware.PrincipalFrom(r.Context()), in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Update sensor data
// @Description Partial update; absent fields keep their stored values
// @Tags sensor-data
// @Accept json
// @Produce json
// @Param id path string true "Reading ID"
// @Param reading body models.SensorReadingUpdate true "Fields to change"
// @Success 200 {object} models.SensorReadingPublic
// @Failure 404 {object} errors.APIError
// @Router /sensor-data/{id} [put]
// @Security BearerAuth
func (h *SensorDataHandlers) UpdateSensorData(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := service.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	var in models.SensorReadingUpdate
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.UpdateSensorData(r.Context(), middleware.PrincipalFrom(r.Context()), id, in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Delete sensor data
// @Tags sensor-data
// @Produce json
// @Param id path string true "Reading ID"
// @Success 200 {object} models.Message
// @Failure 404 {object} errors.APIError
// @Router /sensor-data/{id} [delete]
// @Security BearerAuth
func (h *SensorDataHandlers) DeleteSensorData(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := service.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.DeleteSensorData(r.Context(), middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}
