package resources

import (
	stderrors "errors"
	"mime/multipart"
	"net/http"

	"github.com/itsatony/sensorhub/api/middleware"
	"github.com/itsatony/sensorhub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

const (
	csvFileField      = "sensor_data_csv_file"
	csvFileFieldAlias = "file"
	multipartMemory   = 8 << 20
)

// @Summary Import sensor data from CSV
// @Description Inserts every valid row; invalid rows are counted and skipped
// @Tags sensor-data
// @Accept multipart/form-data
// @Produce json
// @Param sensor_data_csv_file formData file true "CSV file with equipment_id, value and optional timestamp columns"
// @Success 200 {object} models.ImportOutcome
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Failure 403 {object} errors.APIError
// @Router /sensor-data/csv [post]
// @Security BearerAuth
func (h *SensorDataHandlers) ImportCSV(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	file, header, err := uploadedCSV(r)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	defer file.Close()

	nuts.L.Debugf("[ImportHandler] Request %s importing %s (%d bytes)", requestID, header.Filename, header.Size)
	out, err := h.service.ImportCSV(r.Context(), middleware.PrincipalFrom(r.Context()), file)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

func uploadedCSV(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, nil, errors.NewValidationError("upload exceeds the maximum allowed size", err)
		}
		return nil, nil, errors.NewValidationError("request must be multipart/form-data", err)
	}

	for _, field := range []string{csvFileField, csvFileFieldAlias} {
		file, header, err := r.FormFile(field)
		if err == nil {
			return file, header, nil
		}
		if !stderrors.Is(err, http.ErrMissingFile) {
			return nil, nil, errors.NewValidationError("uploaded file could not be read", err)
		}
	}
	return nil, nil, errors.NewValidationError("missing form field "+csvFileField, nil)
}
