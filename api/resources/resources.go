package resources

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/monitoring"
	"github.com/itsatony/sensorhub/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// Options tunes the HTTP handlers.
type Options struct {
	MaxUploadSize int64
	Monitoring    *monitoring.Service
}

// Resources holds all HTTP resource handlers
type Resources struct {
	SensorData *SensorDataHandlers
	Users      *UserHandlers
	Login      *LoginHandlers
	Utils      *UtilsHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *service.Service, opts Options) *Resources {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 10 << 20
	}
	return &Resources{
		SensorData: &SensorDataHandlers{service: svc, maxUploadSize: opts.MaxUploadSize},
		Users:      &UserHandlers{service: svc},
		Login:      &LoginHandlers{service: svc},
		Utils:      &UtilsHandlers{service: svc, monitoring: opts.Monitoring},
	}
}

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// decodeQuery fills dst from the URL query with gorilla/schema.
func decodeQuery(r *http.Request, dst interface{}) error {
	if err := formDecoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.NewValidationError("invalid query parameters", err).WithDetails(err.Error())
	}
	return nil
}

// decodeJSON decodes the request body into dst. An empty body leaves dst untouched when optional.
func decodeJSON(r *http.Request, dst interface{}, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == io.EOF && optional {
		return nil
	}
	if err != nil {
		return errors.NewValidationError("invalid request body", err).WithDetails(err.Error())
	}
	return nil
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		nuts.L.Warnf("[API] Failed to encode response: %v", err)
	}
}

// respondWithError renders err using its APIError status. Other errors become an opaque 500.
func respondWithError(w http.ResponseWriter, requestID string, err error) {
	apiErr, ok := errors.As(err)
	if !ok {
		apiErr = errors.NewInternalError("Internal Server Error", err)
	}
	apiErr = apiErr.WithRequestID(requestID)
	if apiErr.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] Request %s failed: %v", requestID, err)
	}
	if apiErr.Code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	respondWithJSON(w, apiErr.Code, apiErr)
}
