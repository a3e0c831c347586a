package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/sensorhub/api/middleware"
	"github.com/itsatony/sensorhub/internal/models"
	"github.com/itsatony/sensorhub/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// UserHandlers serves account management
type UserHandlers struct {
	service *service.Service
}

// @Summary List users
// @Tags users
// @Produce json
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Page size, 0 means 100" default(100)
// @Success 200 {object} models.UsersPublic
// @Failure 403 {object} errors.APIError
// @Router /users/ [get]
// @Security BearerAuth
func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	page := models.DefaultPagination()
	if err := decodeQuery(r, &page); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.ListUsers(r.Context(), middleware.PrincipalFrom(r.Context()), page)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserCreate true "New account"
// @Success 200 {object} models.UserPublic
// @Failure 409 {object} errors.APIError
// @Router /users/ [post]
// @Security BearerAuth
func (h *UserHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var in models.UserCreate
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.CreateUser(r.Context(), middleware.PrincipalFrom(r.Context()), in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Register
// @Description Open sign-up, only when enabled
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserRegister true "New account"
// @Success 200 {object} models.UserPublic
// @Failure 403 {object} errors.APIError
// @Router /users/signup [post]
func (h *UserHandlers) Register(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var in models.UserRegister
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.Register(r.Context(), in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} models.UserPublic
// @Router /users/me [get]
// @Security BearerAuth
func (h *UserHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	out, err := h.service.GetMe(middleware.PrincipalFrom(r.Context()))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Update current user
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserUpdateMe true "Fields to change"
// @Success 200 {object} models.UserPublic
// @Failure 409 {object} errors.APIError
// @Router /users/me [patch]
// @Security BearerAuth
func (h *UserHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var in models.UserUpdateMe
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.UpdateMe(r.Context(), middleware.PrincipalFrom(r.Context()), in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Change own password
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.UpdatePassword true "Current and new password"
// @Success 200 {object} models.Message
// @Failure 400 {object} errors.APIError
// @Router /users/me/password [patch]
// @Security BearerAuth
func (h *UserHandlers) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var in models.UpdatePassword
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.UpdatePassword(r.Context(), middleware.PrincipalFrom(r.Context()), in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Delete current user
// @Tags users
// @Produce json
// @Success 200 {object} models.Message
// @Failure 403 {object} errors.APIError
// @Router /users/me [delete]
// @Security BearerAuth
func (h *UserHandlers) DeleteMe(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	out, err := h.service.DeleteMe(r.Context(), middleware.PrincipalFrom(r.Context()))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.UserPublic
// @Failure 403 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /users/{id} [get]
// @Security BearerAuth
func (h *UserHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := service.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.GetUser(r.Context(), middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body models.UserUpdate true "Fields to change"
// @Success 200 {object} models.UserPublic
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /users/{id} [patch]
// @Security BearerAuth
func (h *UserHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := service.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	var in models.UserUpdate
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.UpdateUser(r.Context(), middleware.PrincipalFrom(r.Context()), id, in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.Message
// @Failure 403 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /users/{id} [delete]
// @Security BearerAuth
func (h *UserHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, err := service.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.DeleteUser(r.Context(), middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}
