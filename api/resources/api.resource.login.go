package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/sensorhub/api/middleware"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
	"github.com/itsatony/sensorhub/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// LoginHandlers serves token issuance and password recovery
type LoginHandlers struct {
	service *service.Service
}

// @Summary Access token
// @Description OAuth2 compatible token login
// @Tags login
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} models.Token
// @Failure 400 {object} errors.APIError
// @Router /login/access-token [post]
func (h *LoginHandlers) AccessToken(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := r.ParseForm(); err != nil {
		respondWithError(w, requestID, errors.NewValidationError("invalid form body", err))
		return
	}
	var form models.LoginForm
	if err := formDecoder.Decode(&form, r.PostForm); err != nil {
		respondWithError(w, requestID, errors.NewValidationError("username and password are required", err))
		return
	}

	token, err := h.service.Login(r.Context(), form)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, token)
}

// @Summary Test access token
// @Tags login
// @Produce json
// @Success 200 {object} models.UserPublic
// @Failure 401 {object} errors.APIError
// @Router /login/test-token [post]
// @Security BearerAuth
func (h *LoginHandlers) TestToken(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	out, err := h.service.TestToken(middleware.PrincipalFrom(r.Context()))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Logout
// @Description Revokes the presented token
// @Tags login
// @Produce json
// @Success 200 {object} models.Message
// @Router /logout [post]
// @Security BearerAuth
func (h *LoginHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	out, err := h.service.Logout(r.Context(), middleware.PrincipalFrom(r.Context()))
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Password recovery
// @Tags login
// @Produce json
// @Param email path string true "Account email"
// @Success 200 {object} models.Message
// @Failure 404 {object} errors.APIError
// @Router /password-recovery/{email} [post]
func (h *LoginHandlers) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	out, err := h.service.RecoverPassword(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// @Summary Reset password
// @Tags login
// @Accept json
// @Produce json
// @Param body body models.NewPassword true "Reset token and new password"
// @Success 200 {object} models.Message
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /reset-password/ [post]
func (h *LoginHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var in models.NewPassword
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, requestID, err)
		return
	}

	out, err := h.service.ResetPassword(r.Context(), in)
	if err != nil {
		respondWithError(w, requestID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}
