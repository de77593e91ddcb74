package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/schoolportal/internal/app/web"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// StatusFor maps an error to the HTTP status of the page that reports it.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated),
		errors.Is(err, apperrors.ErrSessionNotFound),
		errors.Is(err, apperrors.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrRowNotFound),
		errors.Is(err, apperrors.ErrUnknownField),
		errors.Is(err, apperrors.ErrLastRow),
		errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrStudentNotSaved):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrBackendUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrBackendRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleError re-renders page with the error's user-facing message as an
// alert. An empty page renders the generic error page. Outside the login
// page, an authentication failure (including a backend 401 for an expired
// token) sends the user to sign in again.
func HandleError(c *gin.Context, err error, page string, data gin.H) {
	status := StatusFor(err)

	event := log.Debug()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("Request failed")

	if errors.Is(err, apperrors.ErrUnauthenticated) && page != web.PageLogin {
		c.Redirect(http.StatusSeeOther, LoginPath)
		return
	}

	if page == "" {
		page = web.PageError
	}
	if data == nil {
		data = gin.H{}
	}
	data["Alert"] = apperrors.UserMessage(err)
	if _, ok := data["Session"]; !ok {
		if session := CurrentSession(c); session != nil {
			data["Session"] = session
		}
	}
	c.HTML(status, page, data)
}
