package controllers

import (
	"errors"
	"net/http"

	"ChatBuddy/middleware"
	"ChatBuddy/pkg/services"
	"ChatBuddy/pkg/utils"

	"github.com/gin-gonic/gin"
)

// errorStatus maps the core error taxonomy onto an HTTP status, a short code and
// the message shown to the user.
func errorStatus(err error) (int, string, string) {
	var pe *services.ProviderError
	switch {
	case errors.Is(err, services.ErrDuplicateHandle):
		return http.StatusConflict, "duplicate_handle", "Username already exists"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "Invalid credentials"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not_found", "Chatbot not found"
	case errors.Is(err, services.ErrInvalidRole), errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", err.Error()
	case errors.Is(err, services.ErrEmptyGeneration):
		return http.StatusUnprocessableEntity, "empty_generation", "The model returned no content, please try again"
	case errors.Is(err, services.ErrNothingToRetry):
		return http.StatusConflict, "nothing_to_retry", "There is no unanswered message to retry"
	case errors.As(err, &pe):
		return http.StatusBadGateway, "provider_error", "The model is unavailable right now, please try again"
	default:
		return http.StatusInternalServerError, "internal", "Something went wrong, please try again"
	}
}

func respondError(c *gin.Context, err error) {
	status, _, msg := errorStatus(err)
	_ = c.Error(err)
	c.JSON(status, gin.H{"msg": msg})
}

// sessionFor builds the core session from the token subject and the :id route param.
func sessionFor(c *gin.Context) (services.Session, bool) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return services.Session{}, false
	}
	pid, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Chatbot not found"})
		return services.Session{}, false
	}
	return services.Session{UserID: uid, PersonaID: pid}, true
}
