package handlers

import (
	"errors"
	"net/http"

	"jobboard/internal/domain"
	"jobboard/internal/http/middleware"
	"jobboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const msgInternal = "something went wrong, please try again"

// ErrorResponse is the error payload of every endpoint.
type ErrorResponse struct {
	Status      int               `json:"status"`
	Message     string            `json:"message"`
	Code        string            `json:"code"`
	RequestID   string            `json:"request_id,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, fields map[string]string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:      status,
		Message:     message,
		Code:        code,
		RequestID:   middleware.GetRequestID(c),
		FieldErrors: fields,
	})
}

// RespondDomainError maps domain errors to HTTP responses. Internal causes
// are logged, never sent.
func RespondDomainError(c *gin.Context, err error) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, "validation_error", validationMessage(verr), validationFields(verr))
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case errors.Is(err, services.ErrInactiveUser):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	default:
		_ = c.Error(err)
		logrus.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
		}).WithError(errors.Unwrap(err)).Error(err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", msgInternal, nil)
	}
}

func validationMessage(e domain.ValidationError) string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Error()
}

func validationFields(e domain.ValidationError) map[string]string {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	if e.Field != "" && e.Msg != "" {
		return map[string]string{e.Field: e.Msg}
	}
	return nil
}
