package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/contenthub/backend/internal/services"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a service error to its HTTP status. Forbidden
// responses carry no resource detail and repository failures stay opaque.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		h.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		h.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// LogServiceError logs a failed operation. Denials and validation failures
// are routine request traffic and stay at Warn; anything unclassified is a
// server fault.
func (h *BaseHandler) LogServiceError(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch {
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidCredentials):
		h.Logger.Warn(msg, fields...)
	default:
		h.Logger.Error(msg, fields...)
	}
}
