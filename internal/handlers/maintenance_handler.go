package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TokenCleaner is the interface that wraps the expired-token cleanup method
type TokenCleaner interface {
	// Method DeleteExpiredTokens deletes all refresh tokens created before expiryTime
	// and returns the number of deleted rows.
	DeleteExpiredTokens(ctx context.Context, expiryTime time.Time) (int, error)
}

// MaintenanceHandler handles API-key-gated maintenance requests
type MaintenanceHandler struct {
	BaseHandler
	tokens             TokenCleaner
	refreshTokenExpiry time.Duration
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(tokens TokenCleaner, logger *zap.Logger, refreshTokenExpiry time.Duration) *MaintenanceHandler {
	return &MaintenanceHandler{
		BaseHandler:        BaseHandler{Logger: logger},
		tokens:             tokens,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// RegisterRoutes registers all maintenance handler routes
// Note: Routes must be mounted behind the API key middleware
func (h *MaintenanceHandler) RegisterRoutes(r chi.Router) {
	r.Delete("/maintenance/tokens", h.CleanTokens)
}

// CleanTokens handles DELETE /maintenance/tokens
// @Summary Clean expired refresh tokens
// @Description Delete refresh tokens older than the configured refresh expiry. Requires the service API key.
// @Tags maintenance
// @Produce json
// @Success 200 {object} map[string]int "Number of deleted tokens"
// @Failure 401 {object} map[string]string "Invalid or missing API key"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /maintenance/tokens [delete]
func (h *MaintenanceHandler) CleanTokens(w http.ResponseWriter, r *http.Request) {
	expiryTime := time.Now().Add(-h.refreshTokenExpiry)

	deleted, err := h.tokens.DeleteExpiredTokens(r.Context(), expiryTime)
	if err != nil {
		h.Logger.Error("failed to clean expired tokens", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.Logger.Info("cleaned expired tokens", zap.Int("deleted", deleted))
	h.RespondJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}
