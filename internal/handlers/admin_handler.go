package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/contenthub/backend/internal/auth"
	"github.com/contenthub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for admin operations
type AdminService interface {
	// Method ListRoles returns the role set for user-management screens.
	ListRoles(ctx context.Context, actorID int) ([]models.RoleInfo, error)
	// Method ListUsers returns a paginated user list with optional role and search filters.
	ListUsers(ctx context.Context, actorID, page, count int, roleID *int, search string) ([]models.UserListItem, error)
	// Method GetUser returns a single user with the effective role resolved.
	GetUser(ctx context.Context, actorID, userID int) (*models.User, error)
	// Method AssignRole changes a user's role_id only. A nil roleID clears the assignment.
	AssignRole(ctx context.Context, actorID, userID int, roleID *int) error
	// Method Stats aggregates dashboard statistics for the admin panel.
	Stats(ctx context.Context, actorID int) (*models.StatsResponse, error)
}

// AdminHandler handles admin HTTP requests
type AdminHandler struct {
	BaseHandler
	service AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all admin handler routes
// Note: This assumes the router is already scoped to /api/v1 and behind the auth middleware
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/roles", h.ListRoles)
		r.Get("/users", h.ListUsers)
		r.Get("/users/{id}", h.GetUser)
		r.Put("/users/{id}/role", h.AssignRole)
		r.Get("/stats", h.Stats)
	})
}

// ListRoles handles GET /admin/roles
// @Summary List roles
// @Description Get the immutable role set. Requires the admin role.
// @Tags admin
// @Produce json
// @Success 200 {array} models.RoleInfo "List of roles"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security ApiKeyAuth
// @Router /admin/roles [get]
func (h *AdminHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	roles, err := h.service.ListRoles(r.Context(), actorID)
	if err != nil {
		h.LogServiceError("failed to list roles", err)
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, roles)
}

// ListUsers handles GET /admin/users
// @Summary List users
// @Description Get a paginated list of users with their effective role names. Requires the admin role.
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 20)"
// @Param roleId query int false "Filter by role ID"
// @Param search query string false "Search by username or email"
// @Success 200 {array} models.UserListItem "List of users"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	page := 1
	count := 20
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		if c, err := strconv.Atoi(countStr); err == nil && c > 0 {
			count = c
		}
	}

	var roleID *int
	if roleIDStr := r.URL.Query().Get("roleId"); roleIDStr != "" {
		id, err := strconv.Atoi(roleIDStr)
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid roleId filter")
			return
		}
		roleID = &id
	}

	search := strings.TrimSpace(r.URL.Query().Get("search"))

	users, err := h.service.ListUsers(r.Context(), actorID, page, count, roleID, search)
	if err != nil {
		h.LogServiceError("failed to list users", err)
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// GetUser handles GET /admin/users/{id}
// @Summary Get user by ID
// @Description Get a single user with the effective role resolved. Requires the admin role.
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User "User"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.service.GetUser(r.Context(), actorID, userID)
	if err != nil {
		h.LogServiceError("failed to get user", err, zap.Int("userId", userID))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// AssignRole handles PUT /admin/users/{id}/role
// @Summary Assign a role to a user
// @Description Change a user's role assignment. Only role_id is mutated; a null roleId clears the assignment. Requires the admin role.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.AssignRoleRequest true "Role assignment request"
// @Success 200 {object} map[string]string "Role assigned"
// @Failure 400 {object} map[string]string "Invalid request or unknown role"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req models.AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.AssignRole(r.Context(), actorID, userID, req.RoleID); err != nil {
		h.LogServiceError("failed to assign role", err, zap.Int("userId", userID))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "role assigned"})
}

// Stats handles GET /admin/stats
// @Summary Dashboard statistics
// @Description Get user/content totals, per-status counts, recent content and top content by views. Requires the admin role.
// @Tags admin
// @Produce json
// @Success 200 {object} models.StatsResponse "Dashboard statistics"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security ApiKeyAuth
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.service.Stats(r.Context(), actorID)
	if err != nil {
		h.LogServiceError("failed to get stats", err)
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}
