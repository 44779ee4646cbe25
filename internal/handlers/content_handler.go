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

// ContentService is the interface that wraps methods for content business logic
type ContentService interface {
	// Method List retrieves content items visible to the actor.
	//
	// "filter" carries the optional category, status, search and pagination parameters.
	// Rows the actor may not view are filtered out.
	List(ctx context.Context, actorID int, filter models.ContentFilter) ([]models.ContentListItem, error)
	// Method Get retrieves a single content item and increments its view counter.
	//
	// If the actor may not view the item, the error will be returned together with "nil" value.
	Get(ctx context.Context, actorID, id int) (*models.Content, error)
	// Method Create creates a new content item authored by the actor.
	Create(ctx context.Context, actorID int, req *models.CreateContentRequest) (*models.Content, error)
	// Method Update modifies an existing content item if the ownership policy allows it.
	Update(ctx context.Context, actorID, id int, req *models.UpdateContentRequest) (*models.Content, error)
	// Method Delete permanently removes a content item if the ownership policy allows it.
	Delete(ctx context.Context, actorID, id int) error
}

// ContentHandler handles content CRUD HTTP requests
type ContentHandler struct {
	BaseHandler
	service ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(svc ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all content handler routes
// Note: This assumes the router is already scoped to /api/v1 and behind the auth middleware
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/content", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /content
// @Summary List content
// @Description Get a paginated list of content items visible to the current user, with optional category, status and search filters.
// @Tags content
// @Produce json
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status (draft, published, archived)"
// @Param search query string false "Search in title, excerpt, or body"
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 20)"
// @Success 200 {array} models.ContentListItem "List of content items"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security ApiKeyAuth
// @Router /content [get]
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter := models.ContentFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		Page:     1,
		Count:    20,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		if c, err := strconv.Atoi(countStr); err == nil && c > 0 {
			filter.Count = c
		}
	}

	items, err := h.service.List(r.Context(), actorID, filter)
	if err != nil {
		h.LogServiceError("failed to list content", err)
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, items)
}

// Get handles GET /content/{id}
// @Summary Get content by ID
// @Description Get full information about a content item. Each successful fetch increments the item's view counter.
// @Tags content
// @Produce json
// @Param id path int true "Content ID"
// @Success 200 {object} models.Content "Content item"
// @Failure 400 {object} map[string]string "Invalid content ID"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Content not found"
// @Security ApiKeyAuth
// @Router /content/{id} [get]
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid content ID")
		return
	}

	item, err := h.service.Get(r.Context(), actorID, id)
	if err != nil {
		h.LogServiceError("failed to get content", err, zap.Int("contentId", id))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, item)
}

// Create handles POST /content
// @Summary Create content
// @Description Create a new content item. The author is always the current user; any author supplied in the payload is ignored. Requires an editing role.
// @Tags content
// @Accept json
// @Produce json
// @Param request body models.CreateContentRequest true "Content creation request"
// @Success 201 {object} models.Content "Created content item"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security ApiKeyAuth
// @Router /content [post]
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		h.LogServiceError("failed to create content", err)
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, item)
}

// Update handles PUT /content/{id}
// @Summary Update content
// @Description Update a content item. Admins may update anything; editors only their own items.
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Content ID"
// @Param request body models.UpdateContentRequest true "Content update request"
// @Success 200 {object} models.Content "Updated content item"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Content not found"
// @Security ApiKeyAuth
// @Router /content/{id} [put]
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid content ID")
		return
	}

	var req models.UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.Update(r.Context(), actorID, id, &req)
	if err != nil {
		h.LogServiceError("failed to update content", err, zap.Int("contentId", id))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /content/{id}
// @Summary Delete content
// @Description Permanently delete a content item. Admins may delete anything; editors only their own items. There is no soft delete.
// @Tags content
// @Produce json
// @Param id path int true "Content ID"
// @Success 200 {object} map[string]string "Content deleted"
// @Failure 400 {object} map[string]string "Invalid content ID"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Content not found"
// @Security ApiKeyAuth
// @Router /content/{id} [delete]
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid content ID")
		return
	}

	if err := h.service.Delete(r.Context(), actorID, id); err != nil {
		h.LogServiceError("failed to delete content", err, zap.Int("contentId", id))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "content deleted"})
}
