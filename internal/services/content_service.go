package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/contenthub/backend/internal/models"
	"github.com/contenthub/backend/internal/policy"
	"github.com/contenthub/backend/internal/repositories"
	"go.uber.org/zap"
)

// ContentRepository is the interface that wraps methods for Content table data access
type ContentRepository interface {
	// Method GetAll retrieves content items matching the filter with pagination.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, filter models.ContentFilter) ([]models.Content, error)
	// Method GetByID retrieves a content item by its ID.
	//
	// If such content does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Content, error)
	// Method Create inserts a new content item and sets its ID.
	Create(ctx context.Context, content *models.Content) error
	// Method Update updates a content item's fields and refreshes its update timestamp.
	Update(ctx context.Context, id int, content *models.Content) error
	// Method Delete permanently removes a content item.
	Delete(ctx context.Context, id int) error
	// Method UpdateViews writes an absolute view count back to the row.
	UpdateViews(ctx context.Context, id, views int) error
}

// contentService implements ContentService
type contentService struct {
	contentRepo ContentRepository
	userRepo    UserRepository
	logger      *zap.Logger
}

// NewContentService creates a new content service
func NewContentService(contentRepo ContentRepository, userRepo UserRepository, logger *zap.Logger) *contentService {
	return &contentService{
		contentRepo: contentRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// resolveActorRole loads the actor's effective role for this request. A
// missing user row resolves to RoleUnassigned, which denies everything
// privileged.
func resolveActorRole(ctx context.Context, userRepo UserRepository, actorID int) (models.Role, error) {
	user, err := userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.RoleUnassigned, nil
		}
		return models.RoleUnassigned, err
	}
	return user.Role, nil
}

// List retrieves content items visible to the actor. Every row passes
// through the same view predicate the detail endpoint uses.
func (s *contentService) List(ctx context.Context, actorID int, filter models.ContentFilter) ([]models.ContentListItem, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Count < 1 {
		filter.Count = 20
	}

	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	items, err := s.contentRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	visible := make([]models.ContentListItem, 0, len(items))
	for _, item := range items {
		if !policy.CanViewContent(role, actorID, item.AuthorID, item.Status, item.Visibility) {
			continue
		}
		visible = append(visible, models.ContentListItem{
			ID:         item.ID,
			Title:      item.Title,
			Excerpt:    item.Excerpt,
			AuthorID:   item.AuthorID,
			AuthorName: item.AuthorName,
			Status:     item.Status,
			Category:   item.Category,
			Visibility: item.Visibility,
			Views:      item.Views,
			UpdatedAt:  item.UpdatedAt,
		})
	}

	return visible, nil
}

// Get retrieves a single content item and counts the view. The counter is a
// plain read-modify-write without a transaction; concurrent reads may lose
// an increment and a failed write never fails the read.
func (s *contentService) Get(ctx context.Context, actorID, id int) (*models.Content, error) {
	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	item, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrContentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !policy.CanViewContent(role, actorID, item.AuthorID, item.Status, item.Visibility) {
		return nil, ErrForbidden
	}

	item.Views++
	if err := s.contentRepo.UpdateViews(ctx, id, item.Views); err != nil {
		s.logger.Warn("failed to update view count", zap.Int("contentId", id), zap.Error(err))
	}

	return item, nil
}

// Create creates a new content item authored by the actor. Authorization is
// checked before validation, and the author is always the creating actor
// regardless of the payload.
func (s *contentService) Create(ctx context.Context, actorID int, req *models.CreateContentRequest) (*models.Content, error) {
	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	if !policy.CanEditContent(role) {
		return nil, ErrForbidden
	}

	title, status, visibility, err := validateContentFields(req.Title, req.Status, req.Visibility)
	if err != nil {
		return nil, err
	}

	content := &models.Content{
		Title:      title,
		Excerpt:    strings.TrimSpace(req.Excerpt),
		Body:       req.Body,
		AuthorID:   actorID,
		Status:     status,
		Category:   strings.TrimSpace(req.Category),
		Tags:       normalizeTags(req.Tags),
		Visibility: visibility,
	}

	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, err
	}

	return content, nil
}

// Update modifies an existing content item. The order is fixed: existence,
// then ownership policy, then validation.
func (s *contentService) Update(ctx context.Context, actorID, id int, req *models.UpdateContentRequest) (*models.Content, error) {
	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	existing, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrContentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !policy.CanModifyContent(role, actorID, existing.AuthorID) {
		return nil, ErrForbidden
	}

	title, status, visibility, err := validateContentFields(req.Title, req.Status, req.Visibility)
	if err != nil {
		return nil, err
	}

	existing.Title = title
	existing.Excerpt = strings.TrimSpace(req.Excerpt)
	existing.Body = req.Body
	existing.Status = status
	existing.Category = strings.TrimSpace(req.Category)
	existing.Tags = normalizeTags(req.Tags)
	existing.Visibility = visibility

	if err := s.contentRepo.Update(ctx, id, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete permanently removes a content item after the ownership policy check
func (s *contentService) Delete(ctx context.Context, actorID, id int) error {
	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}

	existing, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrContentNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !policy.CanModifyContent(role, actorID, existing.AuthorID) {
		return ErrForbidden
	}

	if err := s.contentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrContentNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

// validateContentFields checks the writable enum fields and applies the
// documented defaults (draft status, public visibility)
func validateContentFields(title, status, visibility string) (string, models.ContentStatus, models.ContentVisibility, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", "", fmt.Errorf("%w: title is required", ErrValidation)
	}

	contentStatus := models.StatusDraft
	if status != "" {
		contentStatus = models.ContentStatus(status)
		if !contentStatus.IsValid() {
			return "", "", "", fmt.Errorf("%w: invalid status %q", ErrValidation, status)
		}
	}

	contentVisibility := models.VisibilityPublic
	if visibility != "" {
		contentVisibility = models.ContentVisibility(visibility)
		if !contentVisibility.IsValid() {
			return "", "", "", fmt.Errorf("%w: invalid visibility %q", ErrValidation, visibility)
		}
	}

	return title, contentStatus, contentVisibility, nil
}

// normalizeTags trims tags and drops empty ones, preserving order
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}
