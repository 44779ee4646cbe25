package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/contenthub/backend/internal/models"
	"github.com/contenthub/backend/internal/policy"
	"github.com/contenthub/backend/internal/repositories"
	"go.uber.org/zap"
)

// RoleRepository is the interface that wraps methods for Role table data access
type RoleRepository interface {
	// Method GetAll retrieves the immutable role set.
	GetAll(ctx context.Context) ([]models.RoleInfo, error)
	// Method GetByID retrieves a role by ID.
	//
	// If such role does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.RoleInfo, error)
}

// AdminUserRepository is the interface that wraps user methods used by admin operations
type AdminUserRepository interface {
	UserRepository
	// Method GetAll retrieves a paginated user list with optional role and search filters.
	GetAll(ctx context.Context, page, count int, roleID *int, search string) ([]models.UserListItem, error)
	// Method Count returns the total number of users.
	Count(ctx context.Context) (int, error)
	// Method UpdateRole changes a user's role_id only.
	UpdateRole(ctx context.Context, userID int, roleID *int) error
}

// StatsContentRepository is the interface that wraps content methods used for dashboard statistics
type StatsContentRepository interface {
	// Method Count returns the total number of content items.
	Count(ctx context.Context) (int, error)
	// Method CountByStatus returns the number of content items in the given status.
	CountByStatus(ctx context.Context, status models.ContentStatus) (int, error)
	// Method GetRecent retrieves the most recently created content items.
	GetRecent(ctx context.Context, limit int) ([]models.Content, error)
	// Method GetTopViewed retrieves the content items with the most views.
	GetTopViewed(ctx context.Context, limit int) ([]models.Content, error)
}

// adminService implements AdminService
type adminService struct {
	userRepo    AdminUserRepository
	roleRepo    RoleRepository
	contentRepo StatsContentRepository
	logger      *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo AdminUserRepository,
	roleRepo RoleRepository,
	contentRepo StatsContentRepository,
	logger *zap.Logger,
) *adminService {
	return &adminService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		contentRepo: contentRepo,
		logger:      logger,
	}
}

// ListRoles returns the role set for user-management screens
func (s *adminService) ListRoles(ctx context.Context, actorID int) ([]models.RoleInfo, error) {
	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageUsers(role) {
		return nil, ErrForbidden
	}

	return s.roleRepo.GetAll(ctx)
}

// ListUsers returns a paginated user list with effective role names
func (s *adminService) ListUsers(ctx context.Context, actorID, page, count int, roleID *int, search string) ([]models.UserListItem, error) {
	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageUsers(role) {
		return nil, ErrForbidden
	}

	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 20
	}

	return s.userRepo.GetAll(ctx, page, count, roleID, search)
}

// GetUser returns a single user with the effective role resolved
func (s *adminService) GetUser(ctx context.Context, actorID, userID int) (*models.User, error) {
	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageUsers(role) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

// AssignRole changes a user's role_id only. The role must reference an
// existing role row; a nil roleID clears the assignment. There is no audit
// trail.
func (s *adminService) AssignRole(ctx context.Context, actorID, userID int, roleID *int) error {
	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if !policy.CanManageUsers(role) {
		return ErrForbidden
	}

	// Target user must exist
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}

	// Assigned role must exist
	if roleID != nil {
		if _, err := s.roleRepo.GetByID(ctx, *roleID); err != nil {
			if errors.Is(err, repositories.ErrRoleNotFound) {
				return fmt.Errorf("%w: role %d does not exist", ErrValidation, *roleID)
			}
			return err
		}
	}

	return s.userRepo.UpdateRole(ctx, userID, roleID)
}

// Stats aggregates dashboard statistics for the admin panel
func (s *adminService) Stats(ctx context.Context, actorID int) (*models.StatsResponse, error) {
	role, err := resolveActorRole(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessAdminPanel(role) {
		return nil, ErrForbidden
	}

	stats := &models.StatsResponse{}

	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.TotalContent, err = s.contentRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count content: %w", err)
	}
	if stats.PublishedCount, err = s.contentRepo.CountByStatus(ctx, models.StatusPublished); err != nil {
		return nil, fmt.Errorf("failed to count published content: %w", err)
	}
	if stats.DraftCount, err = s.contentRepo.CountByStatus(ctx, models.StatusDraft); err != nil {
		return nil, fmt.Errorf("failed to count draft content: %w", err)
	}
	if stats.ArchivedCount, err = s.contentRepo.CountByStatus(ctx, models.StatusArchived); err != nil {
		return nil, fmt.Errorf("failed to count archived content: %w", err)
	}

	recent, err := s.contentRepo.GetRecent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent content: %w", err)
	}
	stats.RecentContent = toListItems(recent)

	top, err := s.contentRepo.GetTopViewed(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to get top content: %w", err)
	}
	stats.TopContent = toListItems(top)

	return stats, nil
}

// toListItems maps full content rows to list items
func toListItems(items []models.Content) []models.ContentListItem {
	list := make([]models.ContentListItem, len(items))
	for i, item := range items {
		list[i] = models.ContentListItem{
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
		}
	}
	return list
}
