package services

import (
	"context"
	"errors"
	"testing"

	"github.com/contenthub/backend/internal/models"
	"github.com/contenthub/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAdminUserRepository extends the user repository mock with admin methods
type mockAdminUserRepository struct {
	mockUserRepository
	listItems     []models.UserListItem
	listErr       error
	total         int
	countErr      error
	updateRoleErr error
	updatedUserID int
	updatedRoleID *int
	roleUpdated   bool
}

func (m *mockAdminUserRepository) GetAll(ctx context.Context, page, count int, roleID *int, search string) ([]models.UserListItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listItems, nil
}

func (m *mockAdminUserRepository) Count(ctx context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.total, nil
}

func (m *mockAdminUserRepository) UpdateRole(ctx context.Context, userID int, roleID *int) error {
	if m.updateRoleErr != nil {
		return m.updateRoleErr
	}
	m.roleUpdated = true
	m.updatedUserID = userID
	m.updatedRoleID = roleID
	return nil
}

// mockRoleRepository is a mock implementation of RoleRepository
type mockRoleRepository struct {
	roles []models.RoleInfo
	err   error
}

func (m *mockRoleRepository) GetAll(ctx context.Context) ([]models.RoleInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.roles, nil
}

func (m *mockRoleRepository) GetByID(ctx context.Context, id int) (*models.RoleInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.roles {
		if m.roles[i].ID == id {
			return &m.roles[i], nil
		}
	}
	return nil, repositories.ErrRoleNotFound
}

// mockStatsContentRepository is a mock implementation of StatsContentRepository
type mockStatsContentRepository struct {
	total     int
	byStatus  map[models.ContentStatus]int
	recent    []models.Content
	topViewed []models.Content
	err       error
}

func (m *mockStatsContentRepository) Count(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockStatsContentRepository) CountByStatus(ctx context.Context, status models.ContentStatus) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.byStatus[status], nil
}

func (m *mockStatsContentRepository) GetRecent(ctx context.Context, limit int) ([]models.Content, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recent, nil
}

func (m *mockStatsContentRepository) GetTopViewed(ctx context.Context, limit int) ([]models.Content, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.topViewed, nil
}

// adminActorRepo builds an admin user repository whose single user has the given role
func adminActorRepo(actorID int, role models.Role) *mockAdminUserRepository {
	return &mockAdminUserRepository{
		mockUserRepository: mockUserRepository{
			usersByID: map[int]*models.User{actorID: testUser(actorID, role)},
		},
	}
}

var defaultRoles = []models.RoleInfo{
	{ID: 1, Name: "user"},
	{ID: 2, Name: "editor"},
	{ID: 3, Name: "admin"},
}

func TestAdminService_ListRoles(t *testing.T) {
	tests := []struct {
		name          string
		role          models.Role
		expectedError error
	}{
		{name: "admin allowed", role: models.RoleAdmin},
		{name: "editor forbidden", role: models.RoleEditor, expectedError: ErrForbidden},
		{name: "user forbidden", role: models.RoleUser, expectedError: ErrForbidden},
		{name: "unassigned forbidden", role: models.RoleUnassigned, expectedError: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := adminActorRepo(1, tt.role)
			svc := NewAdminService(userRepo, &mockRoleRepository{roles: defaultRoles}, &mockStatsContentRepository{}, zap.NewNop())

			roles, err := svc.ListRoles(context.Background(), 1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, roles)
			} else {
				assert.NoError(t, err)
				assert.Len(t, roles, 3)
			}
		})
	}
}

func TestAdminService_ListUsers(t *testing.T) {
	t.Run("admin gets the list", func(t *testing.T) {
		userRepo := adminActorRepo(1, models.RoleAdmin)
		userRepo.listItems = []models.UserListItem{
			{ID: 1, Username: "alice"},
			{ID: 2, Username: "bob"},
		}
		svc := NewAdminService(userRepo, &mockRoleRepository{}, &mockStatsContentRepository{}, zap.NewNop())

		users, err := svc.ListUsers(context.Background(), 1, 0, 0, nil, "")

		assert.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("editor forbidden", func(t *testing.T) {
		userRepo := adminActorRepo(1, models.RoleEditor)
		svc := NewAdminService(userRepo, &mockRoleRepository{}, &mockStatsContentRepository{}, zap.NewNop())

		users, err := svc.ListUsers(context.Background(), 1, 1, 20, nil, "")

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, users)
	})
}

func TestAdminService_GetUser(t *testing.T) {
	t.Run("admin gets a user", func(t *testing.T) {
		userRepo := adminActorRepo(1, models.RoleAdmin)
		userRepo.usersByID[5] = testUser(5, models.RoleEditor)
		svc := NewAdminService(userRepo, &mockRoleRepository{}, &mockStatsContentRepository{}, zap.NewNop())

		user, err := svc.GetUser(context.Background(), 1, 5)

		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, 5, user.ID)
	})

	t.Run("unknown user reports not found", func(t *testing.T) {
		userRepo := adminActorRepo(1, models.RoleAdmin)
		svc := NewAdminService(userRepo, &mockRoleRepository{}, &mockStatsContentRepository{}, zap.NewNop())

		user, err := svc.GetUser(context.Background(), 1, 999)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, user)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		userRepo := adminActorRepo(1, models.RoleUser)
		userRepo.usersByID[5] = testUser(5, models.RoleEditor)
		svc := NewAdminService(userRepo, &mockRoleRepository{}, &mockStatsContentRepository{}, zap.NewNop())

		user, err := svc.GetUser(context.Background(), 1, 5)

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, user)
	})
}

func TestAdminService_AssignRole(t *testing.T) {
	editorRole := 2

	tests := []struct {
		name          string
		actorRole     models.Role
		targetExists  bool
		roleID        *int
		expectedError error
	}{
		{
			name:         "admin assigns editor role",
			actorRole:    models.RoleAdmin,
			targetExists: true,
			roleID:       &editorRole,
		},
		{
			name:         "admin clears a role",
			actorRole:    models.RoleAdmin,
			targetExists: true,
			roleID:       nil,
		},
		{
			name:          "editor forbidden",
			actorRole:     models.RoleEditor,
			targetExists:  true,
			roleID:        &editorRole,
			expectedError: ErrForbidden,
		},
		{
			name:          "missing target user",
			actorRole:     models.RoleAdmin,
			targetExists:  false,
			roleID:        &editorRole,
			expectedError: ErrNotFound,
		},
		{
			name:          "unknown role id is a validation error",
			actorRole:     models.RoleAdmin,
			targetExists:  true,
			roleID:        intPointer(42),
			expectedError: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := adminActorRepo(1, tt.actorRole)
			if tt.targetExists {
				userRepo.usersByID[5] = testUser(5, models.RoleUnassigned)
			}
			svc := NewAdminService(userRepo, &mockRoleRepository{roles: defaultRoles}, &mockStatsContentRepository{}, zap.NewNop())

			err := svc.AssignRole(context.Background(), 1, 5, tt.roleID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.False(t, userRepo.roleUpdated)
			} else {
				assert.NoError(t, err)
				assert.True(t, userRepo.roleUpdated)
				assert.Equal(t, 5, userRepo.updatedUserID)
				assert.Equal(t, tt.roleID, userRepo.updatedRoleID)
			}
		})
	}
}

func TestAdminService_Stats(t *testing.T) {
	t.Run("admin gets aggregated stats", func(t *testing.T) {
		userRepo := adminActorRepo(1, models.RoleAdmin)
		userRepo.total = 12
		contentRepo := &mockStatsContentRepository{
			total: 30,
			byStatus: map[models.ContentStatus]int{
				models.StatusPublished: 18,
				models.StatusDraft:     9,
				models.StatusArchived:  3,
			},
			recent:    []models.Content{{ID: 5, Title: "Newest"}},
			topViewed: []models.Content{{ID: 1, Title: "Popular", Views: 500}},
		}
		svc := NewAdminService(userRepo, &mockRoleRepository{}, contentRepo, zap.NewNop())

		stats, err := svc.Stats(context.Background(), 1)

		assert.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, 12, stats.TotalUsers)
		assert.Equal(t, 30, stats.TotalContent)
		assert.Equal(t, 18, stats.PublishedCount)
		assert.Equal(t, 9, stats.DraftCount)
		assert.Equal(t, 3, stats.ArchivedCount)
		require.Len(t, stats.RecentContent, 1)
		assert.Equal(t, "Newest", stats.RecentContent[0].Title)
		require.Len(t, stats.TopContent, 1)
		assert.Equal(t, 500, stats.TopContent[0].Views)
	})

	t.Run("editor forbidden", func(t *testing.T) {
		userRepo := adminActorRepo(1, models.RoleEditor)
		svc := NewAdminService(userRepo, &mockRoleRepository{}, &mockStatsContentRepository{}, zap.NewNop())

		stats, err := svc.Stats(context.Background(), 1)

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, stats)
	})

	t.Run("count failure surfaces", func(t *testing.T) {
		userRepo := adminActorRepo(1, models.RoleAdmin)
		contentRepo := &mockStatsContentRepository{err: errors.New("database error")}
		svc := NewAdminService(userRepo, &mockRoleRepository{}, contentRepo, zap.NewNop())

		stats, err := svc.Stats(context.Background(), 1)

		assert.Error(t, err)
		assert.Nil(t, stats)
	})
}

func intPointer(v int) *int {
	return &v
}
