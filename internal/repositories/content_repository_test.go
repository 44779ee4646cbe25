package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/contenthub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contentColumns = []string{
	"id", "title", "excerpt", "body", "author_id", "username",
	"status", "category", "tags", "visibility", "views", "created_at", "updated_at",
}

// setupContentTestRepository creates a content repository with a mock database
func setupContentTestRepository(t *testing.T) (*contentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewContentRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestContentRepository_GetAll(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("no filters", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(contentColumns).
			AddRow(1, "First post", "intro", "body text", 10, "alice",
				"published", "news", `["go","web"]`, "public", 5, now, now).
			AddRow(2, "Second post", nil, nil, 11, nil,
				"draft", nil, nil, "private", 0, now, now)
		mock.ExpectQuery(`SELECT c.id, c.title, c.excerpt, c.body, c.author_id, u.username`).
			WithArgs(20, 0).
			WillReturnRows(rows)

		items, err := repo.GetAll(context.Background(), models.ContentFilter{Page: 1, Count: 20})

		assert.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "First post", items[0].Title)
		assert.Equal(t, []string{"go", "web"}, items[0].Tags)
		assert.Equal(t, "alice", items[0].AuthorName)
		assert.Empty(t, items[1].AuthorName)
		assert.Equal(t, []string{}, items[1].Tags)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("category, status and search filters", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(contentColumns).
			AddRow(3, "Go release notes", "summary", "details", 10, "alice",
				"published", "news", `[]`, "public", 12, now, now)
		mock.ExpectQuery(`SELECT c.id, c.title, c.excerpt, c.body, c.author_id, u.username`).
			WithArgs("news", "published", "%go%", "%go%", "%go%", 10, 10).
			WillReturnRows(rows)

		items, err := repo.GetAll(context.Background(), models.ContentFilter{
			Category: "news",
			Status:   "published",
			Search:   "go",
			Page:     2,
			Count:    10,
		})

		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Go release notes", items[0].Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT c.id, c.title, c.excerpt, c.body, c.author_id, u.username`).
			WithArgs(20, 0).
			WillReturnError(errors.New("database error"))

		items, err := repo.GetAll(context.Background(), models.ContentFilter{Page: 1, Count: 20})

		assert.Error(t, err)
		assert.Nil(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt tags column", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(contentColumns).
			AddRow(1, "First post", "intro", "body", 10, "alice",
				"published", "news", `not-json`, "public", 5, now, now)
		mock.ExpectQuery(`SELECT c.id, c.title, c.excerpt, c.body, c.author_id, u.username`).
			WithArgs(20, 0).
			WillReturnRows(rows)

		items, err := repo.GetAll(context.Background(), models.ContentFilter{Page: 1, Count: 20})

		assert.Error(t, err)
		assert.Nil(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContentRepository_GetByID(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		id            int
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		check         func(*testing.T, *models.Content)
	}{
		{
			name: "success",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(contentColumns).
					AddRow(1, "First post", "intro", "body text", 10, "alice",
						"published", "news", `["go"]`, "registered", 5, now, now)
				mock.ExpectQuery(`WHERE c.id = \?`).
					WithArgs(1).
					WillReturnRows(rows)
			},
			check: func(t *testing.T, item *models.Content) {
				assert.Equal(t, 1, item.ID)
				assert.Equal(t, models.StatusPublished, item.Status)
				assert.Equal(t, models.VisibilityRegistered, item.Visibility)
				assert.Equal(t, []string{"go"}, item.Tags)
				assert.Equal(t, 5, item.Views)
			},
		},
		{
			name: "not found",
			id:   999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE c.id = \?`).
					WithArgs(999).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: ErrContentNotFound,
		},
		{
			name: "database error",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE c.id = \?`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupContentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			item, err := repo.GetByID(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, item)
				if errors.Is(tt.expectedError, ErrContentNotFound) {
					assert.ErrorIs(t, err, ErrContentNotFound)
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, item)
				tt.check(t, item)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContentRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		content       *models.Content
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedID    int
	}{
		{
			name: "success",
			content: &models.Content{
				Title:      "New post",
				Excerpt:    "intro",
				Body:       "body",
				AuthorID:   10,
				Status:     models.StatusDraft,
				Category:   "news",
				Tags:       []string{"go"},
				Visibility: models.VisibilityPublic,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO content`).
					WithArgs("New post", "intro", "body", 10, models.StatusDraft, "news", `["go"]`, models.VisibilityPublic).
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			expectedID: 42,
		},
		{
			name: "nil tags stored as empty array",
			content: &models.Content{
				Title:      "New post",
				AuthorID:   10,
				Status:     models.StatusDraft,
				Visibility: models.VisibilityPublic,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO content`).
					WithArgs("New post", "", "", 10, models.StatusDraft, "", `[]`, models.VisibilityPublic).
					WillReturnResult(sqlmock.NewResult(43, 1))
			},
			expectedID: 43,
		},
		{
			name: "database error",
			content: &models.Content{
				Title:      "New post",
				AuthorID:   10,
				Status:     models.StatusDraft,
				Visibility: models.VisibilityPublic,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO content`).
					WithArgs("New post", "", "", 10, models.StatusDraft, "", `[]`, models.VisibilityPublic).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupContentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.content)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.content.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContentRepository_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE content`).
			WithArgs("Updated", "new intro", "new body", models.StatusPublished, "tech", `["go"]`, models.VisibilityPrivate, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), 1, &models.Content{
			Title:      "Updated",
			Excerpt:    "new intro",
			Body:       "new body",
			Status:     models.StatusPublished,
			Category:   "tech",
			Tags:       []string{"go"},
			Visibility: models.VisibilityPrivate,
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE content`).
			WithArgs("Updated", "", "", models.StatusDraft, "", `[]`, models.VisibilityPublic, 1).
			WillReturnError(errors.New("database error"))

		err := repo.Update(context.Background(), 1, &models.Content{
			Title:      "Updated",
			Status:     models.StatusDraft,
			Visibility: models.VisibilityPublic,
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContentRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		id            int
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM content WHERE id = \?`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found - 0 rows affected",
			id:   999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM content WHERE id = \?`).
					WithArgs(999).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: ErrContentNotFound,
		},
		{
			name: "database error",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM content WHERE id = \?`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupContentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Delete(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectedError, ErrContentNotFound) {
					assert.ErrorIs(t, err, ErrContentNotFound)
				}
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContentRepository_UpdateViews(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE content SET views = \? WHERE id = \?`).
			WithArgs(6, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateViews(context.Background(), 1, 6)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE content SET views = \? WHERE id = \?`).
			WithArgs(6, 1).
			WillReturnError(errors.New("database error"))

		err := repo.UpdateViews(context.Background(), 1, 6)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContentRepository_Counts(t *testing.T) {
	t.Run("count all", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(17)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM content`).
			WillReturnRows(rows)

		total, err := repo.Count(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 17, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count by status", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(4)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM content WHERE status = \?`).
			WithArgs(models.StatusDraft).
			WillReturnRows(rows)

		total, err := repo.CountByStatus(context.Background(), models.StatusDraft)

		assert.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContentRepository_GetRecentAndTopViewed(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("recent", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(contentColumns).
			AddRow(2, "Newest", nil, nil, 10, "alice",
				"draft", nil, `[]`, "public", 0, now, now)
		mock.ExpectQuery(`ORDER BY c.created_at DESC`).
			WithArgs(5).
			WillReturnRows(rows)

		items, err := repo.GetRecent(context.Background(), 5)

		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Newest", items[0].Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("top viewed", func(t *testing.T) {
		repo, mock, cleanup := setupContentTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(contentColumns).
			AddRow(1, "Popular", nil, nil, 10, "alice",
				"published", nil, `[]`, "public", 500, now, now)
		mock.ExpectQuery(`ORDER BY c.views DESC`).
			WithArgs(5).
			WillReturnRows(rows)

		items, err := repo.GetTopViewed(context.Background(), 5)

		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 500, items[0].Views)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
