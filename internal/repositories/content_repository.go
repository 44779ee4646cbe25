package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/contenthub/backend/internal/models"
)

// ErrContentNotFound is returned when the requested content item does not exist
var ErrContentNotFound = errors.New("content not found")

// contentRepository implements ContentRepository
type contentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *sql.DB) *contentRepository {
	return &contentRepository{
		db: db,
	}
}

// marshalTags encodes the tag list for the JSON column. A nil list is
// stored as an empty array so reads never see NULL.
func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(data), nil
}

// unmarshalTags decodes the JSON tags column
func unmarshalTags(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	return tags, nil
}

// GetAll retrieves content items with optional category/status/search filters
// and pagination, newest first
func (r *contentRepository) GetAll(ctx context.Context, filter models.ContentFilter) ([]models.Content, error) {
	query := `
		SELECT c.id, c.title, c.excerpt, c.body, c.author_id, u.username,
		       c.status, c.category, c.tags, c.visibility, c.views, c.created_at, c.updated_at
		FROM content c
		LEFT JOIN users u ON c.author_id = u.id
	`

	var conditions []string
	var args []any

	if filter.Category != "" {
		conditions = append(conditions, "c.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		conditions = append(conditions, "c.status = ?")
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(c.title LIKE ? OR c.excerpt LIKE ? OR c.body LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY c.updated_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Count, (filter.Page-1)*filter.Count)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// GetByID retrieves a content item by ID
func (r *contentRepository) GetByID(ctx context.Context, id int) (*models.Content, error) {
	query := `
		SELECT c.id, c.title, c.excerpt, c.body, c.author_id, u.username,
		       c.status, c.category, c.tags, c.visibility, c.views, c.created_at, c.updated_at
		FROM content c
		LEFT JOIN users u ON c.author_id = u.id
		WHERE c.id = ?
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	item, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content by id: %w", err)
	}

	return item, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanContent scans a single content row with the joined author username
func scanContent(row scanner) (*models.Content, error) {
	item := &models.Content{}
	var excerpt, body, category, authorName, rawTags sql.NullString

	err := row.Scan(
		&item.ID,
		&item.Title,
		&excerpt,
		&body,
		&item.AuthorID,
		&authorName,
		&item.Status,
		&category,
		&rawTags,
		&item.Visibility,
		&item.Views,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	if excerpt.Valid {
		item.Excerpt = excerpt.String
	}
	if body.Valid {
		item.Body = body.String
	}
	if category.Valid {
		item.Category = category.String
	}
	if authorName.Valid {
		item.AuthorName = authorName.String
	}

	tags, err := unmarshalTags(rawTags)
	if err != nil {
		return nil, err
	}
	item.Tags = tags

	return item, nil
}

// Create inserts a new content item and sets its ID
func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	tags, err := marshalTags(content.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO content (title, excerpt, body, author_id, status, category, tags, visibility)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		content.Title,
		content.Excerpt,
		content.Body,
		content.AuthorID,
		content.Status,
		content.Category,
		tags,
		content.Visibility,
	)
	if err != nil {
		return fmt.Errorf("failed to create content: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	content.ID = int(id)
	return nil
}

// Update updates a content item's fields and refreshes updated_at.
// The author column is never touched, ownership is fixed at creation.
func (r *contentRepository) Update(ctx context.Context, id int, content *models.Content) error {
	tags, err := marshalTags(content.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE content
		SET title = ?, excerpt = ?, body = ?, status = ?, category = ?, tags = ?, visibility = ?, updated_at = NOW()
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query,
		content.Title,
		content.Excerpt,
		content.Body,
		content.Status,
		content.Category,
		tags,
		content.Visibility,
		id,
	); err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}

	return nil
}

// Delete permanently removes a content item
func (r *contentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM content WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrContentNotFound
	}

	return nil
}

// UpdateViews writes an absolute view count back to the row. The caller
// computes the new value from a previous read; the read-modify-write pair is
// deliberately not transactional and concurrent readers may under-count.
func (r *contentRepository) UpdateViews(ctx context.Context, id, views int) error {
	query := `UPDATE content SET views = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, views, id); err != nil {
		return fmt.Errorf("failed to update views: %w", err)
	}

	return nil
}

// Count returns the total number of content items
func (r *contentRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM content`

	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count content: %w", err)
	}

	return total, nil
}

// CountByStatus returns the number of content items in the given status
func (r *contentRepository) CountByStatus(ctx context.Context, status models.ContentStatus) (int, error) {
	query := `SELECT COUNT(*) FROM content WHERE status = ?`

	var total int
	if err := r.db.QueryRowContext(ctx, query, status).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count content by status: %w", err)
	}

	return total, nil
}

// GetRecent retrieves the most recently created content items
func (r *contentRepository) GetRecent(ctx context.Context, limit int) ([]models.Content, error) {
	query := `
		SELECT c.id, c.title, c.excerpt, c.body, c.author_id, u.username,
		       c.status, c.category, c.tags, c.visibility, c.views, c.created_at, c.updated_at
		FROM content c
		LEFT JOIN users u ON c.author_id = u.id
		ORDER BY c.created_at DESC
		LIMIT ?
	`

	return r.queryList(ctx, query, limit)
}

// GetTopViewed retrieves the content items with the most views
func (r *contentRepository) GetTopViewed(ctx context.Context, limit int) ([]models.Content, error) {
	query := `
		SELECT c.id, c.title, c.excerpt, c.body, c.author_id, u.username,
		       c.status, c.category, c.tags, c.visibility, c.views, c.created_at, c.updated_at
		FROM content c
		LEFT JOIN users u ON c.author_id = u.id
		ORDER BY c.views DESC
		LIMIT ?
	`

	return r.queryList(ctx, query, limit)
}

// queryList runs a content query and scans all rows
func (r *contentRepository) queryList(ctx context.Context, query string, args ...any) ([]models.Content, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}
