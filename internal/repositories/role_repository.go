package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/contenthub/backend/internal/models"
)

// ErrRoleNotFound is returned when a referenced role does not exist
var ErrRoleNotFound = errors.New("role not found")

// roleRepository implements RoleRepository
type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *sql.DB) *roleRepository {
	return &roleRepository{
		db: db,
	}
}

// GetAll retrieves the immutable role set
func (r *roleRepository) GetAll(ctx context.Context) ([]models.RoleInfo, error) {
	query := `
		SELECT id, name, description
		FROM roles
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []models.RoleInfo
	for rows.Next() {
		var role models.RoleInfo
		var description sql.NullString
		if err := rows.Scan(&role.ID, &role.Name, &description); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		if description.Valid {
			role.Description = description.String
		}
		roles = append(roles, role)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return roles, nil
}

// GetByID retrieves a role by ID
func (r *roleRepository) GetByID(ctx context.Context, id int) (*models.RoleInfo, error) {
	query := `
		SELECT id, name, description
		FROM roles
		WHERE id = ?
		LIMIT 1
	`

	role := &models.RoleInfo{}
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&role.ID, &role.Name, &description)

	if err == sql.ErrNoRows {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role by id: %w", err)
	}

	if description.Valid {
		role.Description = description.String
	}

	return role, nil
}
