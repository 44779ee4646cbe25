package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/contenthub/backend/internal/models"
	"go.uber.org/zap"
)

// ErrUserNotFound is returned when the requested user does not exist
var ErrUserNotFound = errors.New("user not found")

// userRepository implements UserRepository
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role_id)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.RoleID)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByEmailOrUsername retrieves a user by email or username
func (r *userRepository) GetByEmailOrUsername(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.role_id, r.name, u.created_at
		FROM users u
		LEFT JOIN roles r ON u.role_id = r.id
		WHERE u.email = ? OR u.username = ?
		LIMIT 1
	`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, login, login))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email or username", zap.Error(err), zap.String("login", login))
		return nil, fmt.Errorf("failed to get user by email or username: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID with the effective role resolved
func (r *userRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.role_id, r.name, u.created_at
		FROM users u
		LEFT JOIN roles r ON u.role_id = r.id
		WHERE u.id = ?
		LIMIT 1
	`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("userId", userID))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// scanUser scans a single user row with the joined role name.
// An unresolved role_id leaves the user at RoleUnassigned.
func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var roleID sql.NullInt64
	var roleName sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&roleID,
		&roleName,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if roleID.Valid {
		id := int(roleID.Int64)
		user.RoleID = &id
	}
	if roleName.Valid {
		user.RoleName = roleName.String
	}
	user.Role = models.RoleFromName(user.RoleName)

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ExistsByUsername checks if a user exists with the given username
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE username = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, username).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check username existence", zap.Error(err), zap.String("username", username))
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// GetAll retrieves a paginated list of users with optional role and search filters
func (r *userRepository) GetAll(ctx context.Context, page, count int, roleID *int, search string) ([]models.UserListItem, error) {
	query := `
		SELECT u.id, u.username, u.email, r.name, u.created_at
		FROM users u
		LEFT JOIN roles r ON u.role_id = r.id
	`

	var conditions []string
	var args []any

	if roleID != nil {
		conditions = append(conditions, "u.role_id = ?")
		args = append(args, *roleID)
	}
	if search != "" {
		conditions = append(conditions, "(u.username LIKE ? OR u.email LIKE ?)")
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY u.id LIMIT ? OFFSET ?"
	args = append(args, count, (page-1)*count)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.UserListItem
	for rows.Next() {
		var user models.UserListItem
		var roleName sql.NullString
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &roleName, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if roleName.Valid {
			user.RoleName = roleName.String
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// Count returns the total number of users
func (r *userRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM users`

	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		r.logger.Error("failed to count users", zap.Error(err))
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return total, nil
}

// UpdateRole changes a user's role_id only. A nil roleID clears the
// assignment back to unassigned.
func (r *userRepository) UpdateRole(ctx context.Context, userID int, roleID *int) error {
	query := `
		UPDATE users
		SET role_id = ?
		WHERE id = ?
	`

	// No affected-rows check: MySQL reports 0 rows when the role did not
	// change, and re-assigning the same role is a valid request. The service
	// verifies user existence before calling this.
	if _, err := r.db.ExecContext(ctx, query, roleID, userID); err != nil {
		r.logger.Error("failed to update user role", zap.Error(err), zap.Int("userId", userID))
		return fmt.Errorf("failed to update user role: %w", err)
	}

	return nil
}
