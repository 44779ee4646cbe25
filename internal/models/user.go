package models

import "time"

// User represents a user in the system
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	RoleID       *int      `json:"roleId,omitempty"`
	Role         Role      `json:"-"`
	RoleName     string    `json:"role,omitempty"` // resolved from roles table, empty if unassigned
	CreatedAt    time.Time `json:"createdAt"`
}

// UserListItem represents a user row in admin list responses
type UserListItem struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleName  string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Login    string `json:"login"` // email or username
	Password string `json:"password"`
}

// AssignRoleRequest represents a role assignment request.
// A nil RoleID clears the assignment back to unassigned.
type AssignRoleRequest struct {
	RoleID *int `json:"roleId"`
}

// UserToken represents a refresh token for a user
type UserToken struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Token  string `json:"token"`
}
