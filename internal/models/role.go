package models

// Role is the closed set of baseline privilege levels. The zero value is
// RoleUnassigned so a missing or unknown role always denies.
type Role int

const (
	RoleUnassigned Role = 0
	RoleUser       Role = 1
	RoleEditor     Role = 2
	RoleAdmin      Role = 3
)

// roleNames maps role enumeration values to their database names
var roleNames = map[Role]string{
	RoleUser:   "user",
	RoleEditor: "editor",
	RoleAdmin:  "admin",
}

// rolesByName is the reverse of roleNames
var rolesByName = map[string]Role{
	"user":   RoleUser,
	"editor": RoleEditor,
	"admin":  RoleAdmin,
}

// RoleFromName resolves a role name from the roles table into a Role.
// Unknown or empty names resolve to RoleUnassigned.
func RoleFromName(name string) Role {
	if role, ok := rolesByName[name]; ok {
		return role
	}
	return RoleUnassigned
}

// Name returns the canonical role name, or an empty string for RoleUnassigned
func (r Role) Name() string {
	return roleNames[r]
}

// RoleInfo represents a row of the roles table
type RoleInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
