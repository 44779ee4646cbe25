// Package policy contains the access-control decision functions.
//
// Every predicate is pure and total: it is defined for every Role value
// including RoleUnassigned, never fails, and denies on anything it does not
// recognize. Callers resolve the actor's role per request and pass it in
// explicitly; the package keeps no state and is safe for concurrent use.
package policy

import "github.com/contenthub/backend/internal/models"

// CanAccessAdminPanel reports whether the role may open the admin dashboard
func CanAccessAdminPanel(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanManageUsers reports whether the role may list users and assign roles
func CanManageUsers(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanEditContent reports whether the role may create content at all
func CanEditContent(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleEditor
}

// CanModifyContent reports whether the actor may update or delete the content
// item owned by authorID. Admins may modify anything; everyone else must be
// the author and additionally hold an editing role. Every mutating entry
// point goes through this predicate, there is no inline ownership check
// anywhere else.
func CanModifyContent(role models.Role, actorID, authorID int) bool {
	if role == models.RoleAdmin {
		return true
	}
	return actorID == authorID && CanEditContent(role)
}

// CanViewContent reports whether the actor may read the content item.
// Published public content is visible to any actor. Everything else is
// visible only to the author or to roles that pass CanEditContent.
func CanViewContent(role models.Role, actorID, authorID int, status models.ContentStatus, visibility models.ContentVisibility) bool {
	if status == models.StatusPublished && visibility == models.VisibilityPublic {
		return true
	}
	if CanEditContent(role) {
		return true
	}
	return actorID == authorID
}
