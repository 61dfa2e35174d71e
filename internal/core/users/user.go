package users

import (
	"time"
)

// Role is the authorization role carried by an authenticated actor
type Role string

const (
	// RoleUser is the default role for regular accounts
	RoleUser Role = "user"

	// RoleAdmin bypasses ownership checks on posts and comments
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a role claim. Unknown or empty values collapse to RoleUser
// so a malformed claim can never grant privileges.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// IsPrivileged reports whether the role bypasses ownership checks
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin
}

// User is the account record owned by the auth collaborator.
// Posts reference users by ID only; names are resolved at read time.
type User struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	ID        string    `json:"_id" db:"id" bson:"_id"`
	Name      string    `json:"name" db:"name" bson:"name"`
	Email     string    `json:"email" db:"email" bson:"email"`
	Role      Role      `json:"role" db:"role" bson:"role"`
}
