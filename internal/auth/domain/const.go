// Package domain defines the account, role and token claim models used by
// authentication and authorization.
package domain

// Role is the coarse permission level attached to an account and carried in tokens.
type Role string

const (
	// RoleAdmin manages accounts and registrations.
	RoleAdmin Role = "ADMIN"

	// RoleEditor reads and triages registrations.
	RoleEditor Role = "EDITOR"
)

// TokenType is the scheme returned with issued tokens.
const TokenType = "Bearer"

// Roles lists every assignable role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEditor}
}

// IsValid reports whether r is one of the assignable roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor:
		return true
	}
	return false
}

// In reports whether r equals any of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
