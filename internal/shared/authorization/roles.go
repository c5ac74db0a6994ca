// Package authorization defines the portal's user roles.
package authorization

import (
	"strings"

	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// Role is a portal user role as carried in access tokens and stored on users.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleEmployee Role = "EMPLOYEE"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleHR:       true,
	RoleEmployee: true,
}

// AllRoles lists every assignable role.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleHR, RoleEmployee}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseRole parses a role case-insensitively. Unknown values are rejected rather
// than mapped to a default role.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", errors.NewValidationError("invalid role", s)
	}
	return role, nil
}
