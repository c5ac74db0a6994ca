package valueobjects

import (
	"strings"

	"github.com/orris-inc/notifyd/internal/shared/authorization"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// RoleTarget addresses a notification to every holder of a role, or to all users.
type RoleTarget string

const (
	RoleTargetAdmin    RoleTarget = RoleTarget(authorization.RoleAdmin)
	RoleTargetHR       RoleTarget = RoleTarget(authorization.RoleHR)
	RoleTargetEmployee RoleTarget = RoleTarget(authorization.RoleEmployee)
	RoleTargetEveryone RoleTarget = "EVERYONE"
)

var validRoleTargets = map[RoleTarget]bool{
	RoleTargetAdmin:    true,
	RoleTargetHR:       true,
	RoleTargetEmployee: true,
	RoleTargetEveryone: true,
}

func (t RoleTarget) String() string {
	return string(t)
}

func (t RoleTarget) IsValid() bool {
	return validRoleTargets[t]
}

func (t RoleTarget) IsEveryone() bool {
	return t == RoleTargetEveryone
}

// Role returns the concrete role this target addresses. EVERYONE has none.
func (t RoleTarget) Role() (authorization.Role, bool) {
	if t.IsEveryone() || !t.IsValid() {
		return "", false
	}
	return authorization.Role(t), true
}

// NewRoleTarget parses a target case-insensitively and rejects anything unknown.
func NewRoleTarget(s string) (RoleTarget, error) {
	t := RoleTarget(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", errors.NewValidationError("invalid role target", s)
	}
	return t, nil
}
