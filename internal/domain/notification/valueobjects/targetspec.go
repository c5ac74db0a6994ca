package valueobjects

import (
	"slices"
	"strings"

	"github.com/orris-inc/notifyd/internal/shared/authorization"
	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// TargetSpec describes who should receive a notification: an optional single
// recipient by username plus any number of role targets.
type TargetSpec struct {
	recipientUsername string
	roleTargets       []RoleTarget
}

// NewTargetSpec validates and normalizes a target specification. Role targets
// are deduplicated and sorted. An entirely empty spec is valid.
func NewTargetSpec(recipientUsername string, roleTargets []string) (TargetSpec, error) {
	username := strings.TrimSpace(recipientUsername)
	if len(username) > constants.MaxRecipientUsernameLength {
		return TargetSpec{}, errors.NewValidationError("recipient username is too long")
	}

	targets := make([]RoleTarget, 0, len(roleTargets))
	for _, raw := range roleTargets {
		t, err := NewRoleTarget(raw)
		if err != nil {
			return TargetSpec{}, err
		}
		if !slices.Contains(targets, t) {
			targets = append(targets, t)
		}
	}
	slices.Sort(targets)

	return TargetSpec{recipientUsername: username, roleTargets: targets}, nil
}

// RecipientUsername returns the direct recipient, or "" when none was given.
func (s TargetSpec) RecipientUsername() string {
	return s.recipientUsername
}

func (s TargetSpec) HasRecipient() bool {
	return s.recipientUsername != ""
}

// RoleTargets returns a copy of the normalized role targets.
func (s TargetSpec) RoleTargets() []RoleTarget {
	return slices.Clone(s.roleTargets)
}

func (s TargetSpec) IncludesEveryone() bool {
	return slices.Contains(s.roleTargets, RoleTargetEveryone)
}

// Roles returns the concrete roles addressed, excluding EVERYONE.
func (s TargetSpec) Roles() []authorization.Role {
	roles := make([]authorization.Role, 0, len(s.roleTargets))
	for _, t := range s.roleTargets {
		if r, ok := t.Role(); ok {
			roles = append(roles, r)
		}
	}
	return roles
}

// IsEmpty reports whether the spec addresses nobody at all.
func (s TargetSpec) IsEmpty() bool {
	return s.recipientUsername == "" && len(s.roleTargets) == 0
}

// Strings returns role targets as plain strings for persistence.
func (s TargetSpec) Strings() []string {
	out := make([]string, len(s.roleTargets))
	for i, t := range s.roleTargets {
		out[i] = t.String()
	}
	return out
}
