package permission

import (
	"fmt"

	"github.com/orris-inc/notifyd/internal/shared/authorization"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

const (
	ResourceNotifications = "notifications"

	ActionCreate   = "create"
	ActionDispatch = "dispatch"
)

// DefaultNotificationPolicies lets HR and admins produce notifications and
// reserves re-dispatch for admins.
func DefaultNotificationPolicies() [][]string {
	return [][]string{
		{authorization.RoleAdmin.String(), ResourceNotifications, ActionCreate},
		{authorization.RoleHR.String(), ResourceNotifications, ActionCreate},
		{authorization.RoleAdmin.String(), ResourceNotifications, ActionDispatch},
	}
}

// InitNotificationPermissions stores the default producer policies. Existing
// policies are left untouched, so it is safe to run on every start.
func InitNotificationPermissions(e *Enforcer, log logger.Interface) error {
	for _, policy := range DefaultNotificationPolicies() {
		if err := e.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			log.Errorw("failed to add notification permission policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
	}

	log.Info("notification permissions initialized successfully")
	return nil
}
