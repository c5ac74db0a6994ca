package migration

import (
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models owned by this service in dependency order.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.NotificationModel{},
		&models.UserNotificationModel{},
	}
}
