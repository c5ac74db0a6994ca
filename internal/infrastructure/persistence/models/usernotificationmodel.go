package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/notifyd/internal/shared/constants"
)

// UserNotificationModel is one recipient's delivery row. The composite unique
// index makes repeated fan-out of the same notification a no-op.
type UserNotificationModel struct {
	ID             uint `gorm:"primaryKey"`
	UserID         uint `gorm:"not null;uniqueIndex:uk_user_notification,priority:1;index:idx_user_read,priority:1"`
	NotificationID uint `gorm:"not null;uniqueIndex:uk_user_notification,priority:2;index"`
	IsRead         bool `gorm:"not null;default:false;index:idx_user_read,priority:2"`
	ReadAt         *time.Time
	CreatedAt      time.Time          `gorm:"not null"`
	Notification   *NotificationModel `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE"`
}

func (UserNotificationModel) TableName() string {
	return constants.TableUserNotifications
}

// FeedRow is the projection returned by feed queries joining
// user_notifications with notifications.
type FeedRow struct {
	DeliveryID        uint
	UserID            uint
	NotificationID    uint
	IsRead            bool
	ReadAt            *time.Time
	DeliveredAt       time.Time
	Message           string
	TargetURL         *string
	RecipientUsername *string
	RoleTargets       datatypes.JSONSlice[string]
	CreatedAt         time.Time
}
