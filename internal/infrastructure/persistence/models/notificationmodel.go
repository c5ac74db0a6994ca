package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/notifyd/internal/shared/constants"
)

type NotificationModel struct {
	ID                uint                        `gorm:"primaryKey"`
	Message           string                      `gorm:"type:text;not null"`
	TargetURL         *string                     `gorm:"size:500"`
	RecipientUsername *string                     `gorm:"size:100"`
	RoleTargets       datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedAt         time.Time                   `gorm:"not null;index"`
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}
