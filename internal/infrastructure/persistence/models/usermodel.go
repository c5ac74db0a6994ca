package models

import (
	"time"

	"github.com/orris-inc/notifyd/internal/shared/constants"
)

type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"size:100;not null;uniqueIndex"`
	Role      string    `gorm:"size:20;not null;index"`
	Status    string    `gorm:"size:20;not null;default:'active';index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
