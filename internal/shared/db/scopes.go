package db

import (
	"gorm.io/gorm"

	"github.com/orris-inc/notifyd/internal/shared/constants"
)

// OwnedBy restricts user_notifications rows to a single recipient.
func OwnedBy(userID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_notifications.user_id = ?", userID)
	}
}

// Unread keeps only rows that have not been marked read.
func Unread() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_notifications.is_read = ?", false)
	}
}

// NewestFirst orders a feed by notification creation time, id breaking ties.
func NewestFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("notifications.created_at DESC").Order("notifications.id DESC")
	}
}

// ActiveUsers keeps only users eligible for delivery.
func ActiveUsers() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("users.status = ?", constants.UserStatusActive)
	}
}
