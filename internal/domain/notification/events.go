package notification

import "time"

// DeliveredEvent is raised after fan-out persisted new per-recipient rows.
type DeliveredEvent struct {
	NotificationID uint
	UserIDs        []uint
	DeliveredAt    time.Time
}

// ReadEvent is raised after a recipient marked notifications as read.
type ReadEvent struct {
	UserID          uint
	NotificationIDs []uint
	UpdatedCount    int64
	ReadAt          time.Time
}
