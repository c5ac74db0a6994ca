package notification

import (
	"time"

	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// UserNotification is one recipient's delivery of a Notification.
// Its read flag only ever moves from false to true; the store's mark-read
// statements match unread rows only.
type UserNotification struct {
	id             uint
	userID         uint
	notificationID uint
	isRead         bool
	readAt         *time.Time
	createdAt      time.Time
}

func ReconstructUserNotification(
	id, userID, notificationID uint,
	isRead bool,
	readAt *time.Time,
	createdAt time.Time,
) (*UserNotification, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("user ID is required")
	}
	if notificationID == 0 {
		return nil, errors.NewValidationError("notification ID is required")
	}
	return &UserNotification{
		id:             id,
		userID:         userID,
		notificationID: notificationID,
		isRead:         isRead,
		readAt:         readAt,
		createdAt:      createdAt,
	}, nil
}

func (u *UserNotification) ID() uint             { return u.id }
func (u *UserNotification) UserID() uint         { return u.userID }
func (u *UserNotification) NotificationID() uint { return u.notificationID }
func (u *UserNotification) IsRead() bool         { return u.isRead }
func (u *UserNotification) ReadAt() *time.Time   { return u.readAt }
func (u *UserNotification) CreatedAt() time.Time { return u.createdAt }

// FeedItem pairs a notification with the caller's delivery row.
type FeedItem struct {
	Notification *Notification
	Delivery     *UserNotification
}
