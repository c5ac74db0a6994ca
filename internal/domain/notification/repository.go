package notification

import (
	"context"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByID(ctx context.Context, id uint) (*Notification, error)
}

// DeliveryRepository owns the per-recipient rows.
type DeliveryRepository interface {
	// CreateUserNotifications inserts one unread row per user in a single
	// transaction. Existing (user, notification) pairs are skipped and the
	// number of newly inserted rows is returned.
	CreateUserNotifications(ctx context.Context, notificationID uint, userIDs []uint) (int64, error)

	// FilterUndelivered returns the subset of userIDs, in input order, that has
	// no row for notificationID yet.
	FilterUndelivered(ctx context.Context, notificationID uint, userIDs []uint) ([]uint, error)

	// FindUnreadForUser returns the user's unread feed, newest first.
	FindUnreadForUser(ctx context.Context, userID uint) ([]*FeedItem, error)

	// FindAllForUser returns one page of the user's feed, newest first, and the total size.
	FindAllForUser(ctx context.Context, userID uint, includeRead bool, limit, offset int) ([]*FeedItem, int64, error)

	// MarkRead flips unread rows owned by userID. Foreign or already-read ids contribute nothing.
	MarkRead(ctx context.Context, userID uint, notificationIDs []uint) (int64, error)

	MarkAllRead(ctx context.Context, userID uint) (int64, error)

	CountUnread(ctx context.Context, userID uint) (int64, error)
}
