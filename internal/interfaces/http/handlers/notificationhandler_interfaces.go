package handlers

import (
	"context"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/infrastructure/realtime"
)

// Service interfaces for handlers - enable unit testing with mocks.

type notificationService interface {
	Create(ctx context.Context, req dto.CreateNotificationRequest) (*dto.CreateNotificationResponse, error)
	Dispatch(ctx context.Context, notificationID uint) (*dto.DispatchResponse, error)
	ListUnread(ctx context.Context, userID uint) ([]*dto.NotificationItem, error)
	ListNotifications(ctx context.Context, req dto.ListNotificationsRequest) (*dto.ListResponse, error)
	MarkRead(ctx context.Context, userID uint, ids []uint) (*dto.MarkReadResponse, error)
	MarkAllRead(ctx context.Context, userID uint) (*dto.MarkReadResponse, error)
	GetUnreadCount(ctx context.Context, userID uint) (*dto.UnreadCountResponse, error)
}

// streamRegistry is the subset of realtime.Registry used by StreamHandler.
type streamRegistry interface {
	Subscribe(topic string, userID uint) (*realtime.Conn, error)
	Unsubscribe(connID string)
}
