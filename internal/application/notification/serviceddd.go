package notification

import (
	"context"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/application/notification/usecases"
	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/domain/user"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

// ServiceDDD is the entry point for producers and the delivery gateway.
type ServiceDDD struct {
	logger logger.Interface

	createNotification   *usecases.CreateNotificationUseCase
	dispatchNotification *usecases.DispatchNotificationUseCase

	listUnread        *usecases.ListUnreadUseCase
	listNotifications *usecases.ListNotificationsUseCase
	markRead          *usecases.MarkReadUseCase
	markAllRead       *usecases.MarkAllReadUseCase
	getUnreadCount    *usecases.GetUnreadCountUseCase
}

func NewServiceDDD(
	notificationRepo notification.NotificationRepository,
	deliveryRepo notification.DeliveryRepository,
	directory user.Directory,
	txManager usecases.TransactionManager,
	publisher usecases.DeliveryEventPublisher,
	markdownService dto.MarkdownService,
	maxMarkReadIDs int,
	logger logger.Interface,
) *ServiceDDD {
	resolver := usecases.NewFanoutResolver(directory, logger)

	return &ServiceDDD{
		logger: logger,

		createNotification:   usecases.NewCreateNotificationUseCase(notificationRepo, deliveryRepo, resolver, txManager, publisher, markdownService, logger),
		dispatchNotification: usecases.NewDispatchNotificationUseCase(notificationRepo, deliveryRepo, resolver, publisher, logger),

		listUnread:        usecases.NewListUnreadUseCase(deliveryRepo, markdownService, logger),
		listNotifications: usecases.NewListNotificationsUseCase(deliveryRepo, markdownService, logger),
		markRead:          usecases.NewMarkReadUseCase(deliveryRepo, publisher, maxMarkReadIDs, logger),
		markAllRead:       usecases.NewMarkAllReadUseCase(deliveryRepo, publisher, logger),
		getUnreadCount:    usecases.NewGetUnreadCountUseCase(deliveryRepo, logger),
	}
}

func (s *ServiceDDD) Create(ctx context.Context, req dto.CreateNotificationRequest) (*dto.CreateNotificationResponse, error) {
	return s.createNotification.Execute(ctx, req)
}

func (s *ServiceDDD) Dispatch(ctx context.Context, notificationID uint) (*dto.DispatchResponse, error) {
	return s.dispatchNotification.Execute(ctx, notificationID)
}

func (s *ServiceDDD) ListUnread(ctx context.Context, userID uint) ([]*dto.NotificationItem, error) {
	return s.listUnread.Execute(ctx, userID)
}

func (s *ServiceDDD) ListNotifications(ctx context.Context, req dto.ListNotificationsRequest) (*dto.ListResponse, error) {
	return s.listNotifications.Execute(ctx, req)
}

func (s *ServiceDDD) MarkRead(ctx context.Context, userID uint, ids []uint) (*dto.MarkReadResponse, error) {
	return s.markRead.Execute(ctx, userID, ids)
}

func (s *ServiceDDD) MarkAllRead(ctx context.Context, userID uint) (*dto.MarkReadResponse, error) {
	return s.markAllRead.Execute(ctx, userID)
}

func (s *ServiceDDD) GetUnreadCount(ctx context.Context, userID uint) (*dto.UnreadCountResponse, error) {
	return s.getUnreadCount.Execute(ctx, userID)
}
