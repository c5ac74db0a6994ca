package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

// DispatchNotificationUseCase re-runs fan-out for a stored notification.
// Recipients that already hold a row are skipped, so it is safe to repeat.
type DispatchNotificationUseCase struct {
	notificationRepo notification.NotificationRepository
	deliveryRepo     notification.DeliveryRepository
	resolver         RecipientResolver
	publisher        DeliveryEventPublisher
	logger           logger.Interface
}

func NewDispatchNotificationUseCase(
	notificationRepo notification.NotificationRepository,
	deliveryRepo notification.DeliveryRepository,
	resolver RecipientResolver,
	publisher DeliveryEventPublisher,
	logger logger.Interface,
) *DispatchNotificationUseCase {
	return &DispatchNotificationUseCase{
		notificationRepo: notificationRepo,
		deliveryRepo:     deliveryRepo,
		resolver:         resolver,
		publisher:        publisherOrNoop(publisher),
		logger:           logger,
	}
}

func (uc *DispatchNotificationUseCase) Execute(ctx context.Context, notificationID uint) (*dto.DispatchResponse, error) {
	uc.logger.Infow("executing dispatch notification use case", "id", notificationID)

	n, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	recipients, err := uc.resolver.Resolve(ctx, n.Target())
	if err != nil {
		uc.logger.Errorw("failed to resolve recipients", "id", notificationID, "error", err)
		return nil, err
	}

	pending, err := uc.deliveryRepo.FilterUndelivered(ctx, n.ID(), recipients)
	if err != nil {
		uc.logger.Errorw("failed to load existing deliveries", "id", notificationID, "error", err)
		return nil, fmt.Errorf("failed to dispatch notification: %w", err)
	}

	// A concurrent dispatch may insert some of pending first. Those rows are
	// skipped on conflict and their owners get one extra hint, which clients
	// answer with a refetch.
	inserted, err := uc.deliveryRepo.CreateUserNotifications(ctx, n.ID(), pending)
	if err != nil {
		uc.logger.Errorw("failed to dispatch notification", "id", notificationID, "error", err)
		return nil, fmt.Errorf("failed to dispatch notification: %w", err)
	}

	if inserted > 0 {
		n.RecordDelivered(pending, time.Now().UTC())
		publishDomainEvents(ctx, uc.publisher, uc.logger, n.GetEvents())
	}

	uc.logger.Infow("notification dispatched",
		"id", notificationID,
		"recipients", len(recipients),
		"inserted", inserted,
	)

	return &dto.DispatchResponse{
		NotificationID: n.ID(),
		RecipientCount: len(recipients),
		InsertedCount:  inserted,
	}, nil
}
