package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/domain/notification"
	vo "github.com/orris-inc/notifyd/internal/domain/notification/valueobjects"
	"github.com/orris-inc/notifyd/internal/shared/logger"
	"github.com/orris-inc/notifyd/internal/shared/utils"
	"github.com/orris-inc/notifyd/internal/shared/utils/logutil"
)

type CreateNotificationUseCase struct {
	notificationRepo notification.NotificationRepository
	deliveryRepo     notification.DeliveryRepository
	resolver         RecipientResolver
	txManager        TransactionManager
	publisher        DeliveryEventPublisher
	markdownService  dto.MarkdownService
	logger           logger.Interface
}

func NewCreateNotificationUseCase(
	notificationRepo notification.NotificationRepository,
	deliveryRepo notification.DeliveryRepository,
	resolver RecipientResolver,
	txManager TransactionManager,
	publisher DeliveryEventPublisher,
	markdownService dto.MarkdownService,
	logger logger.Interface,
) *CreateNotificationUseCase {
	return &CreateNotificationUseCase{
		notificationRepo: notificationRepo,
		deliveryRepo:     deliveryRepo,
		resolver:         resolver,
		txManager:        txManager,
		publisher:        publisherOrNoop(publisher),
		markdownService:  markdownService,
		logger:           logger,
	}
}

func (uc *CreateNotificationUseCase) Execute(ctx context.Context, req dto.CreateNotificationRequest) (*dto.CreateNotificationResponse, error) {
	uc.logger.Infow("executing create notification use case",
		"message_preview", logutil.TruncateForLog(req.Message, 60),
		"recipient_username", req.RecipientUsername,
		"role_targets", req.RoleTargets,
	)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	target, err := vo.NewTargetSpec(req.RecipientUsername, req.RoleTargets)
	if err != nil {
		return nil, err
	}

	n, err := notification.NewNotification(req.Message, req.TargetURL, target)
	if err != nil {
		return nil, err
	}

	recipients, err := uc.resolver.Resolve(ctx, target)
	if err != nil {
		uc.logger.Errorw("failed to resolve recipients", "error", err)
		return nil, err
	}
	if len(recipients) == 0 {
		uc.logger.Warnw("notification target resolved to no recipients",
			"recipient_username", target.RecipientUsername(),
			"role_targets", target.Strings(),
		)
	}

	var inserted int64
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.notificationRepo.Create(txCtx, n); err != nil {
			return err
		}
		count, err := uc.deliveryRepo.CreateUserNotifications(txCtx, n.ID(), recipients)
		if err != nil {
			return err
		}
		inserted = count
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to persist notification", "error", err)
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	n.RecordDelivered(recipients, time.Now().UTC())
	publishDomainEvents(ctx, uc.publisher, uc.logger, n.GetEvents())

	uc.logger.Infow("notification created",
		"id", n.ID(),
		"recipients", len(recipients),
		"delivered", inserted,
	)

	return &dto.CreateNotificationResponse{
		Notification:   dto.ToNotificationResponse(n, uc.markdownService),
		RecipientCount: len(recipients),
		DeliveredCount: inserted,
	}, nil
}

func publishDomainEvents(ctx context.Context, publisher DeliveryEventPublisher, log logger.Interface, events []interface{}) {
	for _, ev := range events {
		var err error
		switch e := ev.(type) {
		case notification.DeliveredEvent:
			err = publisher.PublishDelivered(ctx, e)
		case notification.ReadEvent:
			err = publisher.PublishRead(ctx, e)
		}
		if err != nil {
			log.Warnw("failed to publish delivery event", "event", fmt.Sprintf("%T", ev), "error", err)
		}
	}
}
