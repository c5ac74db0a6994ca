package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/errors"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

type MarkAllReadUseCase struct {
	repo      notification.DeliveryRepository
	publisher DeliveryEventPublisher
	logger    logger.Interface
}

func NewMarkAllReadUseCase(
	repo notification.DeliveryRepository,
	publisher DeliveryEventPublisher,
	logger logger.Interface,
) *MarkAllReadUseCase {
	return &MarkAllReadUseCase{
		repo:      repo,
		publisher: publisherOrNoop(publisher),
		logger:    logger,
	}
}

func (uc *MarkAllReadUseCase) Execute(ctx context.Context, userID uint) (*dto.MarkReadResponse, error) {
	uc.logger.Infow("executing mark all read use case", "user_id", userID)

	if userID == 0 {
		return nil, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	updated, err := uc.repo.MarkAllRead(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to mark all notifications as read", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	if updated > 0 {
		publishDomainEvents(ctx, uc.publisher, uc.logger, []interface{}{notification.ReadEvent{
			UserID:       userID,
			UpdatedCount: updated,
			ReadAt:       time.Now().UTC(),
		}})
	}

	return &dto.MarkReadResponse{UpdatedCount: updated}, nil
}
