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
	"github.com/orris-inc/notifyd/internal/shared/utils"
)

// MarkReadUseCase flips the caller's own unread rows to read. Ids that belong
// to other users or are already read are silently ignored.
type MarkReadUseCase struct {
	repo      notification.DeliveryRepository
	publisher DeliveryEventPublisher
	maxIDs    int
	logger    logger.Interface
}

func NewMarkReadUseCase(
	repo notification.DeliveryRepository,
	publisher DeliveryEventPublisher,
	maxIDs int,
	logger logger.Interface,
) *MarkReadUseCase {
	if maxIDs <= 0 {
		maxIDs = constants.DefaultMaxMarkReadIDs
	}
	return &MarkReadUseCase{
		repo:      repo,
		publisher: publisherOrNoop(publisher),
		maxIDs:    maxIDs,
		logger:    logger,
	}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, userID uint, ids []uint) (*dto.MarkReadResponse, error) {
	uc.logger.Infow("executing mark read use case", "user_id", userID, "ids", len(ids))

	if userID == 0 {
		return nil, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	ids, err := utils.ValidateIDList(ids, uc.maxIDs)
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.MarkRead(ctx, userID, ids)
	if err != nil {
		uc.logger.Errorw("failed to mark notifications as read", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	if updated > 0 {
		publishDomainEvents(ctx, uc.publisher, uc.logger, []interface{}{notification.ReadEvent{
			UserID:          userID,
			NotificationIDs: ids,
			UpdatedCount:    updated,
			ReadAt:          time.Now().UTC(),
		}})
	}
	if updated < int64(len(ids)) {
		uc.logger.Debugw("some ids were foreign or already read",
			"user_id", userID,
			"requested", len(ids),
			"updated", updated,
		)
	}

	return &dto.MarkReadResponse{UpdatedCount: updated}, nil
}
