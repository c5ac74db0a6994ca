package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/errors"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

type GetUnreadCountUseCase struct {
	repo   notification.DeliveryRepository
	logger logger.Interface
}

func NewGetUnreadCountUseCase(
	repo notification.DeliveryRepository,
	logger logger.Interface,
) *GetUnreadCountUseCase {
	return &GetUnreadCountUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *GetUnreadCountUseCase) Execute(ctx context.Context, userID uint) (*dto.UnreadCountResponse, error) {
	if userID == 0 {
		return nil, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	count, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get unread count", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get unread count: %w", err)
	}

	return &dto.UnreadCountResponse{
		Count: count,
	}, nil
}
