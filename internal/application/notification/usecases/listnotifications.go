package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/errors"
	"github.com/orris-inc/notifyd/internal/shared/logger"
	"github.com/orris-inc/notifyd/internal/shared/utils"
)

type ListNotificationsUseCase struct {
	repo            notification.DeliveryRepository
	markdownService dto.MarkdownService
	logger          logger.Interface
}

func NewListNotificationsUseCase(
	repo notification.DeliveryRepository,
	markdownService dto.MarkdownService,
	logger logger.Interface,
) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{
		repo:            repo,
		markdownService: markdownService,
		logger:          logger,
	}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, req dto.ListNotificationsRequest) (*dto.ListResponse, error) {
	uc.logger.Infow("executing list notifications use case",
		"user_id", req.UserID,
		"unread_only", req.UnreadOnly,
		"limit", req.Limit,
		"offset", req.Offset,
	)

	if req.UserID == 0 {
		return nil, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	page := utils.ValidatePagination(req.Limit, req.Offset)

	items, total, err := uc.repo.FindAllForUser(ctx, req.UserID, !req.UnreadOnly, page.Limit, page.Offset)
	if err != nil {
		uc.logger.Errorw("failed to list notifications", "user_id", req.UserID, "error", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return &dto.ListResponse{
		Items: dto.ToNotificationItems(items, uc.markdownService),
		Total: total,
	}, nil
}
