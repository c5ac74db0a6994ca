package usecases

import (
	"context"
	"fmt"

	vo "github.com/orris-inc/notifyd/internal/domain/notification/valueobjects"
	"github.com/orris-inc/notifyd/internal/domain/user"
	"github.com/orris-inc/notifyd/internal/shared/logger"
	"github.com/orris-inc/notifyd/internal/shared/utils/setutil"
)

// FanoutResolver resolves recipients against the user directory.
type FanoutResolver struct {
	directory user.Directory
	logger    logger.Interface
}

func NewFanoutResolver(directory user.Directory, logger logger.Interface) *FanoutResolver {
	return &FanoutResolver{
		directory: directory,
		logger:    logger,
	}
}

// Resolve unions the direct recipient (when it exists and is active) with the
// role-targeted users. EVERYONE subsumes every individual role.
func (r *FanoutResolver) Resolve(ctx context.Context, target vo.TargetSpec) ([]uint, error) {
	recipients := setutil.NewUintSet()

	if target.HasRecipient() {
		id, err := r.directory.FindActiveIDByUsername(ctx, target.RecipientUsername())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve recipient: %w", err)
		}
		if id == 0 {
			r.logger.Warnw("recipient username did not resolve to an active user",
				"recipient_username", target.RecipientUsername(),
			)
		} else {
			recipients.Add(id)
		}
	}

	switch {
	case target.IncludesEveryone():
		ids, err := r.directory.ListActiveIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active users: %w", err)
		}
		recipients.AddAll(ids)
	case len(target.Roles()) > 0:
		ids, err := r.directory.ListActiveIDsByRoles(ctx, target.Roles())
		if err != nil {
			return nil, fmt.Errorf("failed to list users by role: %w", err)
		}
		recipients.AddAll(ids)
	}

	return recipients.Sorted(), nil
}
