package user

import (
	"context"

	"github.com/orris-inc/notifyd/internal/shared/authorization"
)

// Repository defines directory persistence.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateStatus(ctx context.Context, user *User) error
}

// Directory answers the recipient lookups needed by fan-out.
// All methods consider active users only.
type Directory interface {
	// FindActiveIDByUsername returns 0 and no error when nobody matches.
	FindActiveIDByUsername(ctx context.Context, username string) (uint, error)
	ListActiveIDs(ctx context.Context) ([]uint, error)
	ListActiveIDsByRoles(ctx context.Context, roles []authorization.Role) ([]uint, error)
}
