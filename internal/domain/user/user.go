package user

import (
	"time"

	vo "github.com/orris-inc/notifyd/internal/domain/user/valueobjects"
	"github.com/orris-inc/notifyd/internal/shared/authorization"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// User is the directory's view of a portal account.
type User struct {
	id        uint
	username  vo.Username
	role      authorization.Role
	status    vo.Status
	createdAt time.Time
}

func NewUser(username vo.Username, role authorization.Role) (*User, error) {
	if username == "" {
		return nil, errors.NewValidationError("username is required")
	}
	if !role.IsValid() {
		return nil, errors.NewValidationError("invalid role", role.String())
	}
	return &User{
		username:  username,
		role:      role,
		status:    vo.StatusActive,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructUser(id uint, username vo.Username, role authorization.Role, status vo.Status, createdAt time.Time) (*User, error) {
	if id == 0 {
		return nil, errors.NewValidationError("user ID cannot be zero")
	}
	return &User{
		id:        id,
		username:  username,
		role:      role,
		status:    status,
		createdAt: createdAt,
	}, nil
}

func (u *User) ID() uint                 { return u.id }
func (u *User) Username() vo.Username    { return u.username }
func (u *User) Role() authorization.Role { return u.role }
func (u *User) Status() vo.Status        { return u.status }
func (u *User) CreatedAt() time.Time     { return u.createdAt }

func (u *User) IsActive() bool {
	return u.status.IsActive()
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return errors.NewConflictError("user ID is already set")
	}
	if id == 0 {
		return errors.NewValidationError("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) Deactivate() {
	u.status = vo.StatusInactive
}
