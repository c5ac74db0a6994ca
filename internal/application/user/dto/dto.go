package dto

import (
	"time"

	"github.com/orris-inc/notifyd/internal/domain/user"
)

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Role     string `json:"role" validate:"required"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(u *user.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID(),
		Username:  u.Username().String(),
		Role:      u.Role().String(),
		Status:    u.Status().String(),
		CreatedAt: u.CreatedAt(),
	}
}
