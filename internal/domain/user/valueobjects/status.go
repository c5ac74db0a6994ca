package valueobjects

import (
	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// Status is a directory user's eligibility state. Only active users receive deliveries.
type Status string

const (
	StatusActive   Status = constants.UserStatusActive
	StatusInactive Status = constants.UserStatusInactive
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

func (s Status) IsActive() bool {
	return s == StatusActive
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", errors.NewValidationError("invalid user status", s)
	}
	return st, nil
}
