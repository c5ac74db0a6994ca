package valueobjects

import (
	"regexp"
	"strings"

	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Username is a portal login name. Comparison is exact.
type Username string

func NewUsername(s string) (Username, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", errors.NewValidationError("username is required")
	case len(s) > constants.MaxRecipientUsernameLength:
		return "", errors.NewValidationError("username is too long")
	case !usernamePattern.MatchString(s):
		return "", errors.NewValidationError("username contains invalid characters", s)
	}
	return Username(s), nil
}

func (u Username) String() string {
	return string(u)
}
