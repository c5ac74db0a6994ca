package notification

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	vo "github.com/orris-inc/notifyd/internal/domain/notification/valueobjects"
	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// Notification is a message addressed to a set of recipients. Apart from the
// id assigned on persistence it never changes after creation.
type Notification struct {
	id        uint
	message   string
	targetURL *string
	target    vo.TargetSpec
	createdAt time.Time
	events    []interface{}
	mu        sync.RWMutex
}

func NewNotification(message string, targetURL *string, target vo.TargetSpec) (*Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.NewValidationError("message is required")
	}
	if utf8.RuneCountInString(message) > constants.MaxMessageLength {
		return nil, errors.NewValidationError("message exceeds maximum length of 5000 characters")
	}

	if targetURL != nil {
		trimmed := strings.TrimSpace(*targetURL)
		switch {
		case trimmed == "":
			targetURL = nil
		case len(trimmed) > constants.MaxTargetURLLength:
			return nil, errors.NewValidationError("target URL exceeds maximum length of 500 characters")
		default:
			targetURL = &trimmed
		}
	}

	return &Notification{
		message:   message,
		targetURL: targetURL,
		target:    target,
		createdAt: time.Now().UTC(),
		events:    []interface{}{},
	}, nil
}

func ReconstructNotification(
	id uint,
	message string,
	targetURL *string,
	target vo.TargetSpec,
	createdAt time.Time,
) (*Notification, error) {
	if id == 0 {
		return nil, errors.NewValidationError("notification ID cannot be zero")
	}
	if message == "" {
		return nil, errors.NewValidationError("message is required")
	}

	return &Notification{
		id:        id,
		message:   message,
		targetURL: targetURL,
		target:    target,
		createdAt: createdAt,
		events:    []interface{}{},
	}, nil
}

func (n *Notification) ID() uint {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.id
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) TargetURL() *string {
	if n.targetURL == nil {
		return nil
	}
	u := *n.targetURL
	return &u
}

func (n *Notification) Target() vo.TargetSpec {
	return n.target
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

// SetID assigns the persistent id exactly once.
func (n *Notification) SetID(id uint) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.id != 0 {
		return errors.NewConflictError("notification ID is already set")
	}
	if id == 0 {
		return errors.NewValidationError("notification ID cannot be zero")
	}
	n.id = id
	return nil
}

// RecordDelivered records that fan-out inserted rows for the given recipients.
func (n *Notification) RecordDelivered(userIDs []uint, at time.Time) {
	if len(userIDs) == 0 {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, DeliveredEvent{
		NotificationID: n.id,
		UserIDs:        append([]uint(nil), userIDs...),
		DeliveredAt:    at,
	})
}

// GetEvents drains recorded domain events.
func (n *Notification) GetEvents() []interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	events := make([]interface{}, len(n.events))
	copy(events, n.events)
	n.events = []interface{}{}
	return events
}
