package dto

import (
	"time"
)

// CreateNotificationRequest is the producer payload for create-and-fan-out.
type CreateNotificationRequest struct {
	Message           string   `json:"message" binding:"required" validate:"required,max=5000"`
	TargetURL         *string  `json:"target_url" validate:"omitempty,max=500"`
	RecipientUsername string   `json:"recipient_username" validate:"omitempty,max=100"`
	RoleTargets       []string `json:"role_targets" validate:"omitempty,max=4,dive,required"`
}

type MarkReadRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

type ListNotificationsRequest struct {
	UserID     uint
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NotificationItem is the wire shape of one feed entry. ID is the notification id.
type NotificationItem struct {
	ID          uint      `json:"id"`
	Message     string    `json:"message"`
	MessageHTML string    `json:"message_html"`
	CreatedAt   time.Time `json:"created_at"`
	IsRead      bool      `json:"is_read"`
	TargetURL   *string   `json:"target_url,omitempty"`
}

type NotificationResponse struct {
	ID                uint      `json:"id"`
	Message           string    `json:"message"`
	MessageHTML       string    `json:"message_html"`
	TargetURL         *string   `json:"target_url,omitempty"`
	RecipientUsername string    `json:"recipient_username,omitempty"`
	RoleTargets       []string  `json:"role_targets"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreateNotificationResponse struct {
	Notification   *NotificationResponse `json:"notification"`
	RecipientCount int                   `json:"recipient_count"`
	DeliveredCount int64                 `json:"delivered_count"`
}

type DispatchResponse struct {
	NotificationID uint  `json:"notification_id"`
	RecipientCount int   `json:"recipient_count"`
	InsertedCount  int64 `json:"inserted_count"`
}

type ListResponse struct {
	Items []*NotificationItem `json:"items"`
	Total int64               `json:"total"`
}

type MarkReadResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
