package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Item is one entry of a user's notification feed. ID is the notification id.
type Item struct {
	ID          uint      `json:"id"`
	Message     string    `json:"message"`
	MessageHTML string    `json:"message_html"`
	CreatedAt   time.Time `json:"created_at"`
	IsRead      bool      `json:"is_read"`
	TargetURL   *string   `json:"target_url,omitempty"`
}

// Page is one page of the full feed.
type Page struct {
	Items  []Item `json:"items"`
	Total  int64  `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// CreateRequest is the producer payload. At least one of RecipientUsername
// or RoleTargets should be set; an empty target delivers to nobody.
type CreateRequest struct {
	Message           string   `json:"message"`
	TargetURL         *string  `json:"target_url,omitempty"`
	RecipientUsername string   `json:"recipient_username,omitempty"`
	RoleTargets       []string `json:"role_targets,omitempty"`
}

type CreateResult struct {
	Notification struct {
		ID          uint      `json:"id"`
		Message     string    `json:"message"`
		RoleTargets []string  `json:"role_targets"`
		CreatedAt   time.Time `json:"created_at"`
	} `json:"notification"`
	RecipientCount int   `json:"recipient_count"`
	DeliveredCount int64 `json:"delivered_count"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Details    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error: status=%d type=%s message=%s (%s)", e.StatusCode, e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("api error: status=%d type=%s message=%s", e.StatusCode, e.Type, e.Message)
}

// Retryable reports whether repeating the same request may succeed.
func (e *APIError) Retryable() bool {
	return e.Type == "transient_error" ||
		e.StatusCode == http.StatusServiceUnavailable ||
		e.StatusCode == http.StatusTooManyRequests
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Details string `json:"details,omitempty"`
	} `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
