package constants

const (
	// Default pagination
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// User status
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"

	// Database table names
	TableUsers             = "users"
	TableNotifications     = "notifications"
	TableUserNotifications = "user_notifications"

	// Fan-out and mark-read limits
	DefaultFanoutBatchSize = 500
	DefaultMaxMarkReadIDs  = 100

	// Notification content limits
	MaxMessageLength           = 5000
	MaxTargetURLLength         = 500
	MaxRecipientUsernameLength = 100

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgStoreUnavailable    = "Notification store temporarily unavailable"
)
