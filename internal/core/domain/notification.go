package domain

import "time"

// NotificationType classifies a user-facing message.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Default display durations. Errors linger a little longer.
const (
	NotificationDefaultDuration = 5 * time.Second
	NotificationErrorDuration   = 7 * time.Second
)

// Notification is an ephemeral user-facing message. Duration zero means the
// notification never expires on its own.
type Notification struct {
	ID       string           `json:"id"`
	Type     NotificationType `json:"type"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Duration time.Duration    `json:"duration"`
}
