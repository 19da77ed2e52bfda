package ports

import (
	"time"

	"github.com/locadora/rental-system/internal/core/domain"
)

// NotificationInput carries the data for a new notification. A nil Duration
// means "use the 5s default"; an explicit zero means "never expire".
type NotificationInput struct {
	Type     domain.NotificationType
	Title    string
	Message  string
	Duration *time.Duration
}

// Notifier is the notification center seen by the stores and the API. Add
// returns the generated notification id; the convenience wrappers apply the
// default title and duration for their type.
type Notifier interface {
	Add(input NotificationInput) string
	Remove(id string)
	ClearAll()
	List() []domain.Notification

	Success(message string) string
	Error(message string) string
	Warning(message string) string
	Info(message string) string
}
