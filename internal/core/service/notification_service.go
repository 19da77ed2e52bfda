package service

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/locadora/rental-system/internal/api/metrics"
	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

// NotificationCenter is the in-memory queue of user-facing messages.
// Insertion order is display order. Notifications with a positive duration
// remove themselves once it elapses.
type NotificationCenter struct {
	mu    sync.Mutex
	items []domain.Notification
	log   zerolog.Logger

	// afterFunc schedules expiry callbacks; tests swap it for a
	// controllable fake.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewNotificationCenter returns an empty center using real timers.
func NewNotificationCenter(log zerolog.Logger) *NotificationCenter {
	return &NotificationCenter{
		log:       log,
		afterFunc: time.AfterFunc,
	}
}

// Add appends a notification and schedules its expiry. It returns the
// generated id.
func (c *NotificationCenter) Add(input ports.NotificationInput) string {
	duration := domain.NotificationDefaultDuration
	if input.Duration != nil {
		duration = *input.Duration
	}

	n := domain.Notification{
		ID:       newNotificationID(),
		Type:     input.Type,
		Title:    input.Title,
		Message:  input.Message,
		Duration: duration,
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()

	if duration > 0 {
		c.afterFunc(duration, func() { c.Remove(n.ID) })
	}

	metrics.NotificationsTotal.WithLabelValues(string(n.Type)).Inc()
	c.log.Debug().Str("id", n.ID).Str("type", string(n.Type)).Msg(n.Message)
	return n.ID
}

// Remove deletes the notification with the given id. Removing an absent id
// is a no-op, which makes expiry timers racing a ClearAll harmless.
func (c *NotificationCenter) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// ClearAll empties the queue immediately. Pending expiry timers are left to
// fire against ids that no longer exist.
func (c *NotificationCenter) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// List returns a snapshot of the queue in display order.
func (c *NotificationCenter) List() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Success adds a success notification with the default duration.
func (c *NotificationCenter) Success(message string) string {
	return c.Add(ports.NotificationInput{
		Type:    domain.NotificationSuccess,
		Title:   "Success",
		Message: message,
	})
}

// Error adds an error notification. Errors stay visible longer than the
// other types.
func (c *NotificationCenter) Error(message string) string {
	duration := domain.NotificationErrorDuration
	return c.Add(ports.NotificationInput{
		Type:     domain.NotificationError,
		Title:    "Error",
		Message:  message,
		Duration: &duration,
	})
}

// Warning adds a warning notification with the default duration.
func (c *NotificationCenter) Warning(message string) string {
	return c.Add(ports.NotificationInput{
		Type:    domain.NotificationWarning,
		Title:   "Warning",
		Message: message,
	})
}

// Info adds an info notification with the default duration.
func (c *NotificationCenter) Info(message string) string {
	return c.Add(ports.NotificationInput{
		Type:    domain.NotificationInfo,
		Title:   "Info",
		Message: message,
	})
}

// newNotificationID builds a time-plus-randomness id that stays unique under
// rapid sequential calls.
func newNotificationID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("notification_%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("notification_%d_%08x", time.Now().UnixNano(), b)
}
