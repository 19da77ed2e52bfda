package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

// NotificationHandler exposes the in-memory notification center.
type NotificationHandler struct {
	notifier ports.Notifier
}

func NewNotificationHandler(notifier ports.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

type notificationResponse struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Duration int64  `json:"duration_ms"`
}

type listNotificationsResponse struct {
	Items []notificationResponse `json:"items"`
	Total int                    `json:"total"`
}

// List handles GET /v1/notifications.
//
// @Summary      List active notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listNotificationsResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	notifications := h.notifier.List()
	items := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, listNotificationsResponse{Items: items, Total: len(items)})
}

// Dismiss handles DELETE /v1/notifications/:id. Dismissing an unknown id is a
// no-op and still returns 204.
//
// @Summary      Dismiss a notification
// @Tags         notifications
// @Security     BearerAuth
// @Param        id  path  string  true  "Notification id"
// @Success      204
// @Router       /v1/notifications/{id} [delete]
func (h *NotificationHandler) Dismiss(c echo.Context) error {
	h.notifier.Remove(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// Clear handles DELETE /v1/notifications.
//
// @Summary      Dismiss all notifications
// @Tags         notifications
// @Security     BearerAuth
// @Success      204
// @Router       /v1/notifications [delete]
func (h *NotificationHandler) Clear(c echo.Context) error {
	h.notifier.ClearAll()
	return c.NoContent(http.StatusNoContent)
}

func toNotificationResponse(n domain.Notification) notificationResponse {
	return notificationResponse{
		ID:       n.ID,
		Type:     string(n.Type),
		Title:    n.Title,
		Message:  n.Message,
		Duration: n.Duration.Milliseconds(),
	}
}
