package domain

import "time"

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingCreated      NotificationType = "booking.created"
	NotificationBookingAccepted     NotificationType = "booking.accepted"
	NotificationDriverStatusChanged NotificationType = "driver.status_changed"
)

// Notification is an event delivered to a recipient through an event sink.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	RecipientID string           `json:"recipient_id"` // user, tourist or driver ID
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        map[string]any   `json:"data,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
