package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/domain"
)

// EventSink delivers notifications outside the process.
type EventSink interface {
	Publish(ctx context.Context, notification domain.Notification) error
}

// LogSink writes notifications to the standard logger.
type LogSink struct{}

// Publish logs the notification.
func (LogSink) Publish(ctx context.Context, notification domain.Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)
	return nil
}

// NotificationService builds booking and driver notifications and hands them
// to an EventSink. Delivery failures are logged and never fail the caller.
type NotificationService struct {
	sink EventSink
}

// NewNotificationService creates a new NotificationService.
// A nil sink falls back to LogSink.
func NewNotificationService(sink EventSink) *NotificationService {
	if sink == nil {
		sink = LogSink{}
	}
	return &NotificationService{sink: sink}
}

// NotifyBookingCreated announces a new pending booking.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, domain.Notification{
		Type:        domain.NotificationBookingCreated,
		RecipientID: booking.TouristID,
		Title:       "Booking Received",
		Message: fmt.Sprintf("Your trip from %s on %s is waiting for a driver. Total %s",
			booking.PickupLocation, booking.StartDate, FormatRupees(booking.TotalCost)),
		Data: map[string]any{
			"booking_id":  booking.ID,
			"category_id": booking.CategoryID,
			"total_cost":  booking.TotalCost,
			"start_date":  booking.StartDate,
		},
	})
}

// NotifyBookingAccepted tells the tourist that a driver took the booking.
func (s *NotificationService) NotifyBookingAccepted(ctx context.Context, booking *domain.Booking, driver *domain.Driver) error {
	return s.send(ctx, domain.Notification{
		Type:        domain.NotificationBookingAccepted,
		RecipientID: booking.TouristID,
		Title:       "Driver Assigned",
		Message:     fmt.Sprintf("Driver %s has accepted your trip on %s", driver.FullName(), booking.StartDate),
		Data: map[string]any{
			"booking_id":   booking.ID,
			"driver_id":    driver.ID,
			"driver_name":  driver.FullName(),
			"driver_phone": driver.Phone,
		},
	})
}

// NotifyDriverStatusChanged tells a driver about an approval decision.
func (s *NotificationService) NotifyDriverStatusChanged(ctx context.Context, driver *domain.Driver) error {
	return s.send(ctx, domain.Notification{
		Type:        domain.NotificationDriverStatusChanged,
		RecipientID: driver.UserID,
		Title:       "Account Status Updated",
		Message:     fmt.Sprintf("Your driver account is now %s", driver.Status),
		Data: map[string]any{
			"driver_id": driver.ID,
			"status":    driver.Status,
			"notes":     driver.AdminNotes,
		},
	})
}

func (s *NotificationService) send(ctx context.Context, notification domain.Notification) error {
	if s == nil {
		return nil
	}

	notification.ID = uuid.New().String()
	notification.CreatedAt = time.Now()

	if err := s.sink.Publish(ctx, notification); err != nil {
		log.Printf("[NOTIFICATION] delivery failed: Type=%s, Recipient=%s: %v",
			notification.Type, notification.RecipientID, err)
		return err
	}
	return nil
}
