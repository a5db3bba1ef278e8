package repository

import (
	"context"

	"tourbook/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
// Listings are newest first.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.BookingView, error)

	// ListByTourist retrieves the bookings made by a tourist.
	ListByTourist(ctx context.Context, touristID string) ([]*domain.BookingView, error)

	// ListByDriver retrieves the bookings accepted by a driver.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.BookingView, error)

	// ListAvailable retrieves pending, unassigned bookings in any of the given categories.
	ListAvailable(ctx context.Context, categoryIDs []string) ([]*domain.BookingView, error)

	// List retrieves all bookings, optionally filtered by status.
	// An empty status returns every booking.
	List(ctx context.Context, status domain.BookingStatus) ([]*domain.BookingView, error)

	// Accept assigns a driver to a pending booking and confirms it.
	// Returns ErrNotFound if the booking does not exist or is no longer pending.
	Accept(ctx context.Context, id, driverID string) error
}
