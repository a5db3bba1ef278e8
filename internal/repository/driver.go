package repository

import (
	"context"

	"tourbook/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByUserID retrieves the driver profile owned by a user.
	GetByUserID(ctx context.Context, userID string) (*domain.Driver, error)

	// List retrieves all drivers with their vehicle and booking counts, newest first.
	List(ctx context.Context) ([]*domain.DriverSummary, error)

	// UpdateStatus sets the approval status and admin notes of a driver.
	UpdateStatus(ctx context.Context, id string, status domain.DriverStatus, notes string) error
}
