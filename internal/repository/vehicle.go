package repository

import (
	"context"

	"tourbook/internal/domain"
)

// VehicleRepository defines the persistence operations for driver vehicles.
type VehicleRepository interface {
	// Create persists a new vehicle.
	// Returns ErrConflict if the registration number is taken.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// ListByDriver retrieves the active vehicles of a driver, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Vehicle, error)

	// ActiveCategoryIDs returns the distinct categories of a driver's active vehicles.
	ActiveCategoryIDs(ctx context.Context, driverID string) ([]string, error)
}

// VehicleCategoryRepository defines the read operations for vehicle categories.
type VehicleCategoryRepository interface {
	// ListActive retrieves the active categories in catalog order.
	ListActive(ctx context.Context) ([]domain.VehicleCategory, error)
}
