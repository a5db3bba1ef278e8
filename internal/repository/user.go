package repository

import (
	"context"

	"tourbook/internal/domain"
)

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// List retrieves every user with profile names, newest first.
	List(ctx context.Context) ([]*domain.UserSummary, error)

	// ToggleActive flips the active flag of a user and returns the new value.
	ToggleActive(ctx context.Context, id string) (bool, error)
}

// TouristRepository defines the persistence operations for tourist profiles.
type TouristRepository interface {
	// GetByUserID retrieves the tourist profile owned by a user.
	GetByUserID(ctx context.Context, userID string) (*domain.Tourist, error)
}
