package repository

import (
	"context"

	"tourbook/internal/domain"
)

// AdminRepository defines the persistence operations behind the admin console.
type AdminRepository interface {
	// LogAction records an administrative action.
	LogAction(ctx context.Context, entry *domain.AdminLog) error

	// ListLogs retrieves the most recent actions, newest first.
	ListLogs(ctx context.Context, limit int) ([]*domain.AdminLog, error)

	// DashboardStats aggregates user, driver and booking counts.
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}
