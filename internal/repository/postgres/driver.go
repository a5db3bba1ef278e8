package postgres

import (
	"context"
	"database/sql"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

const driverColumns = `d.id, d.user_id, d.first_name, d.last_name, COALESCE(d.phone, ''), d.status, COALESCE(d.admin_notes, ''), d.updated_at`

func scanDriver(s scanner, dest *domain.Driver, extra ...any) error {
	return s.Scan(append([]any{
		&dest.ID,
		&dest.UserID,
		&dest.FirstName,
		&dest.LastName,
		&dest.Phone,
		&dest.Status,
		&dest.AdminNotes,
		&dest.UpdatedAt,
	}, extra...)...)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers d WHERE d.id = $1`

	var driver domain.Driver
	if err := scanDriver(r.q.QueryRowContext(ctx, query, id), &driver); err != nil {
		return nil, mapError(err)
	}
	return &driver, nil
}

// GetByUserID retrieves the driver profile owned by a user.
func (r *DriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers d WHERE d.user_id = $1`

	var driver domain.Driver
	if err := scanDriver(r.q.QueryRowContext(ctx, query, userID), &driver); err != nil {
		return nil, mapError(err)
	}
	return &driver, nil
}

// List retrieves all drivers with their vehicle and booking counts, newest first.
func (r *DriverRepository) List(ctx context.Context) ([]*domain.DriverSummary, error) {
	query := `
		SELECT ` + driverColumns + `, u.email,
		       (SELECT COUNT(*) FROM vehicles v WHERE v.driver_id = d.id AND v.is_active),
		       (SELECT COUNT(*) FROM bookings b WHERE b.driver_id = d.id)
		FROM drivers d
		JOIN users u ON u.id = d.user_id
		ORDER BY d.created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := []*domain.DriverSummary{}
	for rows.Next() {
		var d domain.DriverSummary
		if err := scanDriver(rows, &d.Driver, &d.Email, &d.VehicleCount, &d.TotalBookings); err != nil {
			return nil, err
		}
		drivers = append(drivers, &d)
	}
	return drivers, rows.Err()
}

// UpdateStatus sets the approval status and admin notes of a driver.
func (r *DriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus, notes string) error {
	query := `UPDATE drivers SET status = $1, admin_notes = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, status, nullString(notes), id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

var _ repository.DriverRepository = (*DriverRepository)(nil)
