package postgres

import (
	"context"
	"database/sql"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, driver_id, category_id, make_model, registration_number, year_manufactured, color, seating_capacity, insurance_expiry, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var year sql.NullInt64
	if v.YearManufactured > 0 {
		year = sql.NullInt64{Int64: int64(v.YearManufactured), Valid: true}
	}

	var insurance sql.NullTime
	if !v.InsuranceExpiry.IsZero() {
		insurance = sql.NullTime{Time: v.InsuranceExpiry, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		v.ID,
		v.DriverID,
		v.CategoryID,
		v.MakeModel,
		v.RegistrationNumber,
		year,
		nullString(v.Color),
		v.SeatingCapacity,
		insurance,
		v.IsActive,
		v.CreatedAt,
	)
	return mapError(err)
}

// ListByDriver retrieves the active vehicles of a driver, newest first.
func (r *VehicleRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, driver_id, category_id, make_model, registration_number,
		       COALESCE(year_manufactured, 0), COALESCE(color, ''), seating_capacity,
		       insurance_expiry, is_active, created_at
		FROM vehicles
		WHERE driver_id = $1 AND is_active
		ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []*domain.Vehicle{}
	for rows.Next() {
		var (
			v         domain.Vehicle
			insurance sql.NullTime
		)
		if err := rows.Scan(
			&v.ID, &v.DriverID, &v.CategoryID, &v.MakeModel, &v.RegistrationNumber,
			&v.YearManufactured, &v.Color, &v.SeatingCapacity,
			&insurance, &v.IsActive, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		if insurance.Valid {
			v.InsuranceExpiry = insurance.Time
		}
		vehicles = append(vehicles, &v)
	}
	return vehicles, rows.Err()
}

// ActiveCategoryIDs returns the distinct categories of a driver's active vehicles.
func (r *VehicleRepository) ActiveCategoryIDs(ctx context.Context, driverID string) ([]string, error) {
	query := `SELECT DISTINCT category_id FROM vehicles WHERE driver_id = $1 AND is_active ORDER BY category_id`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// VehicleCategoryRepository is a PostgreSQL implementation of repository.VehicleCategoryRepository.
type VehicleCategoryRepository struct {
	q Querier
}

// NewVehicleCategoryRepository creates a new PostgreSQL vehicle category repository.
func NewVehicleCategoryRepository(db *sql.DB) *VehicleCategoryRepository {
	return &VehicleCategoryRepository{q: db}
}

// ListActive retrieves the active categories in catalog order.
func (r *VehicleCategoryRepository) ListActive(ctx context.Context) ([]domain.VehicleCategory, error) {
	query := `
		SELECT id, name, vehicle_type, min_passengers, max_passengers, driver_rate_per_km, system_rate_per_km
		FROM vehicle_categories
		WHERE is_active
		ORDER BY sort_order, min_passengers, id
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.VehicleCategory
	for rows.Next() {
		var c domain.VehicleCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.MinPassengers, &c.MaxPassengers, &c.DriverRatePerKm, &c.SystemRatePerKm); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

var (
	_ repository.VehicleRepository         = (*VehicleRepository)(nil)
	_ repository.VehicleCategoryRepository = (*VehicleCategoryRepository)(nil)
)
