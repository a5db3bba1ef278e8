package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tourbook/internal/domain"
)

// Schema lists the DDL statements applied by InitSchema, in order.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL CHECK (role IN ('tourist', 'driver', 'admin')),
		is_verified   BOOLEAN NOT NULL DEFAULT FALSE,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tourists (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		phone      TEXT,
		country    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		first_name  TEXT NOT NULL DEFAULT '',
		last_name   TEXT NOT NULL DEFAULT '',
		phone       TEXT,
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK (status IN ('pending', 'approved', 'rejected', 'suspended')),
		admin_notes TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS vehicle_categories (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		vehicle_type       TEXT NOT NULL,
		min_passengers     INT NOT NULL,
		max_passengers     INT NOT NULL,
		driver_rate_per_km BIGINT NOT NULL,
		system_rate_per_km BIGINT NOT NULL,
		sort_order         INT NOT NULL DEFAULT 0,
		is_active          BOOLEAN NOT NULL DEFAULT TRUE,
		CHECK (min_passengers <= max_passengers)
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id                  TEXT PRIMARY KEY,
		driver_id           TEXT NOT NULL REFERENCES drivers(id) ON DELETE CASCADE,
		category_id         TEXT NOT NULL REFERENCES vehicle_categories(id),
		make_model          TEXT NOT NULL,
		registration_number TEXT NOT NULL UNIQUE,
		year_manufactured   INT,
		color               TEXT,
		seating_capacity    INT NOT NULL CHECK (seating_capacity > 0),
		insurance_expiry    DATE,
		is_active           BOOLEAN NOT NULL DEFAULT TRUE,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                            TEXT PRIMARY KEY,
		tourist_id                    TEXT NOT NULL REFERENCES tourists(id),
		driver_id                     TEXT REFERENCES drivers(id),
		pickup_location               TEXT NOT NULL,
		destinations                  JSONB NOT NULL DEFAULT '[]',
		trip_type                     TEXT NOT NULL CHECK (trip_type IN ('one_way', 'round_trip')),
		start_date                    DATE NOT NULL,
		start_time                    TEXT NOT NULL,
		travelers_count               INT NOT NULL CHECK (travelers_count > 0),
		vehicle_category_id           TEXT NOT NULL REFERENCES vehicle_categories(id),
		total_distance_km             DOUBLE PRECISION NOT NULL,
		calculated_distance_km        BIGINT NOT NULL,
		trip_cost                     BIGINT NOT NULL,
		accommodation_cost            BIGINT NOT NULL DEFAULT 0,
		total_cost                    BIGINT NOT NULL,
		driver_accommodation_provided BOOLEAN NOT NULL DEFAULT FALSE,
		trip_duration_days            INT NOT NULL DEFAULT 1,
		special_requirements          TEXT,
		status                        TEXT NOT NULL DEFAULT 'pending'
		                              CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled')),
		created_at                    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at                    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_open ON bookings (status, vehicle_category_id) WHERE driver_id IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_tourist ON bookings (tourist_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_driver ON bookings (driver_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS admin_logs (
		id            TEXT PRIMARY KEY,
		admin_user_id TEXT NOT NULL REFERENCES users(id),
		action        TEXT NOT NULL,
		details       JSONB,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// InitSchema applies every statement in Schema. It is idempotent.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// SeedCategories upserts the given categories in order, keeping any extra rows.
func SeedCategories(ctx context.Context, db *sql.DB, categories []domain.VehicleCategory) error {
	query := `
		INSERT INTO vehicle_categories (id, name, vehicle_type, min_passengers, max_passengers, driver_rate_per_km, system_rate_per_km, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			vehicle_type = EXCLUDED.vehicle_type,
			min_passengers = EXCLUDED.min_passengers,
			max_passengers = EXCLUDED.max_passengers,
			driver_rate_per_km = EXCLUDED.driver_rate_per_km,
			system_rate_per_km = EXCLUDED.system_rate_per_km,
			sort_order = EXCLUDED.sort_order
	`

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, c := range categories {
		if _, err := tx.ExecContext(ctx, query,
			c.ID, c.Name, c.Type, c.MinPassengers, c.MaxPassengers, c.DriverRatePerKm, c.SystemRatePerKm, i+1,
		); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}
