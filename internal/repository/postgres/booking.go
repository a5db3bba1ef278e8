package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

const bookingViewQuery = `
	SELECT b.id, b.tourist_id, COALESCE(b.driver_id, ''), b.pickup_location, b.destinations,
	       b.trip_type, b.start_date, b.start_time, b.travelers_count, b.vehicle_category_id,
	       b.total_distance_km, b.calculated_distance_km, b.trip_cost, b.accommodation_cost, b.total_cost,
	       b.driver_accommodation_provided, b.trip_duration_days, COALESCE(b.special_requirements, ''),
	       b.status, b.created_at, b.updated_at,
	       COALESCE(vc.name, ''),
	       COALESCE(t.first_name, ''), COALESCE(t.last_name, ''), COALESCE(t.phone, ''),
	       COALESCE(d.first_name, ''), COALESCE(d.last_name, ''), COALESCE(d.phone, '')
	FROM bookings b
	LEFT JOIN vehicle_categories vc ON vc.id = b.vehicle_category_id
	LEFT JOIN tourists t ON t.id = b.tourist_id
	LEFT JOIN drivers d ON d.id = b.driver_id
`

func scanBookingView(s scanner) (*domain.BookingView, error) {
	var (
		v            domain.BookingView
		destinations []byte
		startDate    time.Time
		tourist      domain.Tourist
		driver       domain.Driver
	)
	err := s.Scan(
		&v.ID, &v.TouristID, &v.DriverID, &v.PickupLocation, &destinations,
		&v.TripType, &startDate, &v.StartTime, &v.TravelersCount, &v.CategoryID,
		&v.TotalDistanceKm, &v.CalculatedDistanceKm, &v.TripCost, &v.AccommodationCost, &v.TotalCost,
		&v.DriverAccommodationProvided, &v.TripDurationDays, &v.SpecialRequirements,
		&v.Status, &v.CreatedAt, &v.UpdatedAt,
		&v.CategoryName,
		&tourist.FirstName, &tourist.LastName, &v.TouristPhone,
		&driver.FirstName, &driver.LastName, &v.DriverPhone,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(destinations, &v.Destinations); err != nil {
		return nil, fmt.Errorf("booking %s destinations: %w", v.ID, err)
	}
	v.StartDate = startDate.Format("2006-01-02")
	v.TouristName = tourist.FullName()
	v.DriverName = driver.FullName()

	return &v, nil
}

func (r *BookingRepository) list(ctx context.Context, where string, args ...any) ([]*domain.BookingView, error) {
	rows, err := r.q.QueryContext(ctx, bookingViewQuery+where+` ORDER BY b.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []*domain.BookingView{}
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, v)
	}
	return bookings, rows.Err()
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			id, tourist_id, driver_id, pickup_location, destinations, trip_type, start_date, start_time,
			travelers_count, vehicle_category_id, total_distance_km, calculated_distance_km,
			trip_cost, accommodation_cost, total_cost, driver_accommodation_provided, trip_duration_days,
			special_requirements, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	destinations := b.Destinations
	if destinations == nil {
		destinations = []string{}
	}
	raw, err := json.Marshal(destinations)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		b.ID,
		b.TouristID,
		nullString(b.DriverID),
		b.PickupLocation,
		string(raw),
		b.TripType,
		b.StartDate,
		b.StartTime,
		b.TravelersCount,
		b.CategoryID,
		b.TotalDistanceKm,
		b.CalculatedDistanceKm,
		b.TripCost,
		b.AccommodationCost,
		b.TotalCost,
		b.DriverAccommodationProvided,
		b.TripDurationDays,
		nullString(b.SpecialRequirements),
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.BookingView, error) {
	v, err := scanBookingView(r.q.QueryRowContext(ctx, bookingViewQuery+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

// ListByTourist retrieves the bookings made by a tourist.
func (r *BookingRepository) ListByTourist(ctx context.Context, touristID string) ([]*domain.BookingView, error) {
	return r.list(ctx, ` WHERE b.tourist_id = $1`, touristID)
}

// ListByDriver retrieves the bookings accepted by a driver.
func (r *BookingRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.BookingView, error) {
	return r.list(ctx, ` WHERE b.driver_id = $1`, driverID)
}

// ListAvailable retrieves pending, unassigned bookings in any of the given categories.
func (r *BookingRepository) ListAvailable(ctx context.Context, categoryIDs []string) ([]*domain.BookingView, error) {
	return r.list(ctx,
		` WHERE b.status = $1 AND b.driver_id IS NULL AND b.vehicle_category_id = ANY($2)`,
		domain.BookingStatusPending, pq.Array(categoryIDs),
	)
}

// List retrieves all bookings, optionally filtered by status.
func (r *BookingRepository) List(ctx context.Context, status domain.BookingStatus) ([]*domain.BookingView, error) {
	if status == "" {
		return r.list(ctx, "")
	}
	return r.list(ctx, ` WHERE b.status = $1`, status)
}

// Accept assigns a driver to a pending booking and confirms it.
func (r *BookingRepository) Accept(ctx context.Context, id, driverID string) error {
	query := `
		UPDATE bookings
		SET driver_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4 AND driver_id IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, driverID, domain.BookingStatusConfirmed, id, domain.BookingStatusPending)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

var _ repository.BookingRepository = (*BookingRepository)(nil)
