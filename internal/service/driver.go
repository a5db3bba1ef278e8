package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/domain"
	"tourbook/internal/redis"
	"tourbook/internal/repository"
)

// bookingLockTTL bounds how long an accept can hold a booking.
const bookingLockTTL = 10 * time.Second

// DriverService handles driver fleets and booking acceptance.
type DriverService struct {
	lockStore           redis.LockStoreInterface
	driverRepo          repository.DriverRepository
	vehicleRepo         repository.VehicleRepository
	bookingRepo         repository.BookingRepository
	catalog             *VehicleCatalog
	notificationService *NotificationService
}

// NewDriverService creates a new DriverService.
// A nil lockStore skips the distributed lock and relies on the conditional update.
func NewDriverService(
	lockStore redis.LockStoreInterface,
	driverRepo repository.DriverRepository,
	vehicleRepo repository.VehicleRepository,
	bookingRepo repository.BookingRepository,
	catalog *VehicleCatalog,
	notificationService *NotificationService,
) *DriverService {
	return &DriverService{
		lockStore:           lockStore,
		driverRepo:          driverRepo,
		vehicleRepo:         vehicleRepo,
		bookingRepo:         bookingRepo,
		catalog:             catalog,
		notificationService: notificationService,
	}
}

// AddVehicleRequest contains the parameters for registering a vehicle.
type AddVehicleRequest struct {
	UserID             string
	CategoryID         string
	MakeModel          string
	RegistrationNumber string
	YearManufactured   int
	Color              string
	SeatingCapacity    int
	InsuranceExpiry    string // YYYY-MM-DD, optional
}

// AddVehicle registers a vehicle under the driver owned by the user.
func (s *DriverService) AddVehicle(ctx context.Context, req AddVehicleRequest) (*domain.Vehicle, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load driver profile: %w", err)
	}

	if _, ok := s.catalog.Get(req.CategoryID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVehicleCategory, req.CategoryID)
	}

	registration := strings.ToUpper(strings.TrimSpace(req.RegistrationNumber))
	if registration == "" {
		return nil, fmt.Errorf("%w: registration number is required", ErrInvalidVehicle)
	}
	if strings.TrimSpace(req.MakeModel) == "" {
		return nil, fmt.Errorf("%w: make and model are required", ErrInvalidVehicle)
	}
	if req.SeatingCapacity < 1 {
		return nil, fmt.Errorf("%w: seating capacity must be positive", ErrInvalidVehicle)
	}
	if req.YearManufactured < 0 {
		return nil, fmt.Errorf("%w: year must not be negative", ErrInvalidVehicle)
	}

	var insurance time.Time
	if req.InsuranceExpiry != "" {
		insurance, err = time.Parse("2006-01-02", req.InsuranceExpiry)
		if err != nil {
			return nil, fmt.Errorf("%w: insurance expiry %q is not YYYY-MM-DD", ErrInvalidVehicle, req.InsuranceExpiry)
		}
	}

	vehicle := &domain.Vehicle{
		ID:                 uuid.New().String(),
		DriverID:           driver.ID,
		CategoryID:         req.CategoryID,
		MakeModel:          strings.TrimSpace(req.MakeModel),
		RegistrationNumber: registration,
		YearManufactured:   req.YearManufactured,
		Color:              strings.TrimSpace(req.Color),
		SeatingCapacity:    req.SeatingCapacity,
		InsuranceExpiry:    insurance,
		IsActive:           true,
		CreatedAt:          time.Now(),
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// ListVehicles retrieves the active vehicles of the driver owned by the user.
func (s *DriverService) ListVehicles(ctx context.Context, userID string) ([]*domain.Vehicle, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load driver profile: %w", err)
	}
	return s.vehicleRepo.ListByDriver(ctx, driver.ID)
}

// AvailableBookings lists pending bookings the driver's fleet can serve.
func (s *DriverService) AvailableBookings(ctx context.Context, userID string) ([]*domain.BookingView, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load driver profile: %w", err)
	}

	categories, err := s.vehicleRepo.ActiveCategoryIDs(ctx, driver.ID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []*domain.BookingView{}, nil
	}
	return s.bookingRepo.ListAvailable(ctx, categories)
}

// MyBookings lists the bookings accepted by the driver.
func (s *DriverService) MyBookings(ctx context.Context, userID string) ([]*domain.BookingView, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load driver profile: %w", err)
	}
	return s.bookingRepo.ListByDriver(ctx, driver.ID)
}

// AcceptBooking assigns the driver to a pending booking.
//
// Flow:
//  1. Driver must be approved and own an active vehicle of the booking's category.
//  2. Acquire the booking lock so concurrent accepts fail fast.
//  3. Conditionally confirm the booking; a booking that left pending is rejected.
//  4. Release the lock and notify the tourist.
func (s *DriverService) AcceptBooking(ctx context.Context, userID, bookingID string) (*domain.BookingView, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("%w: missing booking id", ErrInvalidBooking)
	}

	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load driver profile: %w", err)
	}
	if driver.Status != domain.DriverStatusApproved {
		return nil, ErrDriverNotApproved
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotPending
		}
		return nil, err
	}
	if booking.Status != domain.BookingStatusPending || booking.DriverID != "" {
		return nil, ErrBookingNotPending
	}

	categories, err := s.vehicleRepo.ActiveCategoryIDs(ctx, driver.ID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(categories, booking.CategoryID) {
		return nil, ErrNoMatchingVehicle
	}

	if s.lockStore != nil {
		acquired, err := s.lockStore.AcquireBookingLock(ctx, bookingID, driver.ID, bookingLockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrBookingLocked
		}
		defer func() {
			// Release on a fresh context so a cancelled request still frees the lock.
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.lockStore.ReleaseBookingLock(releaseCtx, bookingID, driver.ID); err != nil {
				log.Printf("release booking lock %s: %v", bookingID, err)
			}
		}()
	}

	if err := s.bookingRepo.Accept(ctx, bookingID, driver.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotPending
		}
		return nil, err
	}

	booking.DriverID = driver.ID
	booking.Status = domain.BookingStatusConfirmed
	booking.DriverName = driver.FullName()
	booking.DriverPhone = driver.Phone
	booking.UpdatedAt = time.Now()

	_ = s.notificationService.NotifyBookingAccepted(ctx, &booking.Booking, driver)

	return booking, nil
}
