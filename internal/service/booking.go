package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/domain"
	"tourbook/internal/obs"
	"tourbook/internal/repository"
)

// BookingService prices trips and records tourist bookings.
type BookingService struct {
	bookingRepo         repository.BookingRepository
	touristRepo         repository.TouristRepository
	estimator           *RouteEstimator
	fares               *FareCalculator
	notificationService *NotificationService
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	touristRepo repository.TouristRepository,
	estimator *RouteEstimator,
	fares *FareCalculator,
	notificationService *NotificationService,
) *BookingService {
	return &BookingService{
		bookingRepo:         bookingRepo,
		touristRepo:         touristRepo,
		estimator:           estimator,
		fares:               fares,
		notificationService: notificationService,
	}
}

// QuoteRequest contains the parameters for pricing a trip.
type QuoteRequest struct {
	Stops                 []string
	RoundTrip             bool
	StartTime             string
	Travelers             int    // 0 prices every category
	CategoryID            string // Optional: empty prices every suitable category
	AccommodationProvided bool
}

// Quote is an estimated route with one fare per vehicle category.
type Quote struct {
	Route *domain.RouteResult
	Fares []*domain.CostBreakdown
}

// Quote estimates the route once and prices it for the selected categories.
func (s *BookingService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	categories, err := s.selectCategories(req.CategoryID, req.Travelers)
	if err != nil {
		return nil, err
	}

	route, err := s.estimate(ctx, req.Stops, req.RoundTrip, req.StartTime)
	if err != nil {
		return nil, err
	}

	fares := make([]*domain.CostBreakdown, 0, len(categories))
	for _, cat := range categories {
		fare, err := s.fares.Calculate(float64(route.TotalDistanceKm), cat.ID, route.Schedule.DaysNeeded, req.AccommodationProvided)
		if err != nil {
			return nil, err
		}
		fares = append(fares, fare)
	}

	return &Quote{Route: route, Fares: fares}, nil
}

// CreateBookingRequest contains the parameters for booking a trip.
type CreateBookingRequest struct {
	UserID                string
	Stops                 []string
	RoundTrip             bool
	StartDate             string // YYYY-MM-DD
	StartTime             string // HH:MM
	Travelers             int
	CategoryID            string
	AccommodationProvided bool
	SpecialRequirements   string
}

// CreateBookingResponse contains the stored booking and how it was priced.
type CreateBookingResponse struct {
	Booking *domain.Booking
	Route   *domain.RouteResult
	Fare    *domain.CostBreakdown
}

// CreateBooking re-prices the trip server-side and stores it as pending.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (_ *CreateBookingResponse, err error) {
	defer obs.Time(ctx, "booking.Create")(&err)

	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	tourist, err := s.touristRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load tourist profile: %w", err)
	}

	if _, err := s.selectCategories(req.CategoryID, req.Travelers); err != nil {
		return nil, err
	}

	route, err := s.estimate(ctx, req.Stops, req.RoundTrip, req.StartTime)
	if err != nil {
		return nil, err
	}

	fare, err := s.fares.Calculate(float64(route.TotalDistanceKm), req.CategoryID, route.Schedule.DaysNeeded, req.AccommodationProvided)
	if err != nil {
		return nil, err
	}

	tripType := domain.TripTypeOneWay
	if req.RoundTrip {
		tripType = domain.TripTypeReturn
	}

	now := time.Now()
	stops := trimStops(req.Stops)
	booking := &domain.Booking{
		ID:                          uuid.New().String(),
		TouristID:                   tourist.ID,
		PickupLocation:              stops[0],
		Destinations:                stops[1:],
		TripType:                    tripType,
		StartDate:                   req.StartDate,
		StartTime:                   route.Schedule.StartTime,
		TravelersCount:              req.Travelers,
		CategoryID:                  fare.CategoryID,
		TotalDistanceKm:             fare.MapDistanceKm,
		CalculatedDistanceKm:        fare.RoundedDistanceKm,
		TripCost:                    fare.BaseCost,
		AccommodationCost:           fare.AccommodationCost,
		TotalCost:                   fare.TotalCost,
		DriverAccommodationProvided: req.AccommodationProvided,
		TripDurationDays:            fare.TripDurationDays,
		SpecialRequirements:         strings.TrimSpace(req.SpecialRequirements),
		Status:                      domain.BookingStatusPending,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	_ = s.notificationService.NotifyBookingCreated(ctx, booking)

	return &CreateBookingResponse{
		Booking: booking,
		Route:   route,
		Fare:    fare,
	}, nil
}

// ListMine retrieves the bookings of the tourist owned by userID.
func (s *BookingService) ListMine(ctx context.Context, userID string) ([]*domain.BookingView, error) {
	tourist, err := s.touristRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load tourist profile: %w", err)
	}
	return s.bookingRepo.ListByTourist(ctx, tourist.ID)
}

// Categories returns every category, or the suitable ones when passengers > 0.
func (s *BookingService) Categories(passengers int) []domain.VehicleCategory {
	if passengers > 0 {
		return s.fares.Catalog().Suitable(passengers)
	}
	return s.fares.Catalog().All()
}

func (s *BookingService) estimate(ctx context.Context, stops []string, roundTrip bool, startTime string) (*domain.RouteResult, error) {
	return s.estimator.Estimate(ctx, stops, domain.RouteOptions{
		RoundTrip:  roundTrip,
		StartTime:  startTime,
		DwellHours: s.estimator.Policy().DwellHours,
	})
}

// selectCategories resolves the categories to price. A named category must
// exist and, when travelers is set, carry them.
func (s *BookingService) selectCategories(categoryID string, travelers int) ([]domain.VehicleCategory, error) {
	catalog := s.fares.Catalog()

	if travelers < 0 {
		return nil, fmt.Errorf("%w: travelers must not be negative", ErrInvalidBooking)
	}

	if categoryID != "" {
		cat, ok := catalog.Get(categoryID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVehicleCategory, categoryID)
		}
		if travelers > 0 && !cat.Fits(travelers) {
			return nil, fmt.Errorf("%w: %s carries %d-%d, got %d",
				ErrCategoryNotSuitable, cat.Name, cat.MinPassengers, cat.MaxPassengers, travelers)
		}
		return []domain.VehicleCategory{cat}, nil
	}

	if travelers == 0 {
		return catalog.All(), nil
	}
	return catalog.Suitable(travelers), nil
}

func validateBookingRequest(req CreateBookingRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: missing user", ErrInvalidBooking)
	}
	if req.CategoryID == "" {
		return fmt.Errorf("%w: vehicle category is required", ErrInvalidBooking)
	}
	if req.Travelers < 1 {
		return fmt.Errorf("%w: at least one traveler is required", ErrInvalidBooking)
	}
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		return fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrInvalidBooking, req.StartDate)
	}
	return nil
}

func trimStops(stops []string) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
