package tests

import (
	"context"
	"errors"
	"testing"

	"tourbook/internal/domain"
	"tourbook/internal/maps"
	"tourbook/internal/repository"
	"tourbook/internal/service"
)

// ──────────────────────────────────────────────
// FIXTURES
// ──────────────────────────────────────────────

var (
	colomboKandy = maps.Pair{From: "Colombo", To: "Kandy", Meters: 115000, Seconds: 3 * 3600}
	kandyElla    = maps.Pair{From: "Kandy", To: "Ella", Meters: 140000, Seconds: 4 * 3600}
	ellaColombo  = maps.Pair{From: "Ella", To: "Colombo", Meters: 220000, Seconds: 6 * 3600}
)

type bookingFixture struct {
	bookings *MockBookingRepository
	tourists *MockTouristRepository
	provider *maps.StaticProvider
	sink     *RecordingSink
	service  *service.BookingService
}

func newBookingFixture(pairs ...maps.Pair) *bookingFixture {
	f := &bookingFixture{
		bookings: NewMockBookingRepository(),
		tourists: NewMockTouristRepository(),
		provider: maps.NewStaticProvider(pairs...),
		sink:     &RecordingSink{},
	}
	f.tourists.AddTourist(&domain.Tourist{ID: "tourist-1", UserID: "user-t1", FirstName: "Nimal", LastName: "Perera"})

	catalog := service.DefaultVehicleCatalog()
	f.service = service.NewBookingService(
		f.bookings,
		f.tourists,
		service.NewRouteEstimator(f.provider, service.DefaultRoutePolicy()),
		service.NewFareCalculator(catalog, service.DefaultFarePolicy()),
		service.NewNotificationService(f.sink),
	)
	return f
}

func validBookingRequest() service.CreateBookingRequest {
	return service.CreateBookingRequest{
		UserID:     "user-t1",
		Stops:      []string{"Colombo", "Kandy"},
		StartDate:  "2026-11-01",
		StartTime:  "09:00",
		Travelers:  2,
		CategoryID: "cars",
	}
}

// ──────────────────────────────────────────────
// 1. BOOKING CREATION
// ──────────────────────────────────────────────

func TestCreateBooking_PricesServerSide(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy)

	resp, err := f.service.CreateBooking(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	b := resp.Booking
	if b.ID == "" {
		t.Error("expected booking ID to be set")
	}
	if b.Status != domain.BookingStatusPending {
		t.Errorf("expected pending, got %s", b.Status)
	}
	if b.TouristID != "tourist-1" {
		t.Errorf("expected tourist-1, got %s", b.TouristID)
	}
	if b.PickupLocation != "Colombo" || len(b.Destinations) != 1 || b.Destinations[0] != "Kandy" {
		t.Errorf("expected Colombo -> [Kandy], got %s -> %v", b.PickupLocation, b.Destinations)
	}
	if b.TotalDistanceKm != 115 || b.CalculatedDistanceKm != 130 {
		t.Errorf("expected 115 km billed as 130 km, got %v / %d", b.TotalDistanceKm, b.CalculatedDistanceKm)
	}
	if b.TripCost != 16900 || b.AccommodationCost != 0 || b.TotalCost != 16900 {
		t.Errorf("expected 16900 with no accommodation, got trip %d accommodation %d total %d",
			b.TripCost, b.AccommodationCost, b.TotalCost)
	}
	if b.TripDurationDays != 1 {
		t.Errorf("expected 1 day, got %d", b.TripDurationDays)
	}

	stored := f.bookings.GetBooking(b.ID)
	if stored == nil {
		t.Fatal("expected booking to be stored")
	}
	if stored.TotalCost != b.TotalCost {
		t.Errorf("expected stored total %d, got %d", b.TotalCost, stored.TotalCost)
	}

	events := f.sink.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(events))
	}
	if events[0].Type != domain.NotificationBookingCreated || events[0].RecipientID != "tourist-1" {
		t.Errorf("expected booking.created for tourist-1, got %s for %s", events[0].Type, events[0].RecipientID)
	}
}

func TestCreateBooking_MultiDayAddsAccommodation(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy, kandyElla, ellaColombo)

	req := validBookingRequest()
	req.Stops = []string{"Colombo", "Kandy", "Ella"}
	req.RoundTrip = true
	req.StartTime = "20:30"

	resp, err := f.service.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// 475 km + 10 km -> 490 km at 130, plus one night.
	if resp.Fare.RoundedDistanceKm != 490 {
		t.Errorf("expected 490 km, got %d", resp.Fare.RoundedDistanceKm)
	}
	if resp.Booking.TripDurationDays != 2 {
		t.Errorf("expected 2 days, got %d", resp.Booking.TripDurationDays)
	}
	if resp.Booking.AccommodationCost != 3000 {
		t.Errorf("expected accommodation 3000, got %d", resp.Booking.AccommodationCost)
	}
	if resp.Booking.TotalCost != 63700+3000 {
		t.Errorf("expected total 66700, got %d", resp.Booking.TotalCost)
	}
	if resp.Booking.TripType != domain.TripTypeReturn {
		t.Errorf("expected return trip, got %s", resp.Booking.TripType)
	}
	if got := resp.Booking.Destinations; len(got) != 2 || got[1] != "Ella" {
		t.Errorf("expected stored destinations without the return leg, got %v", got)
	}
}

func TestCreateBooking_CategoryNotSuitable(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy)

	req := validBookingRequest()
	req.CategoryID = "mini_buses"

	_, err := f.service.CreateBooking(context.Background(), req)
	if !errors.Is(err, service.ErrCategoryNotSuitable) {
		t.Fatalf("expected ErrCategoryNotSuitable, got %v", err)
	}
	if n := len(f.provider.Calls()); n != 0 {
		t.Errorf("expected no provider calls, got %d", n)
	}
	if f.bookings.Count() != 0 {
		t.Error("expected nothing stored")
	}
}

func TestCreateBooking_SegmentFailureStoresNothing(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy)

	req := validBookingRequest()
	req.Stops = []string{"Colombo", "Kandy", "Ella"}

	_, err := f.service.CreateBooking(context.Background(), req)
	if !errors.Is(err, service.ErrSegmentUnavailable) {
		t.Fatalf("expected ErrSegmentUnavailable, got %v", err)
	}
	if f.bookings.CreateCallCount != 0 {
		t.Errorf("expected no create calls, got %d", f.bookings.CreateCallCount)
	}
	if len(f.sink.Events()) != 0 {
		t.Error("expected no notification")
	}
}

func TestCreateBooking_RepositoryFailure(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy)
	f.bookings.CreateError = ErrMockDBConstraint

	_, err := f.service.CreateBooking(context.Background(), validBookingRequest())
	if !errors.Is(err, ErrMockDBConstraint) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if len(f.sink.Events()) != 0 {
		t.Error("expected no notification for a failed write")
	}
}

func TestCreateBooking_NotificationFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy)
	f.sink.PublishError = ErrMockTimeout

	resp, err := f.service.CreateBooking(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if f.bookings.GetBooking(resp.Booking.ID) == nil {
		t.Error("expected booking to be stored")
	}
}

func TestCreateBooking_UnknownTourist(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy)

	req := validBookingRequest()
	req.UserID = "user-nobody"

	_, err := f.service.CreateBooking(context.Background(), req)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBooking_InvalidRequest(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*service.CreateBookingRequest)
		wantErr error
	}{
		{name: "missing category", mutate: func(r *service.CreateBookingRequest) { r.CategoryID = "" }, wantErr: service.ErrInvalidBooking},
		{name: "no travelers", mutate: func(r *service.CreateBookingRequest) { r.Travelers = 0 }, wantErr: service.ErrInvalidBooking},
		{name: "bad start date", mutate: func(r *service.CreateBookingRequest) { r.StartDate = "01/11/2026" }, wantErr: service.ErrInvalidBooking},
		{name: "unknown category", mutate: func(r *service.CreateBookingRequest) { r.CategoryID = "tuk_tuk" }, wantErr: service.ErrUnknownVehicleCategory},
		{name: "single stop", mutate: func(r *service.CreateBookingRequest) { r.Stops = []string{"Colombo"} }, wantErr: service.ErrInvalidRoute},
		{name: "bad start time", mutate: func(r *service.CreateBookingRequest) { r.StartTime = "25:00" }, wantErr: service.ErrInvalidRoute},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newBookingFixture(colomboKandy)
			req := validBookingRequest()
			tc.mutate(&req)

			_, err := f.service.CreateBooking(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if f.bookings.Count() != 0 {
				t.Error("expected nothing stored")
			}
		})
	}
}

// ──────────────────────────────────────────────
// 2. QUOTES AND LISTINGS
// ──────────────────────────────────────────────

func TestQuote_PricesEverySuitableCategory(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy)

	quote, err := f.service.Quote(context.Background(), service.QuoteRequest{
		Stops:     []string{"Colombo", "Kandy"},
		Travelers: 8,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := []string{"kdh_flat_roof", "kdh_high_roof", "other_vans"}
	if len(quote.Fares) != len(want) {
		t.Fatalf("expected %d fares, got %d", len(want), len(quote.Fares))
	}
	for i, fare := range quote.Fares {
		if fare.CategoryID != want[i] {
			t.Errorf("fare %d: expected %s, got %s", i, want[i], fare.CategoryID)
		}
		if fare.BaseCost != 130*fare.RatePerKm {
			t.Errorf("fare %d: expected 130 km priced at %d, got %d", i, fare.RatePerKm, fare.BaseCost)
		}
	}
	if n := len(f.provider.Calls()); n != 1 {
		t.Errorf("expected the route to be resolved once, got %d calls", n)
	}
	if f.bookings.Count() != 0 {
		t.Error("expected a quote to store nothing")
	}
}

func TestQuote_TooManyTravelers(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy)

	quote, err := f.service.Quote(context.Background(), service.QuoteRequest{
		Stops:     []string{"Colombo", "Kandy"},
		Travelers: 40,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(quote.Fares) != 0 {
		t.Errorf("expected no fares, got %d", len(quote.Fares))
	}
}

func TestListMine_ReturnsOnlyOwnBookings(t *testing.T) {
	t.Parallel()

	f := newBookingFixture(colomboKandy)
	f.bookings.AddBooking(&domain.BookingView{Booking: domain.Booking{ID: "other", TouristID: "tourist-2"}})

	resp, err := f.service.CreateBooking(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	mine, err := f.service.ListMine(context.Background(), "user-t1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != resp.Booking.ID {
		t.Errorf("expected only booking %s, got %d bookings", resp.Booking.ID, len(mine))
	}
}
