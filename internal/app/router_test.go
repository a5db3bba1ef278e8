package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"tourbook/internal/auth"
	"tourbook/internal/domain"
	"tourbook/internal/handler"
	"tourbook/internal/maps"
	"tourbook/internal/service"
	"tourbook/internal/tests"
)

type testServer struct {
	router   *gin.Engine
	tokens   *auth.TokenManager
	bookings *tests.MockBookingRepository
	drivers  *tests.MockDriverRepository
}

func newTestServer(t *testing.T, redisClient *redis.Client) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenManager("router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	users := tests.NewMockUserRepository()
	users.AddUser(&domain.User{ID: "user-t1", Email: "t@example.com", Role: domain.RoleTourist, IsActive: true})
	users.AddUser(&domain.User{ID: "user-d1", Email: "d@example.com", Role: domain.RoleDriver, IsActive: true})
	users.AddUser(&domain.User{ID: "user-a1", Email: "a@example.com", Role: domain.RoleAdmin, IsActive: true})

	tourists := tests.NewMockTouristRepository()
	tourists.AddTourist(&domain.Tourist{ID: "tourist-1", UserID: "user-t1"})

	drivers := tests.NewMockDriverRepository()
	drivers.AddDriver(&domain.Driver{ID: "driver-1", UserID: "user-d1", Status: domain.DriverStatusApproved})

	vehicles := tests.NewMockVehicleRepository()
	vehicles.AddVehicle(&domain.Vehicle{ID: "v1", DriverID: "driver-1", CategoryID: "cars", IsActive: true})

	bookings := tests.NewMockBookingRepository()
	notifications := service.NewNotificationService(&tests.RecordingSink{})
	catalog := service.DefaultVehicleCatalog()
	provider := maps.NewStaticProvider(maps.Pair{From: "Colombo", To: "Kandy", Meters: 115000, Seconds: 3 * 3600})

	bookingService := service.NewBookingService(bookings, tourists,
		service.NewRouteEstimator(provider, service.DefaultRoutePolicy()),
		service.NewFareCalculator(catalog, service.DefaultFarePolicy()),
		notifications)
	driverService := service.NewDriverService(tests.NewMockLockStore(), drivers, vehicles, bookings, catalog, notifications)
	adminService := service.NewAdminService(tests.NewMockAdminRepository(), users, drivers, bookings, notifications)

	router := NewRouter(RouterDeps{
		BookingHandler: handler.NewBookingHandler(bookingService),
		DriverHandler:  handler.NewDriverHandler(driverService),
		AdminHandler:   handler.NewAdminHandler(adminService),
		Tokens:         tokens,
		Users:          users,
		RedisClient:    redisClient,
	})

	return &testServer{router: router, tokens: tokens, bookings: bookings, drivers: drivers}
}

func (s *testServer) do(t *testing.T, method, path, userID string, role domain.Role, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := s.tokens.Issue(userID, role)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

var bookingBody = map[string]any{
	"stops":       []string{"Colombo", "Kandy"},
	"start_date":  "2026-11-01",
	"start_time":  "09:00",
	"travelers":   2,
	"category_id": "cars",
}

func TestRouter_PublicRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/health", "", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got: %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}

	w = s.do(t, http.MethodGet, "/v1/vehicle-categories?passengers=8", "", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got: %d", w.Code)
	}
	var categories []handler.CategoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(categories) != 3 {
		t.Errorf("expected 3 van categories, got: %d", len(categories))
	}
}

func TestRouter_RoleGuards(t *testing.T) {
	s := newTestServer(t, nil)

	testCases := []struct {
		name   string
		method string
		path   string
		userID string
		role   domain.Role
		want   int
	}{
		{name: "quote without token", method: http.MethodPost, path: "/v1/quotes", want: http.StatusUnauthorized},
		{name: "driver cannot book", method: http.MethodPost, path: "/v1/bookings", userID: "user-d1", role: domain.RoleDriver, want: http.StatusForbidden},
		{name: "tourist cannot accept", method: http.MethodPost, path: "/v1/driver/bookings/b1/accept", userID: "user-t1", role: domain.RoleTourist, want: http.StatusForbidden},
		{name: "tourist cannot read stats", method: http.MethodGet, path: "/v1/admin/stats", userID: "user-t1", role: domain.RoleTourist, want: http.StatusForbidden},
		{name: "forged admin role", method: http.MethodGet, path: "/v1/admin/stats", userID: "user-t1", role: domain.RoleAdmin, want: http.StatusForbidden},
		{name: "admin reads stats", method: http.MethodGet, path: "/v1/admin/stats", userID: "user-a1", role: domain.RoleAdmin, want: http.StatusOK},
		{name: "unknown account", method: http.MethodGet, path: "/v1/bookings/mine", userID: "user-x", role: domain.RoleTourist, want: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, tc.method, tc.path, tc.userID, tc.role, bookingBody, nil)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got: %d (%s)", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_BookAndAccept(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/v1/bookings", "user-t1", domain.RoleTourist, bookingBody, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got: %d (%s)", w.Code, w.Body.String())
	}
	var created handler.CreateBookingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Booking.TotalCost != 16900 || created.Booking.Status != string(domain.BookingStatusPending) {
		t.Fatalf("expected pending booking at 16900, got %+v", created.Booking)
	}

	path := "/v1/driver/bookings/" + created.Booking.ID + "/accept"
	w = s.do(t, http.MethodPost, path, "user-d1", domain.RoleDriver, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got: %d (%s)", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, path, "user-d1", domain.RoleDriver, nil, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on a second accept, got: %d", w.Code)
	}
}

func TestRouter_QuoteSegmentFailure(t *testing.T) {
	s := newTestServer(t, nil)

	body := map[string]any{"stops": []string{"Colombo", "Jaffna"}}
	w := s.do(t, http.MethodPost, "/v1/quotes", "user-t1", domain.RoleTourist, body, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an unroutable leg, got: %d (%s)", w.Code, w.Body.String())
	}
	var resp handler.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected an error message")
	}
}

func TestRouter_IdempotentBookingCreation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := newTestServer(t, client)
	headers := map[string]string{"Idempotency-Key": "trip-42"}

	first := s.do(t, http.MethodPost, "/v1/bookings", "user-t1", domain.RoleTourist, bookingBody, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got: %d (%s)", first.Code, first.Body.String())
	}
	second := s.do(t, http.MethodPost, "/v1/bookings", "user-t1", domain.RoleTourist, bookingBody, headers)
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got: %d", second.Code)
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Error("expected replay header")
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("expected identical bodies")
	}
	if n := s.bookings.Count(); n != 1 {
		t.Errorf("expected 1 stored booking, got: %d", n)
	}
}
