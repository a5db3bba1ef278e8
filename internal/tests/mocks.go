package tests

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"tourbook/internal/domain"
	"tourbook/internal/redis"
	"tourbook/internal/repository"
	"tourbook/internal/service"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.BookingView

	// Counters for verification
	CreateCallCount int32
	AcceptCallCount int32

	// Error injection
	CreateError error
	AcceptError error

	// AcceptDelay widens the window between the pending check and the update.
	AcceptDelay time.Duration
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.BookingView),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(view *domain.BookingView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[view.ID] = view
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.bookings[booking.ID]; exists {
		return repository.ErrConflict
	}
	m.bookings[booking.ID] = &domain.BookingView{Booking: *booking}
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.BookingView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	view, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *view
	return &copy, nil
}

func (m *MockBookingRepository) ListByTourist(ctx context.Context, touristID string) ([]*domain.BookingView, error) {
	return m.filter(func(v *domain.BookingView) bool { return v.TouristID == touristID }), nil
}

func (m *MockBookingRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.BookingView, error) {
	return m.filter(func(v *domain.BookingView) bool { return v.DriverID == driverID }), nil
}

func (m *MockBookingRepository) ListAvailable(ctx context.Context, categoryIDs []string) ([]*domain.BookingView, error) {
	return m.filter(func(v *domain.BookingView) bool {
		return v.Status == domain.BookingStatusPending && v.DriverID == "" && slices.Contains(categoryIDs, v.CategoryID)
	}), nil
}

func (m *MockBookingRepository) List(ctx context.Context, status domain.BookingStatus) ([]*domain.BookingView, error) {
	return m.filter(func(v *domain.BookingView) bool { return status == "" || v.Status == status }), nil
}

// Accept mirrors the conditional update: only a pending, unassigned booking
// is confirmed.
func (m *MockBookingRepository) Accept(ctx context.Context, id, driverID string) error {
	atomic.AddInt32(&m.AcceptCallCount, 1)
	if m.AcceptError != nil {
		return m.AcceptError
	}
	if m.AcceptDelay > 0 {
		time.Sleep(m.AcceptDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	view, ok := m.bookings[id]
	if !ok || view.Status != domain.BookingStatusPending || view.DriverID != "" {
		return repository.ErrNotFound
	}
	view.DriverID = driverID
	view.Status = domain.BookingStatusConfirmed
	view.UpdatedAt = time.Now()
	return nil
}

// GetBooking returns a booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.BookingView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// Count returns the number of stored bookings.
func (m *MockBookingRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

func (m *MockBookingRepository) filter(keep func(*domain.BookingView) bool) []*domain.BookingView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.BookingView, 0, len(m.bookings))
	for _, v := range m.bookings {
		if keep(v) {
			copy := *v
			result = append(result, &copy)
		}
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK TOURIST REPOSITORY
// ──────────────────────────────────────────────

// MockTouristRepository is a mock implementation of TouristRepository.
type MockTouristRepository struct {
	mu       sync.RWMutex
	tourists map[string]*domain.Tourist // keyed by user id
}

// NewMockTouristRepository creates a new mock tourist repository.
func NewMockTouristRepository() *MockTouristRepository {
	return &MockTouristRepository{
		tourists: make(map[string]*domain.Tourist),
	}
}

// AddTourist adds a tourist profile to the mock repository.
func (m *MockTouristRepository) AddTourist(tourist *domain.Tourist) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tourists[tourist.UserID] = tourist
}

func (m *MockTouristRepository) GetByUserID(ctx context.Context, userID string) (*domain.Tourist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tourist, ok := m.tourists[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *tourist
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	UpdateStatusCallCount int32

	// Error injection
	UpdateStatusError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.UserID == userID {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) List(ctx context.Context) ([]*domain.DriverSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.DriverSummary, 0, len(m.drivers))
	for _, d := range m.drivers {
		result = append(result, &domain.DriverSummary{Driver: *d})
	}
	return result, nil
}

func (m *MockDriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus, notes string) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Status = status
	driver.AdminNotes = notes
	driver.UpdatedAt = time.Now()
	return nil
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles []*domain.Vehicle

	// Counters for verification
	CreateCallCount int32
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles = append(m.vehicles, vehicle)
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vehicles {
		if v.RegistrationNumber == vehicle.RegistrationNumber {
			return repository.ErrConflict
		}
	}
	m.vehicles = append(m.vehicles, vehicle)
	return nil
}

func (m *MockVehicleRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Vehicle
	for _, v := range m.vehicles {
		if v.DriverID == driverID && v.IsActive {
			copy := *v
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockVehicleRepository) ActiveCategoryIDs(ctx context.Context, driverID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for _, v := range m.vehicles {
		if v.DriverID == driverID && v.IsActive && !slices.Contains(ids, v.CategoryID) {
			ids = append(ids, v.CategoryID)
		}
	}
	return ids, nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	ToggleCallCount int32
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.UserSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.UserSummary, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, &domain.UserSummary{User: *u})
	}
	return result, nil
}

func (m *MockUserRepository) ToggleActive(ctx context.Context, id string) (bool, error) {
	atomic.AddInt32(&m.ToggleCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	user.IsActive = !user.IsActive
	return user.IsActive, nil
}

// ──────────────────────────────────────────────
// MOCK ADMIN REPOSITORY
// ──────────────────────────────────────────────

// MockAdminRepository is a mock implementation of AdminRepository.
type MockAdminRepository struct {
	mu   sync.RWMutex
	logs []*domain.AdminLog

	// Error injection
	LogActionError error

	Stats *domain.DashboardStats
}

// NewMockAdminRepository creates a new mock admin repository.
func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{
		Stats: &domain.DashboardStats{},
	}
}

func (m *MockAdminRepository) LogAction(ctx context.Context, entry *domain.AdminLog) error {
	if m.LogActionError != nil {
		return m.LogActionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, entry)
	return nil
}

func (m *MockAdminRepository) ListLogs(ctx context.Context, limit int) ([]*domain.AdminLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.AdminLog, 0, limit)
	for i := len(m.logs) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.logs[i])
	}
	return result, nil
}

func (m *MockAdminRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return m.Stats, nil
}

// Logs returns the recorded entries in insertion order.
func (m *MockAdminRepository) Logs() []*domain.AdminLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AdminLog(nil), m.logs...)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]lockEntry

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

type lockEntry struct {
	owner  string
	expiry time.Time
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]lockEntry),
	}
}

func (m *MockLockStore) AcquireBookingLock(ctx context.Context, bookingID, owner string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, exists := m.locks[bookingID]; exists && time.Now().Before(entry.expiry) {
		return false, nil // Lock still held.
	}
	m.locks[bookingID] = lockEntry{owner: owner, expiry: time.Now().Add(ttl)}
	return true, nil
}

func (m *MockLockStore) ReleaseBookingLock(ctx context.Context, bookingID, owner string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, exists := m.locks[bookingID]; exists && entry.owner == owner {
		delete(m.locks, bookingID)
	}
	return nil
}

// IsLocked checks if a booking is locked (for test assertions).
func (m *MockLockStore) IsLocked(bookingID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, exists := m.locks[bookingID]
	return exists && time.Now().Before(entry.expiry)
}

// ──────────────────────────────────────────────
// RECORDING EVENT SINK
// ──────────────────────────────────────────────

// RecordingSink captures published notifications.
type RecordingSink struct {
	mu     sync.Mutex
	events []domain.Notification

	// Error injection
	PublishError error
}

func (s *RecordingSink) Publish(ctx context.Context, notification domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, notification)
	return s.PublishError
}

// Events returns the notifications published so far.
func (s *RecordingSink) Events() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.events...)
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)

// Ensure mocks implement interfaces.
var (
	_ repository.BookingRepository = (*MockBookingRepository)(nil)
	_ repository.TouristRepository = (*MockTouristRepository)(nil)
	_ repository.DriverRepository  = (*MockDriverRepository)(nil)
	_ repository.VehicleRepository = (*MockVehicleRepository)(nil)
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.AdminRepository   = (*MockAdminRepository)(nil)
	_ redis.LockStoreInterface     = (*MockLockStore)(nil)
	_ service.EventSink            = (*RecordingSink)(nil)
)
