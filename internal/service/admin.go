package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 500
)

// Admin actions recorded in the audit log.
const (
	ActionToggleUserStatus   = "TOGGLE_USER_STATUS"
	ActionUpdateDriverStatus = "UPDATE_DRIVER_STATUS"
)

// AdminService backs the admin console.
type AdminService struct {
	adminRepo           repository.AdminRepository
	userRepo            repository.UserRepository
	driverRepo          repository.DriverRepository
	bookingRepo         repository.BookingRepository
	notificationService *NotificationService
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	adminRepo repository.AdminRepository,
	userRepo repository.UserRepository,
	driverRepo repository.DriverRepository,
	bookingRepo repository.BookingRepository,
	notificationService *NotificationService,
) *AdminService {
	return &AdminService{
		adminRepo:           adminRepo,
		userRepo:            userRepo,
		driverRepo:          driverRepo,
		bookingRepo:         bookingRepo,
		notificationService: notificationService,
	}
}

// Stats returns the dashboard counters.
func (s *AdminService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.adminRepo.DashboardStats(ctx)
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.UserSummary, error) {
	return s.userRepo.List(ctx)
}

// ToggleUserStatus activates or deactivates an account. Admins cannot
// toggle their own account.
func (s *AdminService) ToggleUserStatus(ctx context.Context, adminUserID, targetUserID string) (*domain.User, error) {
	if adminUserID == targetUserID {
		return nil, ErrCannotModifySelf
	}

	user, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	active, err := s.userRepo.ToggleActive(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	user.IsActive = active

	s.logAction(ctx, adminUserID, ActionToggleUserStatus, map[string]any{
		"target_user_id": targetUserID,
		"email":          user.Email,
		"is_active":      active,
	})

	return user, nil
}

// ListDrivers returns every driver with fleet and booking counts.
func (s *AdminService) ListDrivers(ctx context.Context) ([]*domain.DriverSummary, error) {
	return s.driverRepo.List(ctx)
}

// UpdateDriverStatus records an approval decision and notifies the driver.
func (s *AdminService) UpdateDriverStatus(ctx context.Context, adminUserID, driverID string, status domain.DriverStatus, notes string) (*domain.Driver, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriverStatus, status)
	}

	notes = strings.TrimSpace(notes)
	if err := s.driverRepo.UpdateStatus(ctx, driverID, status, notes); err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	s.logAction(ctx, adminUserID, ActionUpdateDriverStatus, map[string]any{
		"driver_id": driverID,
		"status":    status,
		"notes":     notes,
	})

	_ = s.notificationService.NotifyDriverStatusChanged(ctx, driver)

	return driver, nil
}

// ListBookings returns all bookings, optionally filtered by status.
func (s *AdminService) ListBookings(ctx context.Context, status domain.BookingStatus) ([]*domain.BookingView, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidBooking, status)
	}
	return s.bookingRepo.List(ctx, status)
}

// Logs returns the most recent admin actions. Non-positive limits use the
// default; larger limits are capped.
func (s *AdminService) Logs(ctx context.Context, limit int) ([]*domain.AdminLog, error) {
	switch {
	case limit <= 0:
		limit = defaultLogLimit
	case limit > maxLogLimit:
		limit = maxLogLimit
	}
	return s.adminRepo.ListLogs(ctx, limit)
}

// logAction writes an audit row. A failed write is logged, the mutation
// it describes has already happened.
func (s *AdminService) logAction(ctx context.Context, adminUserID, action string, details map[string]any) {
	raw, err := json.Marshal(details)
	if err != nil {
		log.Printf("admin log %s: marshal details: %v", action, err)
		return
	}

	entry := &domain.AdminLog{
		ID:          uuid.New().String(),
		AdminUserID: adminUserID,
		Action:      action,
		Details:     raw,
		CreatedAt:   time.Now(),
	}
	if err := s.adminRepo.LogAction(ctx, entry); err != nil {
		log.Printf("admin log %s: %v", action, err)
	}
}
