package tests

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
	"tourbook/internal/service"
)

type adminFixture struct {
	admin    *MockAdminRepository
	users    *MockUserRepository
	drivers  *MockDriverRepository
	bookings *MockBookingRepository
	sink     *RecordingSink
	service  *service.AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		admin:    NewMockAdminRepository(),
		users:    NewMockUserRepository(),
		drivers:  NewMockDriverRepository(),
		bookings: NewMockBookingRepository(),
		sink:     &RecordingSink{},
	}
	f.users.AddUser(&domain.User{ID: "admin-1", Email: "admin@tourbook.lk", Role: domain.RoleAdmin, IsActive: true})
	f.users.AddUser(&domain.User{ID: "user-t1", Email: "nimal@example.com", Role: domain.RoleTourist, IsActive: true})
	f.drivers.AddDriver(&domain.Driver{ID: "driver-1", UserID: "user-d1", FirstName: "Kamal", Status: domain.DriverStatusPending})

	f.service = service.NewAdminService(f.admin, f.users, f.drivers, f.bookings, service.NewNotificationService(f.sink))
	return f
}

// ──────────────────────────────────────────────
// 1. ACCOUNT STATUS
// ──────────────────────────────────────────────

func TestToggleUserStatus_CannotModifySelf(t *testing.T) {
	t.Parallel()

	f := newAdminFixture()

	_, err := f.service.ToggleUserStatus(context.Background(), "admin-1", "admin-1")
	if !errors.Is(err, service.ErrCannotModifySelf) {
		t.Fatalf("expected ErrCannotModifySelf, got %v", err)
	}
	if f.users.ToggleCallCount != 0 {
		t.Errorf("expected no toggle, got %d calls", f.users.ToggleCallCount)
	}
	if len(f.admin.Logs()) != 0 {
		t.Error("expected no audit entry")
	}
}

func TestToggleUserStatus_FlipsAndLogs(t *testing.T) {
	t.Parallel()

	f := newAdminFixture()

	user, err := f.service.ToggleUserStatus(context.Background(), "admin-1", "user-t1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.IsActive {
		t.Error("expected user to be deactivated")
	}

	logs := f.admin.Logs()
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(logs))
	}
	if logs[0].Action != service.ActionToggleUserStatus || logs[0].AdminUserID != "admin-1" {
		t.Errorf("expected toggle by admin-1, got %s by %s", logs[0].Action, logs[0].AdminUserID)
	}

	var details map[string]any
	if err := json.Unmarshal(logs[0].Details, &details); err != nil {
		t.Fatalf("expected JSON details, got: %v", err)
	}
	if details["target_user_id"] != "user-t1" || details["is_active"] != false {
		t.Errorf("unexpected details: %v", details)
	}

	// Toggling again reactivates.
	user, err = f.service.ToggleUserStatus(context.Background(), "admin-1", "user-t1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !user.IsActive {
		t.Error("expected user to be reactivated")
	}
}

func TestToggleUserStatus_UnknownUser(t *testing.T) {
	t.Parallel()

	f := newAdminFixture()

	_, err := f.service.ToggleUserStatus(context.Background(), "admin-1", "user-missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleUserStatus_AuditFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	f := newAdminFixture()
	f.admin.LogActionError = ErrMockTimeout

	if _, err := f.service.ToggleUserStatus(context.Background(), "admin-1", "user-t1"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 2. DRIVER APPROVAL
// ──────────────────────────────────────────────

func TestUpdateDriverStatus_ApprovesAndNotifies(t *testing.T) {
	t.Parallel()

	f := newAdminFixture()

	driver, err := f.service.UpdateDriverStatus(context.Background(), "admin-1", "driver-1", domain.DriverStatusApproved, "  documents verified ")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if driver.Status != domain.DriverStatusApproved || driver.AdminNotes != "documents verified" {
		t.Errorf("expected approved with trimmed notes, got %s %q", driver.Status, driver.AdminNotes)
	}

	logs := f.admin.Logs()
	if len(logs) != 1 || logs[0].Action != service.ActionUpdateDriverStatus {
		t.Fatalf("expected one driver status audit entry, got %+v", logs)
	}

	events := f.sink.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(events))
	}
	if events[0].Type != domain.NotificationDriverStatusChanged || events[0].RecipientID != "user-d1" {
		t.Errorf("expected driver.status_changed for user-d1, got %s for %s", events[0].Type, events[0].RecipientID)
	}
}

func TestUpdateDriverStatus_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		driverID string
		status   domain.DriverStatus
		wantErr  error
	}{
		{name: "unknown status", driverID: "driver-1", status: "on_holiday", wantErr: service.ErrInvalidDriverStatus},
		{name: "empty status", driverID: "driver-1", status: "", wantErr: service.ErrInvalidDriverStatus},
		{name: "unknown driver", driverID: "driver-missing", status: domain.DriverStatusApproved, wantErr: repository.ErrNotFound},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newAdminFixture()

			_, err := f.service.UpdateDriverStatus(context.Background(), "admin-1", tc.driverID, tc.status, "")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if len(f.admin.Logs()) != 0 {
				t.Error("expected no audit entry")
			}
			if len(f.sink.Events()) != 0 {
				t.Error("expected no notification")
			}
		})
	}
}

// ──────────────────────────────────────────────
// 3. LISTINGS
// ──────────────────────────────────────────────

func TestListBookings_FiltersByStatus(t *testing.T) {
	t.Parallel()

	f := newAdminFixture()
	f.bookings.AddBooking(&domain.BookingView{Booking: domain.Booking{ID: "b1", Status: domain.BookingStatusPending}})
	f.bookings.AddBooking(&domain.BookingView{Booking: domain.Booking{ID: "b2", Status: domain.BookingStatusConfirmed}})

	all, err := f.service.ListBookings(context.Background(), "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 bookings, got %d", len(all))
	}

	pending, err := f.service.ListBookings(context.Background(), domain.BookingStatusPending)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "b1" {
		t.Errorf("expected only b1, got %d bookings", len(pending))
	}

	if _, err := f.service.ListBookings(context.Background(), "lost"); !errors.Is(err, service.ErrInvalidBooking) {
		t.Errorf("expected ErrInvalidBooking, got %v", err)
	}
}

func TestLogs_LimitIsClamped(t *testing.T) {
	t.Parallel()

	f := newAdminFixture()
	for i := 0; i < 600; i++ {
		_ = f.admin.LogAction(context.Background(), &domain.AdminLog{ID: "log", Action: service.ActionToggleUserStatus})
	}

	testCases := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 100},
		{limit: -5, want: 100},
		{limit: 20, want: 20},
		{limit: 10000, want: 500},
	}

	for _, tc := range testCases {
		logs, err := f.service.Logs(context.Background(), tc.limit)
		if err != nil {
			t.Fatalf("limit %d: expected no error, got: %v", tc.limit, err)
		}
		if len(logs) != tc.want {
			t.Errorf("limit %d: expected %d entries, got %d", tc.limit, tc.want, len(logs))
		}
	}
}
