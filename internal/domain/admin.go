package domain

import (
	"encoding/json"
	"time"
)

// AdminLog records one administrative action.
type AdminLog struct {
	ID          string
	AdminUserID string
	AdminEmail  string
	Action      string
	Details     json.RawMessage
	CreatedAt   time.Time
}

// RoleCount is the per-role user breakdown.
type RoleCount struct {
	Role     Role
	Count    int
	Verified int
	Active   int
}

// DriverStatusCount is the number of drivers in one status.
type DriverStatusCount struct {
	Status DriverStatus
	Count  int
}

// BookingStatusCount is the number of bookings and their revenue in one status.
type BookingStatusCount struct {
	Status  BookingStatus
	Count   int
	Revenue int64
}

// DashboardTotals are the headline counters on the admin dashboard.
type DashboardTotals struct {
	Users    int
	Drivers  int
	Tourists int
	Bookings int
	Revenue  int64 // completed bookings only
}

// DashboardStats aggregates the admin dashboard.
type DashboardStats struct {
	Users    []RoleCount
	Drivers  []DriverStatusCount
	Bookings []BookingStatusCount
	Totals   DashboardTotals
}
