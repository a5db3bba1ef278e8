package domain

import "time"

// DriverStatus represents the approval state of a driver.
type DriverStatus string

const (
	DriverStatusPending   DriverStatus = "pending"
	DriverStatusApproved  DriverStatus = "approved"
	DriverStatusRejected  DriverStatus = "rejected"
	DriverStatusSuspended DriverStatus = "suspended"
)

// Valid reports whether s is a known driver status.
func (s DriverStatus) Valid() bool {
	switch s {
	case DriverStatusPending, DriverStatusApproved, DriverStatusRejected, DriverStatusSuspended:
		return true
	}
	return false
}

// Driver is the profile of a user with the driver role.
type Driver struct {
	ID         string
	UserID     string
	FirstName  string
	LastName   string
	Phone      string
	Status     DriverStatus
	AdminNotes string
	UpdatedAt  time.Time
}

// FullName joins first and last name.
func (d *Driver) FullName() string {
	return joinName(d.FirstName, d.LastName)
}

// DriverSummary is a driver with fleet and booking counts for admin listings.
type DriverSummary struct {
	Driver
	Email         string
	VehicleCount  int
	TotalBookings int
}
