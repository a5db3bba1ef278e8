package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a priced trip request made by a tourist.
type Booking struct {
	ID                          string
	TouristID                   string
	DriverID                    string // empty until accepted
	PickupLocation              string
	Destinations                []string
	TripType                    TripType
	StartDate                   string // YYYY-MM-DD
	StartTime                   string // HH:MM
	TravelersCount              int
	CategoryID                  string
	TotalDistanceKm             float64 // map distance
	CalculatedDistanceKm        int64   // billed distance
	TripCost                    int64
	AccommodationCost           int64
	TotalCost                   int64
	DriverAccommodationProvided bool
	TripDurationDays            int
	SpecialRequirements         string
	Status                      BookingStatus
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// BookingView is a booking joined with the names shown in listings.
type BookingView struct {
	Booking
	CategoryName string
	TouristName  string
	TouristPhone string
	DriverName   string
	DriverPhone  string
}
