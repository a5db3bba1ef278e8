package domain

import "time"

// VehicleType groups categories by body style.
type VehicleType string

const (
	VehicleTypeCar     VehicleType = "car"
	VehicleTypeVan     VehicleType = "van"
	VehicleTypeMiniBus VehicleType = "mini_bus"
)

// VehicleCategory is a fixed class of vehicle with its own per-km rates.
// Rates are whole rupees.
type VehicleCategory struct {
	ID              string
	Name            string
	Type            VehicleType
	MinPassengers   int
	MaxPassengers   int
	DriverRatePerKm int64 // paid to the driver, not used in quotes
	SystemRatePerKm int64 // charged to the tourist
}

// Fits reports whether the category carries the given number of passengers.
func (c VehicleCategory) Fits(passengers int) bool {
	return passengers >= c.MinPassengers && passengers <= c.MaxPassengers
}

// DefaultVehicleCategories returns the built-in category table, smallest first.
func DefaultVehicleCategories() []VehicleCategory {
	return []VehicleCategory{
		{ID: "cars", Name: "Cars", Type: VehicleTypeCar, MinPassengers: 1, MaxPassengers: 4, DriverRatePerKm: 110, SystemRatePerKm: 130},
		{ID: "kdh_flat_roof", Name: "KDH Flat Roof", Type: VehicleTypeVan, MinPassengers: 6, MaxPassengers: 10, DriverRatePerKm: 125, SystemRatePerKm: 145},
		{ID: "kdh_high_roof", Name: "KDH High Roof", Type: VehicleTypeVan, MinPassengers: 6, MaxPassengers: 12, DriverRatePerKm: 135, SystemRatePerKm: 160},
		{ID: "other_vans", Name: "Other Vans", Type: VehicleTypeVan, MinPassengers: 6, MaxPassengers: 10, DriverRatePerKm: 120, SystemRatePerKm: 145},
		{ID: "mini_buses", Name: "Mini Buses", Type: VehicleTypeMiniBus, MinPassengers: 12, MaxPassengers: 25, DriverRatePerKm: 180, SystemRatePerKm: 210},
	}
}

// Vehicle is a driver-owned vehicle registered under one category.
type Vehicle struct {
	ID                 string
	DriverID           string
	CategoryID         string
	MakeModel          string
	RegistrationNumber string
	YearManufactured   int // 0 when unknown
	Color              string
	SeatingCapacity    int
	InsuranceExpiry    time.Time
	IsActive           bool
	CreatedAt          time.Time
}
