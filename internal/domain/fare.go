package domain

// FareSteps records each derivation step of a quote by field.
type FareSteps struct {
	PaddingKm         float64
	RoundingUnitKm    int64
	Nights            int
	AccommodationRule AccommodationRule
}

// AccommodationRule explains how the accommodation cost was reached.
type AccommodationRule string

const (
	AccommodationProvided  AccommodationRule = "provided_by_tourist"
	AccommodationSingleDay AccommodationRule = "single_day"
	AccommodationTable     AccommodationRule = "table"
	AccommodationPerNight  AccommodationRule = "per_night"
)

// CostBreakdown is the priced result for one route, vehicle, duration and
// accommodation choice. Amounts are whole rupees.
type CostBreakdown struct {
	CategoryID            string
	CategoryName          string
	MapDistanceKm         float64
	PracticalDistanceKm   float64
	RoundedDistanceKm     int64
	RatePerKm             int64
	BaseCost              int64
	TripDurationDays      int
	AccommodationProvided bool
	AccommodationCost     int64
	TotalCost             int64
	Steps                 FareSteps
}
