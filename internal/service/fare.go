package service

import (
	"fmt"
	"math"

	"tourbook/internal/domain"
)

// FarePolicy contains the pricing constants.
type FarePolicy struct {
	PaddingKm          float64       // added to the map distance
	RoundingUnitKm     int64         // billed distance is rounded up to a multiple of this
	AccommodationTable map[int]int64 // nights -> cost, for 1..len(table) nights
	PerNightFallback   int64         // per-night cost beyond the table
}

// DefaultFarePolicy returns the default pricing policy.
func DefaultFarePolicy() FarePolicy {
	return FarePolicy{
		PaddingKm:      10,
		RoundingUnitKm: 10,
		AccommodationTable: map[int]int64{
			1: 3000,
			2: 5000,
			3: 7000,
		},
		PerNightFallback: 2500,
	}
}

// FareCalculator prices a route for one vehicle category. It performs no I/O.
type FareCalculator struct {
	catalog *VehicleCatalog
	policy  FarePolicy
}

// NewFareCalculator creates a new FareCalculator.
func NewFareCalculator(catalog *VehicleCatalog, policy FarePolicy) *FareCalculator {
	return &FareCalculator{
		catalog: catalog,
		policy:  policy,
	}
}

// Catalog returns the category table the calculator prices against.
func (f *FareCalculator) Catalog() *VehicleCatalog {
	return f.catalog
}

// Calculate returns the cost breakdown for a trip of mapDistanceKm over days
// in the given category.
func (f *FareCalculator) Calculate(
	mapDistanceKm float64,
	categoryID string,
	days int,
	accommodationProvided bool,
) (*domain.CostBreakdown, error) {
	if math.IsNaN(mapDistanceKm) || math.IsInf(mapDistanceKm, 0) || mapDistanceKm < 0 {
		return nil, fmt.Errorf("%w: distance must be a non-negative finite number, got %v", ErrInvalidFareInput, mapDistanceKm)
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: trip duration must be at least 1 day, got %d", ErrInvalidFareInput, days)
	}

	category, ok := f.catalog.Get(categoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVehicleCategory, categoryID)
	}

	nights := days - 1
	if f.policy.PerNightFallback > 0 && int64(nights) > math.MaxInt64/f.policy.PerNightFallback {
		return nil, fmt.Errorf("%w: trip duration of %d days is out of range", ErrInvalidFareInput, days)
	}
	accommodation, rule := f.accommodation(nights, accommodationProvided)

	// Largest billable distance whose fare still fits in an int64.
	maxKm := int64(math.MaxInt64) - accommodation
	if category.SystemRatePerKm > 0 {
		maxKm /= category.SystemRatePerKm
	}

	practical := mapDistanceKm + f.policy.PaddingKm
	rounded, ok := f.roundUp(practical, maxKm)
	if !ok {
		return nil, fmt.Errorf("%w: distance %v km is out of range", ErrInvalidFareInput, mapDistanceKm)
	}
	base := rounded * category.SystemRatePerKm

	return &domain.CostBreakdown{
		CategoryID:            category.ID,
		CategoryName:          category.Name,
		MapDistanceKm:         mapDistanceKm,
		PracticalDistanceKm:   practical,
		RoundedDistanceKm:     rounded,
		RatePerKm:             category.SystemRatePerKm,
		BaseCost:              base,
		TripDurationDays:      days,
		AccommodationProvided: accommodationProvided,
		AccommodationCost:     accommodation,
		TotalCost:             base + accommodation,
		Steps: domain.FareSteps{
			PaddingKm:         f.policy.PaddingKm,
			RoundingUnitKm:    f.policy.RoundingUnitKm,
			Nights:            nights,
			AccommodationRule: rule,
		},
	}, nil
}

// roundUp rounds km up to the next multiple of the rounding unit. It reports
// false when the result would exceed limit.
func (f *FareCalculator) roundUp(km float64, limit int64) (int64, bool) {
	unit := float64(f.policy.RoundingUnitKm)
	if unit <= 0 {
		unit = 1
	}
	r := math.Ceil(km/unit) * unit
	if r >= float64(limit) {
		return 0, false
	}
	if n := int64(r); n <= limit {
		return n, true
	}
	return 0, false
}

// accommodation applies the two-tier driver lodging policy: nights covered by
// the table use the table value, anything longer is charged per night.
func (f *FareCalculator) accommodation(nights int, provided bool) (int64, domain.AccommodationRule) {
	switch {
	case provided:
		return 0, domain.AccommodationProvided
	case nights < 1:
		return 0, domain.AccommodationSingleDay
	case nights <= len(f.policy.AccommodationTable):
		if cost, ok := f.policy.AccommodationTable[nights]; ok {
			return cost, domain.AccommodationTable
		}
	}
	return int64(nights) * f.policy.PerNightFallback, domain.AccommodationPerNight
}
