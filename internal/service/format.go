package service

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tourbook/internal/domain"
)

var rupeePrinter = message.NewPrinter(language.English)

// FormatRupees renders an amount as "Rs. 16,900".
func FormatRupees(amount int64) string {
	return rupeePrinter.Sprintf("Rs. %d", amount)
}

// FormatDuration renders fractional hours as "<H> hours <M> mins", dropping a
// zero component. Zero renders as "0 mins".
func FormatDuration(hours float64) string {
	total := int(math.Round(hours * 60))
	if total < 0 {
		total = 0
	}
	h, m := total/60, total%60

	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d hours %d mins", h, m)
	case h > 0:
		return fmt.Sprintf("%d hours", h)
	default:
		return fmt.Sprintf("%d mins", m)
	}
}

func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64)
}

// FareDescription is the human-readable rendering of a CostBreakdown.
type FareDescription struct {
	Distance      string `json:"distance"`
	Rate          string `json:"rate"`
	Calculation   string `json:"calculation"`
	Accommodation string `json:"accommodation"`
	Total         string `json:"total"`
}

// DescribeFare renders one line per derivation step of b.
func DescribeFare(b *domain.CostBreakdown) FareDescription {
	var accommodation string
	switch b.Steps.AccommodationRule {
	case domain.AccommodationProvided:
		accommodation = "Provided by tourist"
	case domain.AccommodationSingleDay:
		accommodation = "Not required for a single-day trip"
	case domain.AccommodationPerNight:
		accommodation = fmt.Sprintf("%s for %d night(s) at %s per night",
			FormatRupees(b.AccommodationCost), b.Steps.Nights, FormatRupees(b.AccommodationCost/int64(b.Steps.Nights)))
	default:
		accommodation = fmt.Sprintf("%s for %d night(s)", FormatRupees(b.AccommodationCost), b.Steps.Nights)
	}

	return FareDescription{
		Distance: fmt.Sprintf("%s km (map) + %s km (practical) = %s km → %d km (rounded)",
			formatKm(b.MapDistanceKm), formatKm(b.Steps.PaddingKm), formatKm(b.PracticalDistanceKm), b.RoundedDistanceKm),
		Rate:          fmt.Sprintf("%s per km", FormatRupees(b.RatePerKm)),
		Calculation:   fmt.Sprintf("%d km × %s = %s", b.RoundedDistanceKm, FormatRupees(b.RatePerKm), FormatRupees(b.BaseCost)),
		Accommodation: accommodation,
		Total:         FormatRupees(b.TotalCost),
	}
}
