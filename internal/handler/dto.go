package handler

import (
	"encoding/json"
	"time"

	"tourbook/internal/domain"
	"tourbook/internal/service"
)

const timeLayout = time.RFC3339

// SegmentResponse is one leg of a route.
type SegmentResponse struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
}

// ScheduleResponse is the time-of-day view of a route.
type ScheduleResponse struct {
	StartTime        string `json:"start_time"`
	EstimatedEndTime string `json:"estimated_end_time"`
	EndDayOffset     int    `json:"end_day_offset"`
	DaysNeeded       int    `json:"days_needed"`
	Feasible         bool   `json:"feasible"`
	Overnight        bool   `json:"overnight"`
}

// FeasibilityResponse is the display breakdown of a route's duration.
type FeasibilityResponse struct {
	TripType       string `json:"trip_type"`
	Distance       string `json:"distance"`
	DrivingTime    string `json:"driving_time"`
	StopTime       string `json:"stop_time"`
	TotalTime      string `json:"total_time"`
	Recommendation string `json:"recommendation"`
}

// RouteResponse is an estimated route.
type RouteResponse struct {
	Stops              []string            `json:"stops"`
	TripType           string              `json:"trip_type"`
	Segments           []SegmentResponse   `json:"segments"`
	TotalDistanceKm    int                 `json:"total_distance_km"`
	TotalDurationHours float64             `json:"total_duration_hours"`
	Schedule           ScheduleResponse    `json:"schedule"`
	Feasibility        FeasibilityResponse `json:"feasibility"`
}

// FareResponse is a priced category with its rendered derivation.
type FareResponse struct {
	CategoryID            string                  `json:"category_id"`
	CategoryName          string                  `json:"category_name"`
	MapDistanceKm         float64                 `json:"map_distance_km"`
	PracticalDistanceKm   float64                 `json:"practical_distance_km"`
	RoundedDistanceKm     int64                   `json:"rounded_distance_km"`
	RatePerKm             int64                   `json:"rate_per_km"`
	BaseCost              int64                   `json:"base_cost"`
	TripDurationDays      int                     `json:"trip_duration_days"`
	Nights                int                     `json:"nights"`
	AccommodationProvided bool                    `json:"accommodation_provided"`
	AccommodationCost     int64                   `json:"accommodation_cost"`
	AccommodationRule     string                  `json:"accommodation_rule"`
	TotalCost             int64                   `json:"total_cost"`
	Breakdown             service.FareDescription `json:"breakdown"`
}

// CategoryResponse is a vehicle category.
type CategoryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	MinPassengers int    `json:"min_passengers"`
	MaxPassengers int    `json:"max_passengers"`
	RatePerKm     int64  `json:"rate_per_km"`
}

// BookingResponse is a booking with display names.
type BookingResponse struct {
	ID                          string   `json:"id"`
	TouristID                   string   `json:"tourist_id"`
	DriverID                    string   `json:"driver_id,omitempty"`
	PickupLocation              string   `json:"pickup_location"`
	Destinations                []string `json:"destinations"`
	TripType                    string   `json:"trip_type"`
	StartDate                   string   `json:"start_date"`
	StartTime                   string   `json:"start_time"`
	TravelersCount              int      `json:"travelers_count"`
	CategoryID                  string   `json:"vehicle_category_id"`
	CategoryName                string   `json:"vehicle_category_name,omitempty"`
	TotalDistanceKm             float64  `json:"total_distance_km"`
	CalculatedDistanceKm        int64    `json:"calculated_distance_km"`
	TripCost                    int64    `json:"trip_cost"`
	AccommodationCost           int64    `json:"accommodation_cost"`
	TotalCost                   int64    `json:"total_cost"`
	DriverAccommodationProvided bool     `json:"driver_accommodation_provided"`
	TripDurationDays            int      `json:"trip_duration_days"`
	SpecialRequirements         string   `json:"special_requirements,omitempty"`
	Status                      string   `json:"status"`
	TouristName                 string   `json:"tourist_name,omitempty"`
	TouristPhone                string   `json:"tourist_phone,omitempty"`
	DriverName                  string   `json:"driver_name,omitempty"`
	DriverPhone                 string   `json:"driver_phone,omitempty"`
	CreatedAt                   string   `json:"created_at"`
	UpdatedAt                   string   `json:"updated_at"`
}

// VehicleResponse is a driver vehicle.
type VehicleResponse struct {
	ID                 string `json:"id"`
	CategoryID         string `json:"vehicle_category_id"`
	MakeModel          string `json:"make_model"`
	RegistrationNumber string `json:"registration_number"`
	YearManufactured   int    `json:"year_manufactured,omitempty"`
	Color              string `json:"color,omitempty"`
	SeatingCapacity    int    `json:"seating_capacity"`
	InsuranceExpiry    string `json:"insurance_expiry,omitempty"`
	IsActive           bool   `json:"is_active"`
	CreatedAt          string `json:"created_at"`
}

func toRouteResponse(r *domain.RouteResult) RouteResponse {
	segments := make([]SegmentResponse, 0, len(r.Segments))
	for _, s := range r.Segments {
		segments = append(segments, SegmentResponse{
			From:            s.From,
			To:              s.To,
			DistanceKm:      s.DistanceKm(),
			DurationMinutes: s.DurationMinutes(),
		})
	}

	return RouteResponse{
		Stops:              r.Stops,
		TripType:           string(r.TripType),
		Segments:           segments,
		TotalDistanceKm:    r.TotalDistanceKm,
		TotalDurationHours: r.TotalDurationHours,
		Schedule: ScheduleResponse{
			StartTime:        r.Schedule.StartTime,
			EstimatedEndTime: r.Schedule.EstimatedEndTime,
			EndDayOffset:     r.Schedule.EndDayOffset,
			DaysNeeded:       r.Schedule.DaysNeeded,
			Feasible:         r.Schedule.Feasible,
			Overnight:        r.Schedule.Overnight,
		},
		Feasibility: FeasibilityResponse(r.Feasibility),
	}
}

func toFareResponse(b *domain.CostBreakdown) FareResponse {
	return FareResponse{
		CategoryID:            b.CategoryID,
		CategoryName:          b.CategoryName,
		MapDistanceKm:         b.MapDistanceKm,
		PracticalDistanceKm:   b.PracticalDistanceKm,
		RoundedDistanceKm:     b.RoundedDistanceKm,
		RatePerKm:             b.RatePerKm,
		BaseCost:              b.BaseCost,
		TripDurationDays:      b.TripDurationDays,
		Nights:                b.Steps.Nights,
		AccommodationProvided: b.AccommodationProvided,
		AccommodationCost:     b.AccommodationCost,
		AccommodationRule:     string(b.Steps.AccommodationRule),
		TotalCost:             b.TotalCost,
		Breakdown:             service.DescribeFare(b),
	}
}

func toCategoryResponses(categories []domain.VehicleCategory) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{
			ID:            c.ID,
			Name:          c.Name,
			Type:          string(c.Type),
			MinPassengers: c.MinPassengers,
			MaxPassengers: c.MaxPassengers,
			RatePerKm:     c.SystemRatePerKm,
		})
	}
	return out
}

func toBookingResponse(v *domain.BookingView) BookingResponse {
	return BookingResponse{
		ID:                          v.ID,
		TouristID:                   v.TouristID,
		DriverID:                    v.DriverID,
		PickupLocation:              v.PickupLocation,
		Destinations:                v.Destinations,
		TripType:                    string(v.TripType),
		StartDate:                   v.StartDate,
		StartTime:                   v.StartTime,
		TravelersCount:              v.TravelersCount,
		CategoryID:                  v.CategoryID,
		CategoryName:                v.CategoryName,
		TotalDistanceKm:             v.TotalDistanceKm,
		CalculatedDistanceKm:        v.CalculatedDistanceKm,
		TripCost:                    v.TripCost,
		AccommodationCost:           v.AccommodationCost,
		TotalCost:                   v.TotalCost,
		DriverAccommodationProvided: v.DriverAccommodationProvided,
		TripDurationDays:            v.TripDurationDays,
		SpecialRequirements:         v.SpecialRequirements,
		Status:                      string(v.Status),
		TouristName:                 v.TouristName,
		TouristPhone:                v.TouristPhone,
		DriverName:                  v.DriverName,
		DriverPhone:                 v.DriverPhone,
		CreatedAt:                   v.CreatedAt.Format(timeLayout),
		UpdatedAt:                   v.UpdatedAt.Format(timeLayout),
	}
}

func toBookingResponses(views []*domain.BookingView) []BookingResponse {
	out := make([]BookingResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toBookingResponse(v))
	}
	return out
}

func toVehicleResponse(v *domain.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:                 v.ID,
		CategoryID:         v.CategoryID,
		MakeModel:          v.MakeModel,
		RegistrationNumber: v.RegistrationNumber,
		YearManufactured:   v.YearManufactured,
		Color:              v.Color,
		SeatingCapacity:    v.SeatingCapacity,
		IsActive:           v.IsActive,
		CreatedAt:          v.CreatedAt.Format(timeLayout),
	}
	if !v.InsuranceExpiry.IsZero() {
		resp.InsuranceExpiry = v.InsuranceExpiry.Format("2006-01-02")
	}
	return resp
}

// rawDetails keeps empty audit details out of the JSON output.
func rawDetails(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func bookingViewOf(b *domain.Booking, categoryName string) *domain.BookingView {
	return &domain.BookingView{Booking: *b, CategoryName: categoryName}
}
