package domain

// TripType labels a route for display.
type TripType string

const (
	TripTypeOneWay TripType = "one_way"
	TripTypeReturn TripType = "round_trip"
)

// Label returns the human-readable trip type.
func (t TripType) Label() string {
	if t == TripTypeReturn {
		return "Return Trip"
	}
	return "One-way Trip"
}

// RouteOptions configures a route estimate.
type RouteOptions struct {
	RoundTrip  bool
	StartTime  string  // "HH:MM", 24-hour local time
	DwellHours float64 // added once per intermediate stop
}

// Segment is one leg between two consecutive stops.
type Segment struct {
	From            string
	To              string
	DistanceMeters  int
	DurationSeconds int
}

// DistanceKm returns the leg distance in kilometers.
func (s Segment) DistanceKm() float64 {
	return float64(s.DistanceMeters) / 1000
}

// DurationMinutes returns the leg duration rounded to whole minutes.
func (s Segment) DurationMinutes() int {
	return (s.DurationSeconds + 30) / 60
}

// Schedule is the time-of-day view of a route.
type Schedule struct {
	StartTime        string
	EstimatedEndTime string
	EndDayOffset     int // midnights crossed between start and end
	DaysNeeded       int
	Feasible         bool // fits in 24 hours
	Overnight        bool // exceeds one traveling day
}

// Feasibility is the display breakdown of a route's duration.
type Feasibility struct {
	TripType       string
	Distance       string
	DrivingTime    string
	StopTime       string
	TotalTime      string
	Recommendation string
}

// RouteResult aggregates all segments of one estimated route.
type RouteResult struct {
	Stops               []string // effective stops, origin appended for round trips
	TripType            TripType
	Segments            []Segment
	TotalDistanceMeters int
	TotalDistanceKm     int
	DrivingSeconds      int
	DwellSeconds        int
	TotalDurationHours  float64
	Schedule            Schedule
	Feasibility         Feasibility
}

// IntermediateStops returns the number of stops that are neither first nor last.
func (r *RouteResult) IntermediateStops() int {
	if n := len(r.Stops) - 2; n > 0 {
		return n
	}
	return 0
}
