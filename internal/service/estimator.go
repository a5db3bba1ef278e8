package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tourbook/internal/domain"
	"tourbook/internal/maps"
	"tourbook/internal/obs"
)

const (
	defaultStartTime = "09:00"
	minutesPerDay    = 24 * 60
)

// RoutePolicy contains the scheduling constants.
type RoutePolicy struct {
	DwellHours        float64       // default dwell per intermediate stop
	DailyDrivingHours float64       // one traveling day
	FeasibleHours     float64       // longest trip planned without special handling
	SegmentTimeout    time.Duration // per provider call
	MaxConcurrency    int           // provider calls in flight per estimate
}

// DefaultRoutePolicy returns the default scheduling policy.
func DefaultRoutePolicy() RoutePolicy {
	return RoutePolicy{
		DwellHours:        3,
		DailyDrivingHours: 12,
		FeasibleHours:     24,
		SegmentTimeout:    10 * time.Second,
		MaxConcurrency:    6,
	}
}

// RouteEstimator turns an ordered stop list into a segmented, scheduled route.
// It holds no state between calls.
type RouteEstimator struct {
	provider maps.DistanceProvider
	policy   RoutePolicy
}

// NewRouteEstimator creates a new RouteEstimator.
func NewRouteEstimator(provider maps.DistanceProvider, policy RoutePolicy) *RouteEstimator {
	return &RouteEstimator{
		provider: provider,
		policy:   policy,
	}
}

// Policy returns the scheduling policy.
func (e *RouteEstimator) Policy() RoutePolicy {
	return e.policy
}

// Estimate resolves every leg of the route and derives its schedule. Any
// failing leg fails the whole estimate with a *SegmentError.
func (e *RouteEstimator) Estimate(ctx context.Context, stops []string, opts domain.RouteOptions) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "route.Estimate")(&err)

	effective, start, err := e.validate(stops, &opts)
	if err != nil {
		return nil, err
	}

	segments, err := e.resolveSegments(ctx, effective)
	if err != nil {
		return nil, err
	}

	var meters, driving int
	for _, s := range segments {
		meters += s.DistanceMeters
		driving += s.DurationSeconds
	}

	tripType := domain.TripTypeOneWay
	if opts.RoundTrip {
		tripType = domain.TripTypeReturn
	}

	res := &domain.RouteResult{
		Stops:               effective,
		TripType:            tripType,
		Segments:            segments,
		TotalDistanceMeters: meters,
		TotalDistanceKm:     int(math.Round(float64(meters) / 1000)),
		DrivingSeconds:      driving,
	}

	res.DwellSeconds = int(math.Round(opts.DwellHours * float64(res.IntermediateStops()) * 3600))
	totalSeconds := driving + res.DwellSeconds
	res.TotalDurationHours = float64(totalSeconds) / 3600
	res.Schedule = e.schedule(start, totalSeconds, res.TotalDurationHours)
	res.Feasibility = e.feasibility(tripType, res.TotalDistanceKm, driving, res.DwellSeconds, res.TotalDurationHours)

	return res, nil
}

// validate checks the input and returns the effective stop list and the
// parsed start time in minutes after midnight.
func (e *RouteEstimator) validate(stops []string, opts *domain.RouteOptions) ([]string, int, error) {
	if len(stops) < 2 {
		return nil, 0, fmt.Errorf("%w: at least an origin and one destination are required", ErrInvalidRoute)
	}

	effective := make([]string, 0, len(stops)+1)
	for i, s := range stops {
		s = strings.TrimSpace(s)
		if s == "" {
			if i == 0 {
				return nil, 0, fmt.Errorf("%w: pickup location is empty", ErrInvalidRoute)
			}
			return nil, 0, fmt.Errorf("%w: destination %d is empty", ErrInvalidRoute, i)
		}
		effective = append(effective, s)
	}
	if opts.RoundTrip {
		effective = append(effective, effective[0])
	}

	if math.IsNaN(opts.DwellHours) || math.IsInf(opts.DwellHours, 0) || opts.DwellHours < 0 {
		return nil, 0, fmt.Errorf("%w: dwell hours must be a non-negative number", ErrInvalidRoute)
	}

	if opts.StartTime == "" {
		opts.StartTime = defaultStartTime
	}
	t, err := time.Parse("15:04", opts.StartTime)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: start time %q is not HH:MM", ErrInvalidRoute, opts.StartTime)
	}

	return effective, t.Hour()*60 + t.Minute(), nil
}

// resolveSegments queries the provider once per consecutive pair. Calls run
// concurrently but results keep stop order.
func (e *RouteEstimator) resolveSegments(ctx context.Context, stops []string) ([]domain.Segment, error) {
	segments := make([]domain.Segment, len(stops)-1)

	g, gctx := errgroup.WithContext(ctx)
	if e.policy.MaxConcurrency > 0 {
		g.SetLimit(e.policy.MaxConcurrency)
	}

	for i := range segments {
		i := i
		from, to := stops[i], stops[i+1]
		g.Go(func() error {
			r, err := e.fetchSegment(gctx, from, to)
			if err != nil {
				return &SegmentError{From: from, To: to, Err: err}
			}
			segments[i] = domain.Segment{
				From:            from,
				To:              to,
				DistanceMeters:  r.DistanceMeters,
				DurationSeconds: r.DurationSeconds,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return segments, nil
}

func (e *RouteEstimator) fetchSegment(ctx context.Context, from, to string) (maps.DistanceResult, error) {
	if e.policy.SegmentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.policy.SegmentTimeout)
		defer cancel()
	}

	r, err := e.provider.GetDistance(ctx, from, to)
	if err != nil {
		return maps.DistanceResult{}, err
	}
	if r.DistanceMeters < 0 || r.DurationSeconds < 0 {
		return maps.DistanceResult{}, fmt.Errorf("%w: negative distance or duration", maps.ErrRejected)
	}
	return r, nil
}

func (e *RouteEstimator) schedule(startMinutes, totalSeconds int, totalHours float64) domain.Schedule {
	endMinutes := startMinutes + int(math.Round(float64(totalSeconds)/60))

	days := 1
	if totalHours > e.policy.DailyDrivingHours {
		days = int(math.Ceil(totalHours / e.policy.DailyDrivingHours))
	}

	return domain.Schedule{
		StartTime:        clock(startMinutes),
		EstimatedEndTime: clock(endMinutes % minutesPerDay),
		EndDayOffset:     endMinutes / minutesPerDay,
		DaysNeeded:       days,
		Feasible:         totalHours <= e.policy.FeasibleHours,
		Overnight:        totalHours > e.policy.DailyDrivingHours,
	}
}

func (e *RouteEstimator) feasibility(tripType domain.TripType, distanceKm, driving, dwell int, totalHours float64) domain.Feasibility {
	stopTime := "No stops"
	if dwell > 0 {
		stopTime = FormatDuration(float64(dwell) / 3600)
	}

	recommendation := "This trip can be completed in one day"
	if totalHours > e.policy.DailyDrivingHours {
		recommendation = "This trip will require overnight accommodation"
	}

	return domain.Feasibility{
		TripType:       tripType.Label(),
		Distance:       fmt.Sprintf("%d km", distanceKm),
		DrivingTime:    FormatDuration(float64(driving) / 3600),
		StopTime:       stopTime,
		TotalTime:      FormatDuration(totalHours),
		Recommendation: recommendation,
	}
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
