// Package maps resolves driving distance and duration between free-text
// locations.
package maps

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNoRoute is returned when the provider resolved the request but found
	// no drivable route between the two locations.
	ErrNoRoute = errors.New("no route found")

	// ErrTransient is returned for rate limiting, provider-side failures and
	// network errors. Callers may retry the whole request.
	ErrTransient = errors.New("transient provider failure")

	// ErrRejected is returned when the provider refuses the request outright
	// (bad key, malformed request, quota disabled).
	ErrRejected = errors.New("provider rejected request")
)

// DistanceResult is the travel distance and duration between two locations.
type DistanceResult struct {
	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`
}

// DistanceProvider returns driving distance and duration between two
// locations.
type DistanceProvider interface {
	GetDistance(ctx context.Context, origin, destination string) (DistanceResult, error)
}

// normalize collapses runs of whitespace so equivalent inputs share a key.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
