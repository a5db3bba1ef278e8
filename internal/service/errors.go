package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoute is returned when the stop list or route options are malformed.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrSegmentUnavailable is matched by every *SegmentError.
	ErrSegmentUnavailable = errors.New("route segment unavailable")

	// ErrInvalidFareInput is returned when a fare precondition fails.
	ErrInvalidFareInput = errors.New("invalid fare input")

	// ErrUnknownVehicleCategory is returned when a category id is not in the catalog.
	ErrUnknownVehicleCategory = errors.New("unknown vehicle category")

	// ErrCategoryNotSuitable is returned when a category cannot carry the travelers.
	ErrCategoryNotSuitable = errors.New("vehicle category does not fit travelers")

	// ErrInvalidBooking is returned when booking fields are missing or malformed.
	ErrInvalidBooking = errors.New("invalid booking")

	// ErrBookingNotPending is returned when accepting a booking that is no longer pending.
	ErrBookingNotPending = errors.New("booking not found or already accepted")

	// ErrBookingLocked is returned when another driver is accepting the same booking.
	ErrBookingLocked = errors.New("booking is being accepted by another driver")

	// ErrDriverNotApproved is returned when a driver acts before admin approval.
	ErrDriverNotApproved = errors.New("driver not approved")

	// ErrNoMatchingVehicle is returned when a driver has no active vehicle in the booking's category.
	ErrNoMatchingVehicle = errors.New("driver has no vehicle in booking category")

	// ErrInvalidVehicle is returned when vehicle fields are missing or malformed.
	ErrInvalidVehicle = errors.New("invalid vehicle")

	// ErrInvalidDriverStatus is returned for an unknown driver status.
	ErrInvalidDriverStatus = errors.New("invalid driver status")

	// ErrCannotModifySelf is returned when an admin tries to deactivate their own account.
	ErrCannotModifySelf = errors.New("cannot modify own account")
)

// SegmentError reports the leg that failed during a route estimate.
type SegmentError struct {
	From string
	To   string
	Err  error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %q -> %q unavailable: %v", e.From, e.To, e.Err)
}

// Unwrap exposes the provider cause.
func (e *SegmentError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSegmentUnavailable) match any segment failure.
func (e *SegmentError) Is(target error) bool { return target == ErrSegmentUnavailable }
