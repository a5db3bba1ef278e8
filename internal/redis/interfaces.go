package redis

import (
	"context"
	"time"

	"tourbook/internal/maps"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireBookingLock(ctx context.Context, bookingID, owner string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, bookingID, owner string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface = (*LockStore)(nil)
	_ maps.SegmentStore  = (*SegmentCache)(nil)
)
