package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"tourbook/internal/maps"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSegmentCache_RoundTrip(t *testing.T) {
	t.Parallel()

	_, client := newTestClient(t)
	cache := NewSegmentCache(client, time.Hour)
	ctx := context.Background()

	if _, ok, err := cache.GetSegment(ctx, "Colombo", "Kandy"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	want := maps.DistanceResult{DistanceMeters: 115000, DurationSeconds: 10800}
	if err := cache.SetSegment(ctx, "Colombo", "Kandy", want); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	got, ok, err := cache.GetSegment(ctx, "colombo", "KANDY")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if err := cache.InvalidateSegment(ctx, "Colombo", "Kandy"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, ok, _ := cache.GetSegment(ctx, "Colombo", "Kandy"); ok {
		t.Error("expected miss after invalidation")
	}
}

func TestSegmentCache_Expires(t *testing.T) {
	t.Parallel()

	mr, client := newTestClient(t)
	cache := NewSegmentCache(client, time.Minute)
	ctx := context.Background()

	_ = cache.SetSegment(ctx, "Kandy", "Ella", maps.DistanceResult{DistanceMeters: 140000})
	mr.FastForward(2 * time.Minute)

	if _, ok, _ := cache.GetSegment(ctx, "Kandy", "Ella"); ok {
		t.Error("expected entry to expire")
	}
}

func TestLockStore_BookingLock(t *testing.T) {
	t.Parallel()

	_, client := newTestClient(t)
	locks := NewLockStore(client)
	ctx := context.Background()

	ok, err := locks.AcquireBookingLock(ctx, "booking-1", "driver-a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, got ok=%v err=%v", ok, err)
	}

	ok, err = locks.AcquireBookingLock(ctx, "booking-1", "driver-b", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second acquire to fail, got ok=%v err=%v", ok, err)
	}

	// A non-owner release leaves the lock in place.
	if err := locks.ReleaseBookingLock(ctx, "booking-1", "driver-b"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if ok, _ := locks.AcquireBookingLock(ctx, "booking-1", "driver-b", time.Minute); ok {
		t.Fatal("expected lock to survive non-owner release")
	}

	if err := locks.ReleaseBookingLock(ctx, "booking-1", "driver-a"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if ok, _ := locks.AcquireBookingLock(ctx, "booking-1", "driver-b", time.Minute); !ok {
		t.Error("expected lock to be free after owner release")
	}
}
