package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it is still held by the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func bookingLockKey(bookingID string) string {
	return fmt.Sprintf("lock:booking:%s", bookingID)
}

// AcquireBookingLock attempts to lock a booking for owner.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireBookingLock(ctx context.Context, bookingID, owner string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, bookingLockKey(bookingID), owner, ttl).Result()
}

// ReleaseBookingLock releases the lock if owner still holds it.
func (s *LockStore) ReleaseBookingLock(ctx context.Context, bookingID, owner string) error {
	return releaseScript.Run(ctx, s.client, []string{bookingLockKey(bookingID)}, owner).Err()
}
