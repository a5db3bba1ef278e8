package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"tourbook/internal/maps"
)

// SegmentCacheTTL bounds how long a resolved leg is reused. Road distances
// between named places change rarely.
const SegmentCacheTTL = 7 * 24 * time.Hour

const segmentCachePrefix = "cache:segment:"

// SegmentCache stores resolved route segments in Redis.
type SegmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSegmentCache creates a new SegmentCache. A zero ttl uses SegmentCacheTTL.
func NewSegmentCache(client *redis.Client, ttl time.Duration) *SegmentCache {
	if ttl <= 0 {
		ttl = SegmentCacheTTL
	}
	return &SegmentCache{client: client, ttl: ttl}
}

// GetSegment retrieves a segment from cache. ok is false on a cache miss.
func (s *SegmentCache) GetSegment(ctx context.Context, origin, destination string) (maps.DistanceResult, bool, error) {
	data, err := s.client.Get(ctx, segmentCachePrefix+maps.SegmentKey(origin, destination)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return maps.DistanceResult{}, false, nil
		}
		return maps.DistanceResult{}, false, err
	}

	var r maps.DistanceResult
	if err := json.Unmarshal(data, &r); err != nil {
		return maps.DistanceResult{}, false, err
	}
	return r, true, nil
}

// SetSegment stores a segment in cache.
func (s *SegmentCache) SetSegment(ctx context.Context, origin, destination string, r maps.DistanceResult) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, segmentCachePrefix+maps.SegmentKey(origin, destination), data, s.ttl).Err()
}

// InvalidateSegment removes a segment from cache.
func (s *SegmentCache) InvalidateSegment(ctx context.Context, origin, destination string) error {
	return s.client.Del(ctx, segmentCachePrefix+maps.SegmentKey(origin, destination)).Err()
}
