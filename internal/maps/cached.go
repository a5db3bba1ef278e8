package maps

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// SegmentStore is a shared cache of resolved segments.
type SegmentStore interface {
	GetSegment(ctx context.Context, origin, destination string) (DistanceResult, bool, error)
	SetSegment(ctx context.Context, origin, destination string, result DistanceResult) error
}

// CachedProvider decorates a DistanceProvider with an in-process cache and an
// optional shared store. Only successful lookups are cached, so a failure is
// never turned into a stored distance.
type CachedProvider struct {
	next   DistanceProvider
	local  *cache.Cache
	shared SegmentStore
}

// NewCachedProvider wraps next. shared may be nil.
func NewCachedProvider(next DistanceProvider, shared SegmentStore, localTTL time.Duration) *CachedProvider {
	return &CachedProvider{
		next:   next,
		local:  cache.New(localTTL, 2*localTTL),
		shared: shared,
	}
}

// SegmentKey returns the cache key for a directed pair of locations.
// Keys are case-insensitive and whitespace-normalized.
func SegmentKey(origin, destination string) string {
	return strings.ToLower(normalize(origin)) + "|" + strings.ToLower(normalize(destination))
}

// GetDistance serves from cache when possible, falling through to next.
func (p *CachedProvider) GetDistance(ctx context.Context, origin, destination string) (DistanceResult, error) {
	key := SegmentKey(origin, destination)

	if v, ok := p.local.Get(key); ok {
		return v.(DistanceResult), nil
	}

	if p.shared != nil {
		r, ok, err := p.shared.GetSegment(ctx, origin, destination)
		if err != nil {
			log.Printf("segment cache read failed: %v", err)
		} else if ok {
			p.local.SetDefault(key, r)
			return r, nil
		}
	}

	r, err := p.next.GetDistance(ctx, origin, destination)
	if err != nil {
		return DistanceResult{}, err
	}

	p.local.SetDefault(key, r)
	if p.shared != nil {
		if err := p.shared.SetSegment(ctx, origin, destination, r); err != nil {
			log.Printf("segment cache write failed: %v", err)
		}
	}
	return r, nil
}
