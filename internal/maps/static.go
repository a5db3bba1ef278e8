package maps

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Pair is one fixed leg served by a StaticProvider.
type Pair struct {
	From, To string
	Meters   int
	Seconds  int
	Err      error         // returned instead of a result when set
	Delay    time.Duration // simulated latency
}

// StaticProvider serves distances from a fixed table. Unknown pairs fail with
// ErrNoRoute. It records every call.
type StaticProvider struct {
	pairs map[string]Pair

	mu    sync.Mutex
	calls []string
}

// NewStaticProvider builds a provider from pairs.
func NewStaticProvider(pairs ...Pair) *StaticProvider {
	m := make(map[string]Pair, len(pairs))
	for _, p := range pairs {
		m[SegmentKey(p.From, p.To)] = p
	}
	return &StaticProvider{pairs: m}
}

// GetDistance returns the configured leg after its delay, honoring ctx.
func (p *StaticProvider) GetDistance(ctx context.Context, origin, destination string) (DistanceResult, error) {
	key := SegmentKey(origin, destination)

	p.mu.Lock()
	p.calls = append(p.calls, key)
	p.mu.Unlock()

	pair, ok := p.pairs[key]
	if !ok {
		return DistanceResult{}, fmt.Errorf("%w: %q -> %q", ErrNoRoute, origin, destination)
	}

	if pair.Delay > 0 {
		timer := time.NewTimer(pair.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return DistanceResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	if pair.Err != nil {
		return DistanceResult{}, pair.Err
	}
	return DistanceResult{DistanceMeters: pair.Meters, DurationSeconds: pair.Seconds}, nil
}

// Calls returns the keys requested so far, in call order.
func (p *StaticProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}
