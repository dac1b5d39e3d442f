package cache

import (
	"context"

	"github.com/JonDoe828/freqcache/policy"
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// Options configures the cache behavior. Zero values are safe;
// sane defaults are applied in New():
//   - nil Policy   => LFU (with MaxAverageFrequency as its aging threshold)
//   - Shards <= 0  => auto (rounded up to power of two)
//   - nil Metrics  => NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the total entry count limit, split evenly across shards
	// (ceil division). Capacity <= 0 yields an always-miss cache that
	// accepts nothing; construction never fails.
	Capacity int

	// Shards defines the number of shards. If 0, an automatic value is chosen
	// (≈ 2*GOMAXPROCS) and rounded to the next power of two.
	Shards int

	// Policy is a pluggable eviction engine (LFU/LRU/LRU-K/2Q);
	// nil => LFU by default.
	Policy policy.Policy[K, V]

	// MaxAverageFrequency gates the default LFU policy's aging sweep: once a
	// shard's average access frequency exceeds it, all frequencies in that
	// shard are halved. 0 selects lfu.DefaultMaxAverageFrequency. Ignored
	// when Policy is set explicitly (configure the policy itself instead).
	MaxAverageFrequency int

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called for every capacity eviction, under the shard lock;
	// keep callbacks lightweight. Explicit Remove/Purge do not fire it.
	OnEvict func(k K, v V)

	// Metrics receives Hit/Miss/Evict/Size signals; nil => NoopMetrics.
	Metrics Metrics
}
