// Package cache provides a fast, generic, sharded in-memory cache with
// pluggable eviction policies (frequency-bucketed LFU by default, plus
// LRU, LRU-K and 2Q), optional singleflight loading, eviction callbacks,
// and lightweight metrics hooks.
//
// Design
//
//   - Concurrency: the cache is split into shards, each protected by an
//     exclusive mutex. The default shard count is chosen by a heuristic
//     (ReasonableShardCount) and is a power of two. Sharding reduces lock
//     contention while keeping memory overhead small. There is no
//     read/write lock split: even Get mutates policy state (an LFU hit
//     promotes the entry to the next frequency bucket and may trigger an
//     aging sweep), so every operation holds the shard lock exclusively.
//
//   - Storage: each shard owns one policy core — a complete single-shard
//     engine holding its own key index and ordering structure. The LFU core
//     keeps its entries in an arena of index-linked slots organized into
//     per-frequency buckets; all operations are amortized O(1).
//
//   - Policies: eviction is pluggable via the policy package. LFU is the
//     default; LRU, LRU-K and 2Q ship alongside it. All engines satisfy the
//     same policy.Core contract, so callers can swap one for another
//     without code changes.
//
//   - Aging: the LFU core halves all frequencies in a shard once their
//     running average exceeds MaxAverageFrequency. This bounds frequency
//     growth and keeps stale once-hot keys evictable. Aging is per shard;
//     shards never coordinate.
//
//   - Capacity: the entry limit is split evenly across shards (ceil
//     division). Capacity <= 0 degrades the cache to an always-miss store
//     instead of failing construction, so a zero-capacity shard arising
//     from rounding can never crash the system.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug a Prometheus adapter to export
//     metrics.
//
//   - Callbacks: Options.OnEvict(k, v) is called for every capacity
//     eviction, under the shard lock. Explicit Remove and Purge do not
//     count as evictions.
//
// Basic usage
//
//	// Create an LFU cache with capacity for 10k entries.
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// With GetOrLoad (singleflight)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Using an alternative policy (LRU-K)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 50_000,
//	    Policy:   lruk.New[string, string](25_000 /* history */, 2 /* k */),
//	})
//
// Exporting metrics (example Prometheus adapter)
//
//	m := prom.New(nil, "freqcache", "demo", nil) // implements Metrics
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
//
// Thread-safety & complexity
//
// All methods on Cache are safe for concurrent use. Typical operation cost
// is O(1) expected time: one map access plus a constant number of index
// rewrites. The LFU aging sweep is O(n) over one shard's occupancy but is
// amortized by its average-frequency gate.
package cache
