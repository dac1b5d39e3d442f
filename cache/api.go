package cache

import "context"

// Cache is a sharded, in-memory key/value cache interface.
// All methods are safe for concurrent use by multiple goroutines.
//
// Typical complexity for operations is amortized O(1): a map lookup plus
// constant-time bucket/list adjustments under a shard lock. Note that Get
// is a mutating operation for frequency-based policies (it promotes the
// entry), so there is no shared read path.
type Cache[K comparable, V any] interface {
	// Add inserts k→v only if k is not present.
	// Returns false if the key already exists (no update is performed).
	Add(k K, v V) bool

	// Set inserts or updates k→v and counts an access according to the
	// active eviction policy (e.g., a frequency increment for LFU).
	Set(k K, v V)

	// Get returns the value for k and a boolean flag indicating presence.
	// On hit, the entry is promoted according to the policy.
	Get(k K) (V, bool)

	// GetOrZero returns the value for k, or the zero value of V on a miss.
	// Promotion semantics match Get.
	GetOrZero(k K) V

	// Remove deletes k if present and returns true on success.
	Remove(k K) bool

	// Purge discards every entry in every shard.
	Purge()

	// Len returns the total number of resident entries across all shards.
	Len() int

	// Close marks the cache closed; subsequent operations are no-ops.
	// Current implementation is a soft close and returns nil.
	Close() error

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)
}
