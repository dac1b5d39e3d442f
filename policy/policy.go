// Package policy defines the contract between the sharded cache front and
// its eviction engines.
package policy

// Core is a complete single-shard cache engine: it owns the key index and
// whatever ordering structure its eviction strategy needs (an LFU core owns
// frequency buckets, an LRU core a recency list, and so on).
//
// A Core is NOT safe for concurrent use. The shard that owns it serializes
// every call under its exclusive lock; a Core used directly (without the
// cache front) must be guarded by the caller.
type Core[K comparable, V any] interface {
	// Put inserts or updates k→v. Updating an existing key counts as an
	// access for the engine's bookkeeping (e.g., a frequency increment).
	// Inserting into a full core evicts a victim first.
	Put(k K, v V)

	// Get returns the value for k and a presence flag. A hit counts as an
	// access; a miss leaves the engine's state untouched.
	Get(k K) (V, bool)

	// Contains reports whether k is resident without counting an access.
	Contains(k K) bool

	// Remove deletes k if present and reports whether it was resident.
	// Explicit removal is not an eviction: the eviction callback does not fire.
	Remove(k K) bool

	// Purge discards every entry and resets the engine to its initial state.
	Purge()

	// Len returns the number of resident entries.
	Len() int
}

// Policy is a factory creating shard-local cores.
//
// capacity is the per-shard entry limit; capacity <= 0 yields an always-miss
// engine that accepts nothing (never an error). onEvict, when non-nil, is
// invoked for every capacity eviction while the shard lock is held; keep it
// lightweight.
type Policy[K comparable, V any] interface {
	New(capacity int, onEvict func(k K, v V)) Core[K, V]
}
