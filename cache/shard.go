package cache

import (
	"sync"

	"github.com/JonDoe828/freqcache/internal/util"
	"github.com/JonDoe828/freqcache/policy"
)

// shard is an independent partition of the cache: one policy core guarded
// by one exclusive lock. Even reads mutate policy state (frequency,
// bucket membership, possibly an aging sweep), so every operation takes mu
// for its full duration; there is no reader/writer split.
type shard[K comparable, V any] struct {
	mu   sync.Mutex
	core policy.Core[K, V]
	opt  Options[K, V]

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

// newShard builds a shard around a fresh policy core. The core calls back
// into the shard for every capacity eviction; those callbacks run while mu
// is held.
func newShard[K comparable, V any](capacity int, pol policy.Policy[K, V], opt Options[K, V]) *shard[K, V] {
	s := &shard[K, V]{opt: opt}
	s.core = pol.New(capacity, func(k K, v V) {
		s.evicts.Add(1)
		opt.Metrics.Evict()
		if cb := opt.OnEvict; cb != nil {
			cb(k, v)
		}
	})
	return s
}

// Add inserts k→v only if absent. Returns false on duplicate.
func (s *shard[K, V]) Add(k K, v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.core.Contains(k) {
		return false
	}
	s.core.Put(k, v)
	s.opt.Metrics.Size(s.core.Len())
	// A zero-capacity core silently drops the Put; report what happened.
	return s.core.Contains(k)
}

// Set inserts or updates an entry (counts as an access for the policy).
func (s *shard[K, V]) Set(k K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.core.Put(k, v)
	s.opt.Metrics.Size(s.core.Len())
}

// Get returns the value and promotes the entry according to the policy.
func (s *shard[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.core.Get(k)
	if ok {
		s.hits.Add(1)
		s.opt.Metrics.Hit()
	} else {
		s.misses.Add(1)
		s.opt.Metrics.Miss()
	}
	return v, ok
}

// Remove deletes an entry by key. Returns true if the entry existed.
func (s *shard[K, V]) Remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.core.Remove(k)
	if ok {
		s.opt.Metrics.Size(s.core.Len())
	}
	return ok
}

// Purge discards every entry in this shard.
func (s *shard[K, V]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.core.Purge()
	s.opt.Metrics.Size(0)
}

// Len returns the number of resident entries in this shard.
func (s *shard[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Len()
}
