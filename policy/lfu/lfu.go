// Package lfu implements a frequency-bucketed Least-Frequently-Used engine.
//
// Entries live in an arena of index-linked slots. Every entry belongs to
// exactly one frequency bucket (a doubly linked list of the slots sharing
// one access count); a hit unlinks the entry and appends it to the next
// bucket, so promotion is O(1) and eviction takes the oldest member of the
// minimum-frequency bucket. A configurable aging sweep halves all
// frequencies once their running average exceeds a threshold, so long-lived
// hot keys cannot become permanently un-evictable.
package lfu

import (
	"sort"

	"github.com/JonDoe828/freqcache/policy"
)

// DefaultMaxAverageFrequency is used when the configured aging threshold is
// not positive. It is high enough that aging acts as a safety valve rather
// than a steady-state mechanism; tune it down for workloads with extreme
// key reuse.
const DefaultMaxAverageFrequency = 1_000_000

type lfuPolicy[K comparable, V any] struct {
	maxAvgFreq int
}

// New returns a Policy factory constructing per-shard LFU cores.
// maxAverageFrequency gates the aging sweep: once the average frequency of
// resident entries exceeds it, every frequency is halved (minimum 1).
// A non-positive value selects DefaultMaxAverageFrequency.
func New[K comparable, V any](maxAverageFrequency int) policy.Policy[K, V] {
	if maxAverageFrequency <= 0 {
		maxAverageFrequency = DefaultMaxAverageFrequency
	}
	return lfuPolicy[K, V]{maxAvgFreq: maxAverageFrequency}
}

func (p lfuPolicy[K, V]) New(capacity int, onEvict func(K, V)) policy.Core[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &core[K, V]{
		cap:        capacity,
		maxAvgFreq: int64(p.maxAvgFreq),
		index:      make(map[K]int32, capacity),
		buckets:    make(map[int32]bucketList[K, V]),
		onEvict:    onEvict,
	}
}

// core is a single-shard LFU cache.
type core[K comparable, V any] struct {
	cap        int
	maxAvgFreq int64

	index   map[K]int32                // key -> arena slot
	buckets map[int32]bucketList[K, V] // frequency -> bucket (non-empty between ops)
	arena   arena[K, V]

	// minFreq is the smallest frequency with at least one entry.
	// Meaningless while the core is empty.
	minFreq int32

	// totalFreq is the running sum of live frequencies; totalFreq/len(index)
	// crossing maxAvgFreq triggers the aging sweep.
	totalFreq int64

	onEvict func(K, V)
}

func (c *core[K, V]) Put(k K, v V) {
	if c.cap <= 0 {
		return
	}
	if i, ok := c.index[k]; ok {
		c.arena.slots[i].val = v
		c.touch(i)
		return
	}
	if len(c.index) >= c.cap {
		c.evict()
	}
	i := c.arena.alloc()
	b := c.bucket(1) // may grow the arena; resolve before writing the slot
	s := &c.arena.slots[i]
	s.key, s.val, s.freq = k, v, 1
	c.index[k] = i
	b.append(i)
	c.minFreq = 1
	c.totalFreq++
	c.maybeAge()
}

func (c *core[K, V]) Get(k K) (V, bool) {
	i, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.touch(i)
	return c.arena.slots[i].val, true
}

func (c *core[K, V]) Contains(k K) bool {
	_, ok := c.index[k]
	return ok
}

func (c *core[K, V]) Remove(k K) bool {
	i, ok := c.index[k]
	if !ok {
		return false
	}
	freq := c.arena.slots[i].freq
	if b, ok := c.buckets[freq]; ok {
		b.unlink(i)
		c.dropIfEmpty(freq)
	}
	delete(c.index, k)
	c.totalFreq -= int64(freq)
	c.arena.release(i)
	if freq == c.minFreq {
		c.recomputeMinFreq()
	}
	c.maybeAge()
	return true
}

func (c *core[K, V]) Purge() {
	c.index = make(map[K]int32)
	c.buckets = make(map[int32]bucketList[K, V])
	c.arena.reset()
	c.minFreq = 0
	c.totalFreq = 0
}

func (c *core[K, V]) Len() int { return len(c.index) }

// touch promotes slot i to the next frequency bucket.
func (c *core[K, V]) touch(i int32) {
	freq := c.arena.slots[i].freq
	if b, ok := c.buckets[freq]; ok {
		b.unlink(i)
		// Frequencies grow by exactly one per access, so when the minimum
		// bucket empties the new minimum is freq+1; no search required.
		if b.empty() && freq == c.minFreq {
			c.minFreq = freq + 1
		}
		c.dropIfEmpty(freq)
	}
	next := c.bucket(freq + 1)
	c.arena.slots[i].freq = freq + 1
	next.append(i)
	c.totalFreq++
	c.maybeAge()
}

// evict removes the oldest entry of the minimum-frequency bucket: among
// equally-infrequent keys, the one that has sat at that frequency longest
// goes first (any access would have promoted it out).
func (c *core[K, V]) evict() {
	b, ok := c.buckets[c.minFreq]
	if !ok || b.empty() {
		// Reachable only if bookkeeping drifted; resynchronize and retry.
		c.recomputeMinFreq()
		if b, ok = c.buckets[c.minFreq]; !ok || b.empty() {
			return
		}
	}
	i := b.first()
	b.unlink(i)
	c.dropIfEmpty(c.minFreq)

	s := &c.arena.slots[i]
	k, v, freq := s.key, s.val, s.freq
	delete(c.index, k)
	c.totalFreq -= int64(freq)
	c.arena.release(i)

	if cb := c.onEvict; cb != nil {
		cb(k, v)
	}
}

// bucket returns the list for freq, creating it on first use.
func (c *core[K, V]) bucket(freq int32) bucketList[K, V] {
	b, ok := c.buckets[freq]
	if !ok {
		b = newBucketList(&c.arena)
		c.buckets[freq] = b
	}
	return b
}

// dropIfEmpty discards an emptied bucket and recycles its sentinels, so the
// bucket map tracks only frequencies that actually hold entries.
func (c *core[K, V]) dropIfEmpty(freq int32) {
	if b, ok := c.buckets[freq]; ok && b.empty() {
		b.drop()
		delete(c.buckets, freq)
	}
}

// recomputeMinFreq scans the (non-empty) buckets for the smallest
// frequency. Needed after Remove or an aging sweep; promotion and eviction
// maintain minFreq in O(1).
func (c *core[K, V]) recomputeMinFreq() {
	c.minFreq = 0
	for f := range c.buckets {
		if c.minFreq == 0 || f < c.minFreq {
			c.minFreq = f
		}
	}
}

// maybeAge runs the aging sweep once the average frequency of resident
// entries exceeds the threshold. Called after every mutation that changes
// totalFreq; never fires on an empty core.
func (c *core[K, V]) maybeAge() {
	n := len(c.index)
	if n == 0 || c.totalFreq/int64(n) <= c.maxAvgFreq {
		return
	}
	c.age()
}

// age halves every live frequency (minimum 1) and relocates entries into
// the matching buckets. Buckets are processed in ascending frequency order,
// oldest member first, so within-frequency age order survives the sweep.
// Halving is monotonic: relative frequency order between entries is
// preserved. O(n) over the core's occupancy, amortized by the
// average-frequency gate.
func (c *core[K, V]) age() {
	freqs := make([]int32, 0, len(c.buckets))
	for f := range c.buckets {
		freqs = append(freqs, f)
	}
	sort.Slice(freqs, func(i, j int) bool { return freqs[i] < freqs[j] })

	for _, f := range freqs {
		half := f / 2
		if half < 1 {
			half = 1
		}
		if half == f {
			continue // already at the floor
		}
		b := c.buckets[f]
		target := c.bucket(half) // halving only moves down; never revisited
		for i := b.first(); i != noSlot; i = b.first() {
			b.unlink(i)
			c.arena.slots[i].freq = half
			target.append(i)
		}
		c.dropIfEmpty(f)
	}

	c.totalFreq = 0
	for _, i := range c.index {
		c.totalFreq += int64(c.arena.slots[i].freq)
	}
	c.recomputeMinFreq()
}
