// Package twoq implements the 2Q eviction policy.
//
// Resident entries split across two queues: A1in, a FIFO of first-time
// admissions, and Am, an LRU of entries that proved reuse. A1out tracks the
// keys of recently dropped A1in entries as ghosts (no values); a re-admitted
// ghost bypasses A1in straight into Am. The split resists scan pollution:
// one-shot keys wash through A1in without disturbing Am.
package twoq

import (
	"container/list"

	"github.com/JonDoe828/freqcache/policy"
)

type entry[K comparable, V any] struct {
	key K
	val V
}

type twoqPolicy[K comparable, V any] struct {
	inFrac    int // A1in share of capacity, percent
	ghostFrac int // A1out share of capacity, percent
}

// New returns a Policy factory constructing per-shard 2Q cores.
// inPct and ghostPct size A1in and A1out as percentages of the per-shard
// capacity; common choices are 25 and 50. Values outside (0,100] fall back
// to those defaults.
func New[K comparable, V any](inPct, ghostPct int) policy.Policy[K, V] {
	if inPct <= 0 || inPct > 100 {
		inPct = 25
	}
	if ghostPct <= 0 || ghostPct > 100 {
		ghostPct = 50
	}
	return twoqPolicy[K, V]{inFrac: inPct, ghostFrac: ghostPct}
}

func (p twoqPolicy[K, V]) New(capacity int, onEvict func(K, V)) policy.Core[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	capIn := capacity * p.inFrac / 100
	if capIn < 1 && capacity > 0 {
		capIn = 1
	}
	capGhost := capacity * p.ghostFrac / 100
	if capGhost < 1 && capacity > 0 {
		capGhost = 1
	}
	return &core[K, V]{
		cap:      capacity,
		capIn:    capIn,
		capGhost: capGhost,
		in:       list.New(),
		inIdx:    make(map[K]*list.Element),
		am:       list.New(),
		amIdx:    make(map[K]*list.Element),
		ghost:    list.New(),
		ghostIdx: make(map[K]*list.Element),
		onEvict:  onEvict,
	}
}

// core is a single-shard 2Q cache. All lists keep MRU at Front().
type core[K comparable, V any] struct {
	cap      int
	capIn    int
	capGhost int

	in    *list.List // A1in: element.Value is *entry
	inIdx map[K]*list.Element

	am    *list.List // Am: element.Value is *entry
	amIdx map[K]*list.Element

	ghost    *list.List // A1out: element.Value is K
	ghostIdx map[K]*list.Element

	onEvict func(K, V)
}

func (c *core[K, V]) Put(k K, v V) {
	if c.cap <= 0 {
		return
	}
	if el, ok := c.amIdx[k]; ok {
		el.Value.(*entry[K, V]).val = v
		c.am.MoveToFront(el)
		return
	}
	if el, ok := c.inIdx[k]; ok {
		// A1in is FIFO: update in place, no reordering.
		el.Value.(*entry[K, V]).val = v
		return
	}
	if el, ok := c.ghostIdx[k]; ok {
		// Second chance: the key proved reuse, admit directly into Am.
		c.ghost.Remove(el)
		delete(c.ghostIdx, k)
		c.makeRoom()
		c.amIdx[k] = c.am.PushFront(&entry[K, V]{key: k, val: v})
		return
	}
	c.makeRoom()
	c.inIdx[k] = c.in.PushFront(&entry[K, V]{key: k, val: v})
	c.trimIn()
}

func (c *core[K, V]) Get(k K) (V, bool) {
	if el, ok := c.amIdx[k]; ok {
		c.am.MoveToFront(el)
		return el.Value.(*entry[K, V]).val, true
	}
	if el, ok := c.inIdx[k]; ok {
		// Reuse while still in A1in promotes to Am.
		e := el.Value.(*entry[K, V])
		c.in.Remove(el)
		delete(c.inIdx, k)
		c.amIdx[k] = c.am.PushFront(e)
		return e.val, true
	}
	var zero V
	return zero, false
}

func (c *core[K, V]) Contains(k K) bool {
	if _, ok := c.amIdx[k]; ok {
		return true
	}
	_, ok := c.inIdx[k]
	return ok
}

func (c *core[K, V]) Remove(k K) bool {
	if el, ok := c.amIdx[k]; ok {
		c.am.Remove(el)
		delete(c.amIdx, k)
		return true
	}
	if el, ok := c.inIdx[k]; ok {
		c.in.Remove(el)
		delete(c.inIdx, k)
		return true
	}
	return false
}

func (c *core[K, V]) Purge() {
	c.in.Init()
	c.am.Init()
	c.ghost.Init()
	c.inIdx = make(map[K]*list.Element)
	c.amIdx = make(map[K]*list.Element)
	c.ghostIdx = make(map[K]*list.Element)
}

func (c *core[K, V]) Len() int { return c.in.Len() + c.am.Len() }

// trimIn bounds A1in to its share: overflow pops the FIFO tail and leaves
// a ghost behind, independent of total occupancy.
func (c *core[K, V]) trimIn() {
	for c.in.Len() > c.capIn {
		c.evictIn()
	}
}

// makeRoom evicts until one slot is free. A1in at or over its share gives
// up its FIFO tail (leaving a ghost); otherwise Am gives up its LRU tail.
func (c *core[K, V]) makeRoom() {
	for c.Len() >= c.cap {
		if c.in.Len() > 0 && (c.in.Len() >= c.capIn || c.am.Len() == 0) {
			c.evictIn()
			continue
		}
		el := c.am.Back()
		if el == nil {
			return
		}
		e := el.Value.(*entry[K, V])
		c.am.Remove(el)
		delete(c.amIdx, e.key)
		if cb := c.onEvict; cb != nil {
			cb(e.key, e.val)
		}
	}
}

// evictIn drops the A1in FIFO tail and records its ghost.
func (c *core[K, V]) evictIn() {
	el := c.in.Back()
	if el == nil {
		return
	}
	e := el.Value.(*entry[K, V])
	c.in.Remove(el)
	delete(c.inIdx, e.key)
	c.addGhost(e.key)
	if cb := c.onEvict; cb != nil {
		cb(e.key, e.val)
	}
}

// addGhost records an evicted A1in key, bounded by capGhost.
func (c *core[K, V]) addGhost(k K) {
	if old := c.ghostIdx[k]; old != nil {
		c.ghost.Remove(old)
	}
	c.ghostIdx[k] = c.ghost.PushFront(k)
	for c.ghost.Len() > c.capGhost {
		tail := c.ghost.Back()
		if tail == nil {
			break
		}
		delete(c.ghostIdx, tail.Value.(K))
		c.ghost.Remove(tail)
	}
}
