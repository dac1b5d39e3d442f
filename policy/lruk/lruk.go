// Package lruk implements the LRU-K admission policy.
//
// A key becomes resident in the main LRU cache only after it has been
// accessed k times. Until then its access count lives in a short-term
// history cache (itself an LRU, so cold candidates age out) and its most
// recent value is parked in a pending map. The component owns two
// independent single-policy cores and coordinates between them; it does not
// extend either one.
package lruk

import (
	"github.com/JonDoe828/freqcache/policy"
	"github.com/JonDoe828/freqcache/policy/lru"
)

type lrukPolicy[K comparable, V any] struct {
	historyCap int
	k          int
}

// New returns a Policy factory constructing per-shard LRU-K cores.
// historyCapacity bounds the admission history; k is the access count a key
// must reach before it is admitted to the main cache (k < 2 degenerates to
// plain LRU behavior on the second touch).
func New[K comparable, V any](historyCapacity, k int) policy.Policy[K, V] {
	if historyCapacity < 1 {
		historyCapacity = 1
	}
	if k < 1 {
		k = 1
	}
	return lrukPolicy[K, V]{historyCap: historyCapacity, k: k}
}

func (p lrukPolicy[K, V]) New(capacity int, onEvict func(K, V)) policy.Core[K, V] {
	c := &core[K, V]{
		k:       p.k,
		main:    lru.New[K, V]().New(capacity, onEvict),
		pending: make(map[K]V),
	}
	// When a candidate's history record ages out, its parked value goes too;
	// otherwise pending would grow without bound.
	c.history = lru.New[K, int]().New(p.historyCap, func(k K, _ int) {
		delete(c.pending, k)
	})
	return c
}

// core coordinates the main cache with the admission history.
type core[K comparable, V any] struct {
	k       int
	main    policy.Core[K, V]   // resident entries
	history policy.Core[K, int] // key -> access count, LRU-bounded
	pending map[K]V             // values seen fewer than k times
}

func (c *core[K, V]) Put(k K, v V) {
	if c.main.Contains(k) {
		c.main.Put(k, v)
		return
	}
	cnt, _ := c.history.Get(k)
	cnt++
	c.history.Put(k, cnt)
	c.pending[k] = v
	if cnt >= c.k {
		c.admit(k, v)
	}
}

func (c *core[K, V]) Get(k K) (V, bool) {
	v, inMain := c.main.Get(k)
	cnt, _ := c.history.Get(k)
	cnt++
	c.history.Put(k, cnt)
	if inMain {
		return v, true
	}
	if cnt >= c.k {
		if pv, ok := c.pending[k]; ok {
			c.admit(k, pv)
			return pv, true
		}
	}
	var zero V
	return zero, false
}

// Contains reports residency in the main cache; a pending candidate is not
// yet resident.
func (c *core[K, V]) Contains(k K) bool { return c.main.Contains(k) }

func (c *core[K, V]) Remove(k K) bool {
	removed := c.main.Remove(k)
	c.history.Remove(k)
	if _, ok := c.pending[k]; ok {
		delete(c.pending, k)
		removed = true
	}
	return removed
}

func (c *core[K, V]) Purge() {
	c.main.Purge()
	c.history.Purge()
	c.pending = make(map[K]V)
}

// Len counts resident entries only.
func (c *core[K, V]) Len() int { return c.main.Len() }

// admit graduates a candidate into the main cache.
func (c *core[K, V]) admit(k K, v V) {
	c.history.Remove(k)
	delete(c.pending, k)
	c.main.Put(k, v)
}
