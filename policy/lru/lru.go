// Package lru implements the Least-Recently-Used engine.
package lru

import "github.com/JonDoe828/freqcache/policy"

// node is an intrusive doubly linked list element; head is MRU, tail is LRU.
type node[K comparable, V any] struct {
	key  K
	val  V
	prev *node[K, V]
	next *node[K, V]
}

type lruPolicy[K comparable, V any] struct{}

// New returns a Policy factory constructing per-shard LRU cores.
func New[K comparable, V any]() policy.Policy[K, V] { return lruPolicy[K, V]{} }

func (lruPolicy[K, V]) New(capacity int, onEvict func(K, V)) policy.Core[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &core[K, V]{
		cap:     capacity,
		m:       make(map[K]*node[K, V], capacity),
		onEvict: onEvict,
	}
}

// core is a single-shard LRU cache: a map for lookups plus an intrusive
// MRU↔LRU list for ordering. All operations are O(1).
type core[K comparable, V any] struct {
	cap     int
	m       map[K]*node[K, V]
	head    *node[K, V] // MRU
	tail    *node[K, V] // LRU
	onEvict func(K, V)
}

func (c *core[K, V]) Put(k K, v V) {
	if c.cap <= 0 {
		return
	}
	if n, ok := c.m[k]; ok {
		n.val = v
		c.moveToFront(n)
		return
	}
	if len(c.m) >= c.cap {
		c.evict()
	}
	n := &node[K, V]{key: k, val: v}
	c.m[k] = n
	c.insertFront(n)
}

func (c *core[K, V]) Get(k K) (V, bool) {
	n, ok := c.m[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.val, true
}

func (c *core[K, V]) Contains(k K) bool {
	_, ok := c.m[k]
	return ok
}

func (c *core[K, V]) Remove(k K) bool {
	n, ok := c.m[k]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.m, k)
	return true
}

func (c *core[K, V]) Purge() {
	c.m = make(map[K]*node[K, V])
	c.head, c.tail = nil, nil
}

func (c *core[K, V]) Len() int { return len(c.m) }

// insertFront inserts n at MRU.
func (c *core[K, V]) insertFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// moveToFront promotes n to MRU.
func (c *core[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.insertFront(n)
}

// unlink detaches n from the list.
func (c *core[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.head == n {
		c.head = n.next
	}
	if c.tail == n {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// evict removes the current LRU entry.
func (c *core[K, V]) evict() {
	n := c.tail
	if n == nil {
		return
	}
	c.unlink(n)
	delete(c.m, n.key)
	if cb := c.onEvict; cb != nil {
		cb(n.key, n.val)
	}
}
