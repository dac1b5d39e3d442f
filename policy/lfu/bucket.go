package lfu

// noSlot marks an unused link or an absent slot.
const noSlot int32 = -1

// slot is one arena cell: a cache entry (or a bucket sentinel) with
// intrusive prev/next links. A live slot is linked into exactly one
// frequency bucket at a time.
type slot[K comparable, V any] struct {
	key  K
	val  V
	freq int32
	prev int32
	next int32
}

// arena is slab storage for slots. Links are stable int32 indices, so
// growing the backing slice never invalidates them, and moving an entry
// between buckets is a pure index rewrite. Released slots recycle through
// a free list.
type arena[K comparable, V any] struct {
	slots []slot[K, V]
	free  []int32
}

// alloc returns a zeroed slot index, reusing a freed one when available.
func (a *arena[K, V]) alloc() int32 {
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		return i
	}
	a.slots = append(a.slots, slot[K, V]{prev: noSlot, next: noSlot})
	return int32(len(a.slots) - 1)
}

// release zeroes the slot (dropping key/value references for the GC) and
// puts its index on the free list.
func (a *arena[K, V]) release(i int32) {
	a.slots[i] = slot[K, V]{prev: noSlot, next: noSlot}
	a.free = append(a.free, i)
}

// reset discards all storage.
func (a *arena[K, V]) reset() {
	a.slots = nil
	a.free = nil
}

// bucketList is one frequency bucket: a doubly linked list threaded through
// the arena, bounded by two sentinel slots. The slot adjacent to head is the
// oldest member at this frequency; appends land adjacent to tail.
type bucketList[K comparable, V any] struct {
	a    *arena[K, V]
	head int32
	tail int32
}

func newBucketList[K comparable, V any](a *arena[K, V]) bucketList[K, V] {
	h := a.alloc()
	t := a.alloc()
	a.slots[h].next = t
	a.slots[t].prev = h
	return bucketList[K, V]{a: a, head: h, tail: t}
}

// append links slot i immediately before the tail sentinel, making it the
// newest member of the bucket.
func (b bucketList[K, V]) append(i int32) {
	p := b.a.slots[b.tail].prev
	b.a.slots[i].prev = p
	b.a.slots[i].next = b.tail
	b.a.slots[p].next = i
	b.a.slots[b.tail].prev = i
}

// unlink detaches slot i from the bucket. A slot whose links are already
// cleared is left alone; that indicates a bookkeeping bug upstream, not a
// state we can make worse.
func (b bucketList[K, V]) unlink(i int32) {
	s := &b.a.slots[i]
	if s.prev == noSlot || s.next == noSlot {
		return
	}
	b.a.slots[s.prev].next = s.next
	b.a.slots[s.next].prev = s.prev
	s.prev, s.next = noSlot, noSlot
}

// first returns the oldest member of the bucket, or noSlot when empty.
func (b bucketList[K, V]) first() int32 {
	if n := b.a.slots[b.head].next; n != b.tail {
		return n
	}
	return noSlot
}

// empty reports sentinel adjacency.
func (b bucketList[K, V]) empty() bool {
	return b.a.slots[b.head].next == b.tail
}

// drop releases the bucket's sentinel slots. Only valid on an empty bucket.
func (b bucketList[K, V]) drop() {
	b.a.release(b.head)
	b.a.release(b.tail)
}
