package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonDoe828/freqcache/policy/lru"
	"github.com/JonDoe828/freqcache/policy/lruk"
)

// Basic Add/Set/Get/Remove semantics.
// Add inserts only if key is absent; Set updates; Remove deletes.
func TestCache_BasicAddSetGetRemove(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{Capacity: 8})
	t.Cleanup(func() { _ = c.Close() })

	if !c.Add("a", 1) {
		t.Fatal("Add a=1 must be true")
	}
	if c.Add("a", 2) {
		t.Fatal("Add duplicate must be false")
	}

	c.Set("a", 11)
	if v, ok := c.Get("a"); !ok || v != 11 {
		t.Fatalf("Get a want 11, got %v ok=%v", v, ok)
	}

	if !c.Remove("a") {
		t.Fatal("Remove a must be true")
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("a must be absent after Remove")
	}
}

// Deterministic LFU eviction: single shard, small capacity.
// Accessing "a" raises its frequency; inserting "c" evicts "b".
func TestCache_EvictionLFU(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{
		Capacity: 2,
		Shards:   1, // force a single shard so eviction is global
	})
	t.Cleanup(func() { _ = c.Close() })

	c.Set("a", 1)
	c.Set("b", 2)

	if _, ok := c.Get("a"); !ok { // a -> freq 2
		t.Fatal("expect hit for a")
	}
	c.Set("c", 3) // overflow -> evict b (freq 1)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b must be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a must survive (more frequent)")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatal("c must be present")
	}
}

// Among equally-infrequent keys the earliest insert is evicted first.
func TestCache_EvictionTieBreak(t *testing.T) {
	t.Parallel()

	c := New[int, string](Options[int, string]{Capacity: 2, Shards: 1})
	t.Cleanup(func() { _ = c.Close() })

	c.Set(1, "a")
	c.Set(2, "b")
	c.Set(3, "c") // both at freq 1: the older key 1 goes

	if _, ok := c.Get(1); ok {
		t.Fatal("key 1 must be evicted")
	}
	if v, ok := c.Get(2); !ok || v != "b" {
		t.Fatalf("key 2: want b, got %q ok=%v", v, ok)
	}
	if v, ok := c.Get(3); !ok || v != "c" {
		t.Fatalf("key 3: want c, got %q ok=%v", v, ok)
	}
}

// Capacity <= 0 degrades to an always-miss cache; construction never fails.
func TestCache_ZeroCapacity(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{Capacity: 0})
	t.Cleanup(func() { _ = c.Close() })

	for i := 0; i < 32; i++ {
		c.Set("k:"+strconv.Itoa(i), i)
	}
	if c.Len() != 0 {
		t.Fatalf("Len: want 0, got %d", c.Len())
	}
	if _, ok := c.Get("k:1"); ok {
		t.Fatal("zero-capacity cache must always miss")
	}
	if c.Add("x", 1) {
		t.Fatal("Add into a zero-capacity cache must report false")
	}
}

func TestCache_GetOrZero(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{Capacity: 4})
	t.Cleanup(func() { _ = c.Close() })

	c.Set("a", 42)
	if v := c.GetOrZero("a"); v != 42 {
		t.Fatalf("GetOrZero a: want 42, got %d", v)
	}
	if v := c.GetOrZero("missing"); v != 0 {
		t.Fatalf("GetOrZero miss: want 0, got %d", v)
	}
}

func TestCache_PurgeClearsAll(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{Capacity: 64, Shards: 4})
	t.Cleanup(func() { _ = c.Close() })

	for i := 0; i < 32; i++ {
		c.Set("k:"+strconv.Itoa(i), i)
	}
	c.Purge()

	if c.Len() != 0 {
		t.Fatalf("Len after purge: want 0, got %d", c.Len())
	}
	for i := 0; i < 32; i++ {
		if _, ok := c.Get("k:" + strconv.Itoa(i)); ok {
			t.Fatalf("key %d must be absent after purge", i)
		}
	}
}

// Keys land on different shards, but as long as the inserted count fits any
// single shard's capacity no key can be lost to rounding, whatever the hash
// distribution.
func TestCache_ShardedDistribution(t *testing.T) {
	t.Parallel()

	const shards, total = 4, 64
	c := New[int, string](Options[int, string]{Capacity: total, Shards: shards})
	t.Cleanup(func() { _ = c.Close() })

	perShard := total / shards
	for i := 0; i < perShard; i++ {
		c.Set(i, "v"+strconv.Itoa(i))
	}
	for i := 0; i < perShard; i++ {
		if v, ok := c.Get(i); !ok || v != "v"+strconv.Itoa(i) {
			t.Fatalf("key %d: want %q, got %q ok=%v", i, "v"+strconv.Itoa(i), v, ok)
		}
	}
	if c.Len() != perShard {
		t.Fatalf("Len: want %d, got %d", perShard, c.Len())
	}
}

// OnEvict fires for capacity evictions only, never for Remove or Purge.
func TestCache_OnEvictCallback(t *testing.T) {
	t.Parallel()

	var evicted atomic.Int64
	c := New[string, int](Options[string, int]{
		Capacity: 2,
		Shards:   1,
		OnEvict:  func(string, int) { evicted.Add(1) },
	})
	t.Cleanup(func() { _ = c.Close() })

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts one
	if got := evicted.Load(); got != 1 {
		t.Fatalf("evictions: want 1, got %d", got)
	}

	c.Remove("c")
	c.Purge()
	if got := evicted.Load(); got != 1 {
		t.Fatalf("Remove/Purge must not fire OnEvict, got %d", got)
	}
}

// The policy contract is shared: LRU and LRU-K drop in without changing
// caller code.
func TestCache_PolicySwap(t *testing.T) {
	t.Parallel()

	caches := map[string]Cache[string, int]{
		"lru":  New[string, int](Options[string, int]{Capacity: 8, Policy: lru.New[string, int]()}),
		"lruk": New[string, int](Options[string, int]{Capacity: 8, Policy: lruk.New[string, int](16, 2)}),
	}
	for name, c := range caches {
		c := c
		t.Cleanup(func() { _ = c.Close() })

		c.Set("a", 1)
		c.Set("a", 2) // second access satisfies LRU-K's k=2 admission
		if v, ok := c.Get("a"); !ok || v != 2 {
			t.Fatalf("%s: Get a want 2, got %d ok=%v", name, v, ok)
		}
		if !c.Remove("a") {
			t.Fatalf("%s: Remove a must be true", name)
		}
		if _, ok := c.Get("a"); ok {
			t.Fatalf("%s: a must be absent after Remove", name)
		}
	}
}

func TestCache_ClosedIsInert(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{Capacity: 8})
	c.Set("a", 1)
	_ = c.Close()

	c.Set("b", 2)
	if _, ok := c.Get("a"); ok {
		t.Fatal("closed cache must miss")
	}
	if c.Add("c", 3) || c.Remove("a") {
		t.Fatal("closed cache must refuse mutations")
	}
}

// Singleflight test: concurrent GetOrLoad calls for the same key
// should trigger the Loader at most once; subsequent calls are cache hits.
func TestCache_GetOrLoad_Singleflight(t *testing.T) {
	var calls int64

	c := New[string, string](Options[string, string]{
		Capacity: 64,
		Loader: func(_ context.Context, k string) (string, error) {
			atomic.AddInt64(&calls, 1)
			time.Sleep(5 * time.Millisecond) // simulate I/O
			return "v:" + k, nil
		},
	})
	t.Cleanup(func() { _ = c.Close() })

	const N = 64
	var g errgroup.Group
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := 0; i < N; i++ {
		g.Go(func() error {
			v, err := c.GetOrLoad(ctx, "k")
			if err != nil {
				return err
			}
			if v != "v:k" {
				return fmt.Errorf("got %q", v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("loader must run exactly once, got %d", got)
	}

	if v, err := c.GetOrLoad(context.Background(), "k"); err != nil || v != "v:k" {
		t.Fatalf("second GetOrLoad failed: v=%q err=%v", v, err)
	}
}

func TestCache_GetOrLoad_NoLoader(t *testing.T) {
	t.Parallel()

	c := New[string, string](Options[string, string]{Capacity: 4})
	t.Cleanup(func() { _ = c.Close() })

	if _, err := c.GetOrLoad(context.Background(), "k"); err != ErrNoLoader {
		t.Fatalf("want ErrNoLoader, got %v", err)
	}
}
