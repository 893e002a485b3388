package maps

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
)

const keySpace = 1024

func implementations() []struct {
	name string
	m    ConcurrentMap[int32, *atomic.Int64]
} {
	return []struct {
		name string
		m    ConcurrentMap[int32, *atomic.Int64]
	}{
		{"XSyncMapV4", NewXSyncMap[int32, *atomic.Int64]()},
		{"CornelkHashMap", NewCornelkMap[int32, *atomic.Int64]()},
		{"ShardedMap", NewShardedMap[int32, *atomic.Int64]()},
	}
}

// TestMapContract exercises the ConcurrentMap interface on every implementation.
func TestMapContract(t *testing.T) {
	for _, impl := range implementations() {
		t.Run(impl.name, func(t *testing.T) {
			m := impl.m

			if _, ok := m.Load(1); ok {
				t.Fatal("Load on empty map reported a value")
			}

			v := new(atomic.Int64)
			v.Store(42)
			m.Store(1, v)
			got, ok := m.Load(1)
			if !ok || got.Load() != 42 {
				t.Fatalf("Load after Store: got %v, ok=%v", got, ok)
			}

			created, loaded := m.LoadOrStore(1, func() *atomic.Int64 { return new(atomic.Int64) })
			if !loaded || created.Load() != 42 {
				t.Fatalf("LoadOrStore on existing key: loaded=%v value=%d", loaded, created.Load())
			}
			fresh, loaded := m.LoadOrStore(2, func() *atomic.Int64 { return new(atomic.Int64) })
			if loaded || fresh == nil {
				t.Fatalf("LoadOrStore on new key: loaded=%v", loaded)
			}

			gone, ok := m.LoadAndDelete(1)
			if !ok || gone.Load() != 42 {
				t.Fatalf("LoadAndDelete: got %v, ok=%v", gone, ok)
			}
			if _, ok := m.Load(1); ok {
				t.Fatal("key still present after LoadAndDelete")
			}

			m.Delete(2)
			count := 0
			m.Range(func(key int32, value *atomic.Int64) bool {
				count++
				return true
			})
			if count != 0 {
				t.Fatalf("expected empty map after deletes, Range visited %d entries", count)
			}
		})
	}
}

// TestMapConcurrentLoadOrStore simulates the per-thread state registry pattern:
// many goroutines racing to get-or-create entries and bumping counters.
func TestMapConcurrentLoadOrStore(t *testing.T) {
	for _, impl := range implementations() {
		t.Run(impl.name, func(t *testing.T) {
			m := impl.m
			const goroutines = 8
			const iterations = 2000

			var wg sync.WaitGroup
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func(seed int64) {
					defer wg.Done()
					r := rand.New(rand.NewSource(seed))
					for i := 0; i < iterations; i++ {
						key := int32(r.Intn(keySpace))
						counter, _ := m.LoadOrStore(key, func() *atomic.Int64 { return new(atomic.Int64) })
						counter.Add(1)
					}
				}(int64(g))
			}
			wg.Wait()

			var total int64
			m.Range(func(key int32, value *atomic.Int64) bool {
				total += value.Load()
				return true
			})
			if total != goroutines*iterations {
				t.Fatalf("lost updates: got %d, want %d", total, goroutines*iterations)
			}
		})
	}
}

func BenchmarkMapLoadOrStore(b *testing.B) {
	for _, impl := range implementations() {
		b.Run(impl.name, func(b *testing.B) {
			m := impl.m
			b.RunParallel(func(pb *testing.PB) {
				r := rand.New(rand.NewSource(rand.Int63()))
				factory := func() *atomic.Int64 { return new(atomic.Int64) }
				for pb.Next() {
					key := int32(r.Intn(keySpace))
					counter, _ := m.LoadOrStore(key, factory)
					counter.Add(1)
				}
			})
		})
	}
}
