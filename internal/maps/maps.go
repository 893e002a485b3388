package maps

// mapImplementation selects the default concurrent map used across the application.
// Valid options: "xsync", "cornelk", "sharded".
const mapImplementation = "xsync"

// Integer is a constraint that permits any integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// ConcurrentMap defines a generic, thread-safe map interface for integer keys.
// The abstraction allows swapping the underlying implementation without touching
// the code that holds per-thread state in it.
type ConcurrentMap[K Integer, V any] interface {
	Load(key K) (V, bool)
	Store(key K, value V)
	Delete(key K)
	LoadAndDelete(key K) (V, bool)
	// LoadOrStore returns the existing value for key if present. Otherwise it
	// calls valueFactory, stores the result and returns it. The boolean reports
	// whether the value was loaded rather than created.
	LoadOrStore(key K, valueFactory func() V) (V, bool)
	Range(f func(key K, value V) bool)
}

// NewConcurrentMap returns the default concurrent map implementation for
// integer-keyed maps, chosen by the mapImplementation constant.
func NewConcurrentMap[K Integer, V any]() ConcurrentMap[K, V] {
	switch mapImplementation {
	case "cornelk":
		return NewCornelkMap[K, V]()
	case "sharded":
		return NewShardedMap[K, V]()
	default:
		return NewXSyncMap[K, V]()
	}
}
