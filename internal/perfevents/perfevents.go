// Package perfevents attributes kernel performance counters (CPU cycles,
// instructions, cache misses, page faults, ...) to units of work executing on
// a thread. Each measured scope owns a Counters session and wraps the work in
// a Begin/End pair; collected values are reported into the process-wide
// profileevents table.
//
// All descriptor state is per thread. A goroutine that measures must be locked
// to its OS thread for the duration and should call ReleaseThread before
// unlocking so the kernel descriptors are returned.
//
// On platforms without the perf_event facility both Begin and End are total
// no-ops with the identical contract.
package perfevents

// NumberOfRawEvents is the number of raw kernel events tracked per thread.
// The event registry, the per-thread descriptor slots and the per-session raw
// values are all index-aligned sequences of this length.
const NumberOfRawEvents = 18

// Counters is one measured scope's local storage for collected raw values.
// It is reused across sequential Begin/End cycles and must not be shared
// between threads.
type Counters struct {
	rawValues [NumberOfRawEvents]uint64
}
