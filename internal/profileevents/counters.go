package profileevents

import "sync/atomic"

// Sink accepts one metric contribution at a time. It is what the measurement
// layer reports into, so tests can substitute a recording implementation.
type Sink interface {
	Increment(event Event, value uint64)
}

// Counters is a fixed table of atomic counters, one slot per Event.
// The zero value is ready to use.
type Counters struct {
	counters [EventsEnd]atomic.Uint64
}

// Global is the process-wide counter table.
var Global = &Counters{}

// Increment adds value to the counter for event. Out-of-range events are
// dropped.
func (c *Counters) Increment(event Event, value uint64) {
	if event < 0 || event >= EventsEnd {
		return
	}
	c.counters[event].Add(value)
}

// Load returns the current value of the counter for event.
func (c *Counters) Load(event Event) uint64 {
	if event < 0 || event >= EventsEnd {
		return 0
	}
	return c.counters[event].Load()
}

// Reset zeroes every counter. Intended for tests.
func (c *Counters) Reset() {
	for i := range c.counters {
		c.counters[i].Store(0)
	}
}
