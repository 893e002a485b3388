package profileevents

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCountersIncrementLoad(t *testing.T) {
	c := &Counters{}

	c.Increment(PerfCPUCycles, 100)
	c.Increment(PerfCPUCycles, 50)
	c.Increment(PerfPageFaults, 3)

	if got := c.Load(PerfCPUCycles); got != 150 {
		t.Errorf("PerfCPUCycles = %d, want 150", got)
	}
	if got := c.Load(PerfPageFaults); got != 3 {
		t.Errorf("PerfPageFaults = %d, want 3", got)
	}
	if got := c.Load(PerfInstructions); got != 0 {
		t.Errorf("untouched counter = %d, want 0", got)
	}

	// Out-of-range events are dropped, not panics.
	c.Increment(EventsEnd, 1)
	c.Increment(Event(-1), 1)
	if got := c.Load(EventsEnd); got != 0 {
		t.Errorf("out-of-range Load = %d, want 0", got)
	}

	c.Reset()
	if got := c.Load(PerfCPUCycles); got != 0 {
		t.Errorf("after Reset PerfCPUCycles = %d, want 0", got)
	}
}

func TestCountersConcurrentIncrement(t *testing.T) {
	c := &Counters{}
	const goroutines = 16
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				c.Increment(PerfContextSwitches, 1)
			}
		}()
	}
	wg.Wait()

	if got := c.Load(PerfContextSwitches); got != goroutines*perGoroutine {
		t.Errorf("PerfContextSwitches = %d, want %d", got, goroutines*perGoroutine)
	}
}

func TestEventNames(t *testing.T) {
	for event := Event(0); event < EventsEnd; event++ {
		if event.Name() == "" || event.Name() == "unknown" {
			t.Errorf("event %d has no name", event)
		}
	}
	if EventsEnd.Name() != "unknown" {
		t.Errorf("EventsEnd.Name() = %q, want unknown", EventsEnd.Name())
	}
}

func TestCollectorExposesAllEvents(t *testing.T) {
	c := &Counters{}
	c.Increment(PerfInstructions, 1234)

	collector := NewCollector(c)
	ch := make(chan prometheus.Metric, int(EventsEnd)+1)
	collector.Collect(ch)
	close(ch)

	count := 0
	for range ch {
		count++
	}
	if count != int(EventsEnd) {
		t.Errorf("collector emitted %d metrics, want %d", count, int(EventsEnd))
	}

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(collector); err != nil {
		t.Fatalf("register: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 1 {
		t.Fatalf("got %d metric families, want 1", len(families))
	}
	found := false
	for _, metric := range families[0].GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetValue() == PerfInstructions.Name() {
				found = true
				if got := metric.GetCounter().GetValue(); got != 1234 {
					t.Errorf("perf_instructions = %v, want 1234", got)
				}
			}
		}
	}
	if !found {
		t.Error("perf_instructions series not found in gathered output")
	}
}
