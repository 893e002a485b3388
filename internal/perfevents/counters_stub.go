//go:build !linux

package perfevents

import "perf_exporter/internal/profileevents"

// Profiler is the no-op variant for platforms without the perf_event
// facility. It keeps no state and satisfies the same Begin/End contract, so
// callers need no platform conditionals.
type Profiler struct{}

// NewProfiler creates the inert profiler.
func NewProfiler() *Profiler { return &Profiler{} }

// Begin does nothing on this platform.
func (p *Profiler) Begin(c *Counters) {}

// End does nothing on this platform.
func (p *Profiler) End(c *Counters, sink profileevents.Sink) {}

// ReleaseThread does nothing on this platform.
func (p *Profiler) ReleaseThread() {}

// RawValue always reports 0 on this platform.
func (c *Counters) RawValue(eventType uint32, eventConfig uint64) uint64 { return 0 }
