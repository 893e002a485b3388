// Package profileevents is the process-wide sink for named performance
// counters. Every thread contributes into the same table; readers observe a
// monotonically increasing value per event.
package profileevents

// Event identifies one named counter in the process-wide table.
type Event int

const (
	PerfCPUCycles Event = iota
	PerfInstructions
	PerfCacheReferences
	PerfCacheMisses
	PerfBranchInstructions
	PerfBranchMisses
	PerfBusCycles
	PerfStalledCyclesFrontend
	PerfStalledCyclesBackend
	PerfRefCPUCycles
	PerfTaskClock
	PerfPageFaults
	PerfContextSwitches
	PerfCPUMigrations
	PerfPageFaultsMinor
	PerfPageFaultsMajor
	PerfAlignmentFaults
	PerfEmulationFaults

	// Derived from the raw values above after a measurement ends.
	PerfInstructionsPerCPUCycleScaled
	PerfInstructionsPerCPUCycle

	// EventsEnd bounds the event table; not a real event.
	EventsEnd
)

var eventNames = [EventsEnd]string{
	PerfCPUCycles:             "perf_cpu_cycles",
	PerfInstructions:          "perf_instructions",
	PerfCacheReferences:       "perf_cache_references",
	PerfCacheMisses:           "perf_cache_misses",
	PerfBranchInstructions:    "perf_branch_instructions",
	PerfBranchMisses:          "perf_branch_misses",
	PerfBusCycles:             "perf_bus_cycles",
	PerfStalledCyclesFrontend: "perf_stalled_cycles_frontend",
	PerfStalledCyclesBackend:  "perf_stalled_cycles_backend",
	PerfRefCPUCycles:          "perf_ref_cpu_cycles",
	PerfTaskClock:             "perf_task_clock",
	PerfPageFaults:            "perf_page_faults",
	PerfContextSwitches:       "perf_context_switches",
	PerfCPUMigrations:         "perf_cpu_migrations",
	PerfPageFaultsMinor:       "perf_page_faults_minor",
	PerfPageFaultsMajor:       "perf_page_faults_major",
	PerfAlignmentFaults:       "perf_alignment_faults",
	PerfEmulationFaults:       "perf_emulation_faults",

	PerfInstructionsPerCPUCycleScaled: "perf_instructions_per_cpu_cycle_scaled",
	PerfInstructionsPerCPUCycle:       "perf_instructions_per_cpu_cycle",
}

// Name returns the snake_case name of an event, or "unknown" for out-of-range
// values.
func (e Event) Name() string {
	if e < 0 || e >= EventsEnd {
		return "unknown"
	}
	return eventNames[e]
}
