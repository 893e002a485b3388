//go:build linux

package perfevents

import (
	"github.com/phuslu/log"
	"golang.org/x/sys/unix"

	"perf_exporter/internal/profileevents"
)

// EventDescriptor maps one raw kernel event to the profile event it reports as.
type EventDescriptor struct {
	Type   uint32
	Config uint64
	Metric profileevents.Event
}

func hardwareEvent(config uint64, metric profileevents.Event) EventDescriptor {
	return EventDescriptor{Type: unix.PERF_TYPE_HARDWARE, Config: config, Metric: metric}
}

func softwareEvent(config uint64, metric profileevents.Event) EventDescriptor {
	return EventDescriptor{Type: unix.PERF_TYPE_SOFTWARE, Config: config, Metric: metric}
}

// rawEventsInfo is the event registry. Order defines the correspondence
// between registry index, descriptor slot and raw-value slot.
// Event semantics: http://man7.org/linux/man-pages/man2/perf_event_open.2.html
var rawEventsInfo = [NumberOfRawEvents]EventDescriptor{
	hardwareEvent(unix.PERF_COUNT_HW_CPU_CYCLES, profileevents.PerfCPUCycles),
	hardwareEvent(unix.PERF_COUNT_HW_INSTRUCTIONS, profileevents.PerfInstructions),
	hardwareEvent(unix.PERF_COUNT_HW_CACHE_REFERENCES, profileevents.PerfCacheReferences),
	hardwareEvent(unix.PERF_COUNT_HW_CACHE_MISSES, profileevents.PerfCacheMisses),
	hardwareEvent(unix.PERF_COUNT_HW_BRANCH_INSTRUCTIONS, profileevents.PerfBranchInstructions),
	hardwareEvent(unix.PERF_COUNT_HW_BRANCH_MISSES, profileevents.PerfBranchMisses),
	hardwareEvent(unix.PERF_COUNT_HW_BUS_CYCLES, profileevents.PerfBusCycles),
	hardwareEvent(unix.PERF_COUNT_HW_STALLED_CYCLES_FRONTEND, profileevents.PerfStalledCyclesFrontend),
	hardwareEvent(unix.PERF_COUNT_HW_STALLED_CYCLES_BACKEND, profileevents.PerfStalledCyclesBackend),
	hardwareEvent(unix.PERF_COUNT_HW_REF_CPU_CYCLES, profileevents.PerfRefCPUCycles),
	// PERF_COUNT_SW_CPU_CLOCK is skipped: it reports the per-CPU timer, which
	// is misleading for a counter scoped to a single thread.
	softwareEvent(unix.PERF_COUNT_SW_TASK_CLOCK, profileevents.PerfTaskClock),
	softwareEvent(unix.PERF_COUNT_SW_PAGE_FAULTS, profileevents.PerfPageFaults),
	softwareEvent(unix.PERF_COUNT_SW_CONTEXT_SWITCHES, profileevents.PerfContextSwitches),
	softwareEvent(unix.PERF_COUNT_SW_CPU_MIGRATIONS, profileevents.PerfCPUMigrations),
	softwareEvent(unix.PERF_COUNT_SW_PAGE_FAULTS_MIN, profileevents.PerfPageFaultsMinor),
	softwareEvent(unix.PERF_COUNT_SW_PAGE_FAULTS_MAJ, profileevents.PerfPageFaultsMajor),
	softwareEvent(unix.PERF_COUNT_SW_ALIGNMENT_FAULTS, profileevents.PerfAlignmentFaults),
	softwareEvent(unix.PERF_COUNT_SW_EMULATION_FAULTS, profileevents.PerfEmulationFaults),
}

// RawValue returns the collected value for the registry entry matching the
// given event type and config, or 0 when no such entry exists.
func (c *Counters) RawValue(eventType uint32, eventConfig uint64) uint64 {
	for i := range rawEventsInfo {
		info := &rawEventsInfo[i]
		if info.Type == eventType && info.Config == eventConfig {
			return c.rawValues[i]
		}
	}

	log.Warn().
		Uint32("event_type", eventType).
		Uint64("event_config", eventConfig).
		Msg("No registry entry for requested perf event")
	return 0
}
