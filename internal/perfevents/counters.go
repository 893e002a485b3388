//go:build linux

package perfevents

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/phuslu/log"
	"golang.org/x/sys/unix"

	"perf_exporter/internal/logger"
	"perf_exporter/internal/maps"
	"perf_exporter/internal/profileevents"
)

// Process-wide claim-once flags so each degradation notice is logged exactly
// once no matter how many threads race to discover it.
var (
	perfUnavailabilityLogged             atomic.Bool
	particularEventsUnavailabilityLogged atomic.Bool
)

// threadState is the per-thread singleton: descriptor holder, the lazily-set
// opened flag and the marker for the session currently measuring on the
// thread. Only the owning thread ever touches it, so it needs no lock.
type threadState struct {
	holder descriptorsHolder
	opened bool
	active *Counters
}

func newThreadState() *threadState {
	st := &threadState{}
	for i := range st.holder.fds {
		st.holder.fds[i] = -1
	}
	return st
}

// Profiler owns the per-thread measurement state, keyed by kernel thread id.
// Begin and End never return an error: any failure degrades to zeroed metrics
// plus a log line so measurement can never destabilize the measured work.
type Profiler struct {
	threads maps.ConcurrentMap[int32, *threadState]
	log     log.Logger
}

// NewProfiler creates a profiler. One instance serves the whole process; the
// callers' threads share nothing but the map they are registered in.
func NewProfiler() *Profiler {
	return &Profiler{
		threads: maps.NewConcurrentMap[int32, *threadState](),
		log:     logger.NewLoggerWithContext("perf-counters"),
	}
}

func (p *Profiler) state() *threadState {
	tid := int32(unix.Gettid())
	st, _ := p.threads.LoadOrStore(tid, newThreadState)
	return st
}

// Begin starts measuring c on the calling thread: descriptors are opened
// lazily on the thread's first measurement, the session's raw values are
// cleared and every supported counter is enabled. At most one session can be
// measuring per thread; a Begin with a different session while one is active
// is logged and ignored.
func (p *Profiler) Begin(c *Counters) {
	st := p.state()

	if st.active == c {
		return
	}
	if st.active != nil {
		p.log.Warn().Msg("Only one counters session can be measuring on a thread")
		return
	}

	if !p.openThreadDescriptors(st) {
		return
	}

	for i := range c.rawValues {
		c.rawValues[i] = 0
	}

	for _, fd := range st.holder.fds {
		if fd == -1 {
			continue
		}
		if err := ioctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0); err != nil {
			p.log.Warn().Int("fd", fd).Err(err).Msg("Can't enable perf event")
		}
	}

	st.active = c
}

// openThreadDescriptors lazily opens the thread's descriptors, probing the
// kernel policy first. It reports whether measurement may proceed.
func (p *Profiler) openThreadDescriptors(st *threadState) bool {
	if st.opened {
		return true
	}

	paranoid, ok := readParanoid()
	if !ok {
		if perfUnavailabilityLogged.CompareAndSwap(false, true) {
			p.log.Info().Msg("Perf events are unsupported")
		}
		return false
	}

	hasCapability := capSysAdmin()
	if paranoid >= 3 && !hasCapability {
		if perfUnavailabilityLogged.CompareAndSwap(false, true) {
			p.log.Info().
				Int("paranoid", int(paranoid)).
				Msg("Not enough permissions to record perf events")
		}
		return false
	}

	logUnsupported := particularEventsUnavailabilityLogged.CompareAndSwap(false, true)
	st.holder.openAll(paranoid, hasCapability, logUnsupported, p.log)
	st.opened = true
	return true
}

// End finishes measuring c: raw counts are drained into the session, every
// raw value plus the derived metrics are forwarded to sink, and the
// descriptors are disabled and reset for the next session. Ending a session
// that is not the thread's active one is a no-op.
func (p *Profiler) End(c *Counters, sink profileevents.Sink) {
	tid := int32(unix.Gettid())
	st, ok := p.threads.Load(tid)
	if !ok || st.active != c {
		return
	}
	if !st.opened {
		return
	}

	// Only read here, to keep the tail overhead on the measured work small.
	var buf [8]byte
	for i, fd := range st.holder.fds {
		if fd == -1 {
			continue
		}
		n, err := readDescriptor(fd, buf[:])
		if err != nil || n != len(buf) {
			p.log.Warn().Int("fd", fd).Err(err).Msg("Can't read perf event value")
			c.rawValues[i] = 0
			continue
		}
		c.rawValues[i] = binary.NativeEndian.Uint64(buf[:])
	}

	// Report the values and stop measuring.
	for i, fd := range st.holder.fds {
		if fd == -1 {
			continue
		}

		sink.Increment(rawEventsInfo[i].Metric, c.rawValues[i])

		if err := ioctlSetInt(fd, unix.PERF_EVENT_IOC_DISABLE, 0); err != nil {
			p.log.Warn().Int("fd", fd).Err(err).Msg("Can't disable perf event")
		}
		if err := ioctlSetInt(fd, unix.PERF_EVENT_IOC_RESET, 0); err != nil {
			p.log.Warn().Int("fd", fd).Err(err).Msg("Can't reset perf event")
		}
	}

	// Derived metrics from the already-collected raw values. The "scaled"
	// variant divides by core clock cycles, the plain one by the reference
	// (fixed-frequency) cycle counter.
	cycles := c.RawValue(unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_CPU_CYCLES)
	refCycles := c.RawValue(unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_REF_CPU_CYCLES)
	instructions := c.RawValue(unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_INSTRUCTIONS)

	var ipcScaled, ipc uint64
	if cycles != 0 {
		ipcScaled = instructions / cycles
	}
	if refCycles != 0 {
		ipc = instructions / refCycles
	}
	sink.Increment(profileevents.PerfInstructionsPerCPUCycleScaled, ipcScaled)
	sink.Increment(profileevents.PerfInstructionsPerCPUCycle, ipc)

	st.active = nil
}

// ReleaseThread returns the calling thread's kernel descriptors and forgets
// its state. Pinned workers call it before unlocking their OS thread; a thread
// that exits without calling it keeps its descriptors until process exit, so
// the release discipline is best-effort by contract.
func (p *Profiler) ReleaseThread() {
	tid := int32(unix.Gettid())
	st, ok := p.threads.LoadAndDelete(tid)
	if !ok {
		return
	}
	st.active = nil
	st.opened = false
	st.holder.release(p.log)
}
