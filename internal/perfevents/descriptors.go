//go:build linux

package perfevents

import (
	"unsafe"

	"github.com/phuslu/log"
	"golang.org/x/sys/unix"
)

// Syscall seams, replaced by tests to simulate kernels where perf_event_open
// is denied, individual events are unsupported, or reads fail.
var (
	perfEventOpen   = unix.PerfEventOpen
	ioctlSetInt     = unix.IoctlSetInt
	readDescriptor  = unix.Read
	closeDescriptor = unix.Close
	readParanoid    = perfEventParanoid
	capSysAdmin     = hasCapSysAdmin
)

// descriptorsHolder owns one kernel descriptor per registry entry for a single
// thread. A slot holding -1 means the event is unsupported on this thread and
// is never retried.
type descriptorsHolder struct {
	fds [NumberOfRawEvents]int
}

// openAll opens one disabled counter per registry entry, scoped to the calling
// thread on any CPU. A failed open marks its slot unsupported without
// aborting the remaining opens. When logUnsupported is false the per-event
// notices are suppressed (another thread already claimed them).
func (h *descriptorsHolder) openAll(paranoid int32, hasCapability bool, logUnsupported bool, plog log.Logger) {
	// Recording kernel-side counts needs paranoid <= 1 or CAP_SYS_ADMIN.
	excludeKernel := paranoid >= 2 && !hasCapability

	for i := range rawEventsInfo {
		info := &rawEventsInfo[i]

		attr := unix.PerfEventAttr{
			Type:   info.Type,
			Config: info.Config,
			Size:   uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
			// Disabled by default to add as little time as possible to the
			// measured work; Begin enables explicitly.
			Bits: unix.PerfBitDisabled,
		}
		if excludeKernel {
			attr.Bits |= unix.PerfBitExcludeKernel
		}

		fd, err := perfEventOpen(&attr, 0 /* calling thread */, -1 /* any cpu */, -1, unix.PERF_FLAG_FD_CLOEXEC)
		if err != nil {
			h.fds[i] = -1
			if logUnsupported {
				plog.Info().
					Uint32("event_type", info.Type).
					Uint64("event_config", info.Config).
					Err(err).
					Msg("Perf event is unsupported")
			}
			continue
		}
		h.fds[i] = fd
	}
}

// release disables and closes every open descriptor. Errors are logged, never
// surfaced; the slot is cleared either way.
func (h *descriptorsHolder) release(plog log.Logger) {
	for i, fd := range h.fds {
		if fd == -1 {
			continue
		}

		if err := ioctlSetInt(fd, unix.PERF_EVENT_IOC_DISABLE, 0); err != nil {
			plog.Warn().Int("fd", fd).Err(err).Msg("Can't disable perf event")
		}
		if err := closeDescriptor(fd); err != nil {
			plog.Warn().Int("fd", fd).Err(err).Msg("Can't close perf event descriptor")
		}
		h.fds[i] = -1
	}
}
