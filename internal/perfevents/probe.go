//go:build linux

package perfevents

import (
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// paranoidPath is a variable so tests can point it at a fixture.
var paranoidPath = "/proc/sys/kernel/perf_event_paranoid"

// perfEventParanoid reads the kernel policy level restricting who may open
// performance counters. A higher level is more restrictive. An unreadable or
// unparseable file reports not ok, which callers treat as "counters
// unavailable".
func perfEventParanoid() (int32, bool) {
	f, err := os.Open(paranoidPath)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	// The longest valid content is "-1\n"; 3 bytes are enough.
	var buf [3]byte
	n, err := f.Read(buf[:])
	if n == 0 || (err != nil && err != io.EOF) {
		return 0, false
	}

	value, err := strconv.ParseInt(strings.TrimSpace(string(buf[:n])), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(value), true
}

// hasCapSysAdmin reports whether the process holds CAP_SYS_ADMIN in its
// effective capability set. CAP_SYS_ADMIN bypasses the perf_event_paranoid
// restrictions entirely.
func hasCapSysAdmin() bool {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return false
	}
	// CAP_SYS_ADMIN is capability 21, so it lives in the first 32-bit word.
	return data[0].Effective&(1<<unix.CAP_SYS_ADMIN) != 0
}
