// Package workload provides synthetic units of CPU and memory work for the
// measured worker pool. A Unit is deliberately plain arithmetic over a scratch
// buffer so the performance counters observe the work itself, not the harness.
package workload

// Unit is one worker's reusable scratch work. Not safe for concurrent use;
// each worker owns its own Unit.
type Unit struct {
	buf []byte
	sum uint64
}

// NewUnit allocates a unit with a scratch buffer of sizeKB kibibytes.
func NewUnit(sizeKB int) *Unit {
	if sizeKB < 1 {
		sizeKB = 1
	}
	return &Unit{buf: make([]byte, sizeKB*1024)}
}

// Run performs one unit of work: a strided pass touching one byte per cache
// line followed by a data-dependent checksum over the whole buffer. The
// returned checksum keeps the compiler from eliding the work.
func (u *Unit) Run() uint64 {
	const stride = 64

	for i := 0; i < len(u.buf); i += stride {
		u.buf[i]++
	}

	var sum uint64
	for i, b := range u.buf {
		sum += uint64(b) * uint64(i|1)
	}
	u.sum = sum
	return sum
}
