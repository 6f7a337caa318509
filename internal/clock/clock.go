// Package clock provides the single monotonic time source shared by the
// scheduler, the responder, and the receive queue within one process.
// Go's time.Time retains a monotonic reading when constructed by
// time.Now(), and time.Since subtracts using that reading rather than
// wall-clock, so measuring elapsed time since a fixed process-start
// instant gives the same guarantees as Python's time.monotonic_ns():
// immune to wall-clock adjustments, but only meaningful within this
// process (never compared across the Simulator/Hardware boundary).
package clock

import "time"

var epoch = time.Now()

// NowNs returns monotonic nanoseconds elapsed since this package was
// initialized.
func NowNs() int64 {
	return int64(time.Since(epoch))
}
