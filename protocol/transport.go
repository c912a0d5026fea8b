package protocol

import "time"

// Transport is the set of blocking operations a caller must supply to
// converse with an instrument over an opaque byte-oriented channel
// (spec section 4.1, component C1). A Session never constructs its own
// transport; it is handed one at Open and calls these four operations
// exclusively from the caller's own goroutine, which is also the
// library's only suspension point (spec section 5).
type Transport interface {
	// Time returns a monotonic millisecond clock. Must be monotonic and
	// non-negative; used only to measure elapsed time, never wall time.
	Time() int64

	// Sleep blocks for at least the given duration.
	Sleep(d time.Duration)

	// Read blocks until at least one byte is available or a
	// caller-defined character timeout elapses, then copies whatever is
	// available into buf and returns the number of bytes written. A
	// character-timeout with nothing available returns (0, ErrTimeout).
	// Read never returns (0, nil).
	Read(buf []byte) (n int, err error)

	// Write blocks until all of buf has been written or a caller-defined
	// timeout elapses.
	Write(buf []byte) error
}
