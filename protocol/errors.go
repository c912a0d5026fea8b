package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the result taxonomy of spec section 7. Hardware
// errors are not in this set: they carry a numeric code and message and
// are represented by *HardwareError instead, matched with errors.As.
var (
	// ErrBufferTooSmall is returned when a formatted command (plus its
	// trailing CRLF) would not fit in the session's command buffer. No
	// bytes are written to the transport when this is returned.
	ErrBufferTooSmall = errors.New("rbrhost: buffer too small")

	// ErrMissingCallback is returned by Open when a required transport
	// callback was not supplied.
	ErrMissingCallback = errors.New("rbrhost: missing transport callback")

	// ErrCallbackError names a failure of a user-supplied transport
	// callback (Read, Write or Sleep). The Session itself never returns
	// it: errors from transport callbacks are propagated unchanged.
	ErrCallbackError = errors.New("rbrhost: callback error")

	// ErrTimeout is returned when a transport read timed out, or when
	// the whole-command deadline (SessionConfig.CommandTimeout) elapsed
	// before a matching response arrived.
	ErrTimeout = errors.New("rbrhost: timeout")

	// ErrUnsupported is returned when the instrument or command is not
	// supported by this library, including a non-timeout failure of
	// the identity query during Open.
	ErrUnsupported = errors.New("rbrhost: unsupported")

	// ErrChecksumError is returned when the CRC-16/CCITT trailer of a
	// data-read payload does not match the computed checksum.
	ErrChecksumError = errors.New("rbrhost: checksum error")

	// ErrInvalidParameterValue is returned when a caller-supplied
	// argument is out of range, detected before any I/O where possible.
	ErrInvalidParameterValue = errors.New("rbrhost: invalid parameter value")
)

// HardwareError represents an Ennnn response from the instrument (C5).
// It is a recoverable, per-command failure: the session remains healthy
// and the next command may proceed.
type HardwareError struct {
	Code    int    // four-digit hardware error number, e.g. 102 for E0102
	Message string // human-readable text following the code
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("rbrhost: hardware error E%04d: %s", e.Code, e.Message)
}
