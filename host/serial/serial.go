package serial

import (
	"io"
)

// Port represents a serial port interface. This abstraction allows for
// different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate. RBR instruments answer at 115200 over their USB CDC
	// port regardless of what is requested, but RS-232 variants honor
	// this.
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns a default configuration for an RBR instrument.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 200, // character-level timeout, well inside protocol.SessionConfig's 10 s command budget
	}
}
