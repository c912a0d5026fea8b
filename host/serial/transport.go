package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"rbrhost/protocol"
)

// nativePort wraps tarm/serial's *serial.Port as a Port, opened against
// the RBR instrument's actual wire settings (see Config.Baud).
type nativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens cfg.Device with tarm/serial and returns it as a Port.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rbrhost/serial: config cannot be nil")
	}

	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("rbrhost/serial: opening %s: %w", cfg.Device, err)
	}

	return &nativePort{port: port, cfg: cfg}, nil
}

func (p *nativePort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *nativePort) Write(b []byte) (int, error) { return p.port.Write(b) }

func (p *nativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush is a no-op: tarm/serial doesn't expose a flush primitive, and
// Write already blocks until the OS has accepted every byte.
func (p *nativePort) Flush() error { return nil }

// Transport adapts an open Port into the four blocking operations the
// protocol package's Session needs (component C1). It translates the
// tarm/serial convention of a zero-byte, nil-error Read — "the
// configured ReadTimeout elapsed with nothing to deliver" — into
// protocol.ErrTimeout, since the core treats those as distinct.
type Transport struct {
	port Port
}

// NewTransport wraps an already-open Port for use as a protocol.Transport.
func NewTransport(port Port) *Transport {
	return &Transport{port: port}
}

func (t *Transport) Time() int64 {
	return time.Now().UnixMilli()
}

func (t *Transport) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (t *Transport) Read(buf []byte) (int, error) {
	n, err := t.port.Read(buf)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, protocol.ErrTimeout
	}
	return n, nil
}

func (t *Transport) Write(buf []byte) error {
	_, err := t.port.Write(buf)
	return err
}
