// Package rbr provides thin, feature-scoped wrappers around a protocol
// Session for the handful of instrument feature areas a typical caller
// touches: identity, clock, channels, configuration verification, and
// dataset download. The protocol package intentionally has no notion
// of what any of these commands mean; this package is the mechanical
// consumer of its parser.
package rbr

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"rbrhost/host/serial"
	"rbrhost/protocol"
)

// Instrument is a connected RBR Logger2/Logger3 instrument.
type Instrument struct {
	session *protocol.Session
	port    serial.Port
}

// Connect opens device at its default serial configuration and
// establishes a session over it.
func Connect(device string) (*Instrument, error) {
	return ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a serial port with cfg and establishes a
// protocol session over it, resolving the instrument's identity and
// dialect.
func ConnectWithConfig(cfg *serial.Config) (*Instrument, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("rbr: opening serial port: %w", err)
	}

	session, err := protocol.Open(serial.NewTransport(port), protocol.DefaultSessionConfig())
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("rbr: opening session: %w", err)
	}

	return &Instrument{session: session, port: port}, nil
}

// Close releases the session and the underlying serial port.
func (i *Instrument) Close() error {
	i.session.Close()
	return i.port.Close()
}

// ID returns the instrument identity resolved at Connect.
func (i *Instrument) ID() protocol.Identity {
	return i.session.Identity()
}

// Generation returns the dialect generation resolved at Connect.
func (i *Instrument) Generation() protocol.Generation {
	return i.session.Generation()
}

// SetSampleSink installs (or clears, with nil) the callback invoked
// whenever a sample line is recognized while a command reply is
// pending.
func (i *Instrument) SetSampleSink(sink protocol.SampleSink) {
	i.session.SetSampleSink(sink)
}

// GetClock reads the instrument's onboard real-time clock.
func (i *Instrument) GetClock() (time.Time, error) {
	if err := i.session.Command("clock"); err != nil {
		return time.Time{}, err
	}

	cur := i.session.Parameters()
	for {
		p, ok := cur.Next()
		if !ok {
			break
		}
		if p.Key != "time" {
			continue
		}
		ms, err := strconv.ParseInt(p.Value, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("rbr: parsing clock time %q: %w", p.Value, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("rbr: clock response carried no time parameter")
}

// SetClock sets the instrument's onboard clock to t.
func (i *Instrument) SetClock(t time.Time) error {
	return i.session.Command("clock time = %d", t.UTC().UnixMilli())
}

// Channels describes the instrument's current channel configuration
// (spec section 8, end-to-end scenario 6).
type Channels struct {
	Count        int
	On           int
	SettlingTime int
	ReadTime     int
	MinPeriod    int
}

// GetChannels reads the instrument's channel configuration.
func (i *Instrument) GetChannels() (Channels, error) {
	if err := i.session.Command("channels"); err != nil {
		return Channels{}, err
	}

	var c Channels
	cur := i.session.Parameters()
	for {
		p, ok := cur.Next()
		if !ok {
			break
		}
		n, _ := strconv.Atoi(p.Value)
		switch p.Key {
		case "count":
			c.Count = n
		case "on":
			c.On = n
		case "settlingtime":
			c.SettlingTime = n
		case "readtime":
			c.ReadTime = n
		case "minperiod":
			c.MinPeriod = n
		}
	}
	return c, nil
}

// SetChannels enables exactly the first n channels.
func (i *Instrument) SetChannels(n int) error {
	return i.session.Command("channels on = %d", n)
}

// Verify asks the instrument to validate its current configuration. It
// returns the reported status and, when the instrument attached a
// warning (spec section 4.5), the warning code; 0 otherwise.
func (i *Instrument) Verify() (status string, warningCode int, err error) {
	if err = i.session.Command("verify"); err != nil {
		return "", 0, err
	}
	if kind, code := i.session.LastResponse(); kind == protocol.KindWarning {
		warningCode = code
	}

	cur := i.session.Parameters()
	for {
		p, ok := cur.Next()
		if !ok {
			break
		}
		if p.Key == "status" {
			status = p.Value
		}
	}
	return status, warningCode, nil
}

// ReadDataset downloads an entire dataset, starting at startOffset, in
// chunkSize-byte pages, writing each page to w as it arrives (component
// C8). It stops at the instrument's end of data: a page shorter than
// requested, or empty. The returned int is the total number of bytes
// written.
func (i *Instrument) ReadDataset(dataset, startOffset, chunkSize int, w io.Writer) (int, error) {
	buf := make([]byte, chunkSize)
	offset := startOffset
	total := 0

	for {
		res, err := i.session.ReadData(protocol.DataRequest{
			Dataset: dataset,
			Size:    chunkSize,
			Offset:  offset,
			Buffer:  buf,
		})
		if err != nil {
			return total, fmt.Errorf("rbr: reading dataset %d at offset %d: %w", dataset, offset, err)
		}
		if res.Size == 0 {
			return total, nil
		}
		if _, err := w.Write(buf[:res.Size]); err != nil {
			return total, fmt.Errorf("rbr: writing dataset %d: %w", dataset, err)
		}

		total += res.Size
		offset += res.Size
		if res.Size < chunkSize {
			return total, nil
		}
	}
}
