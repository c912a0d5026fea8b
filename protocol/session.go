// Package protocol implements the host-side session, parser, and
// chunked data reader for conversing with Logger2/Logger3 oceanographic
// instruments over an opaque byte-oriented transport.
package protocol

import (
	"time"

	"rbrhost/protocol/dialect"
)

// Generation re-exports dialect.Generation so callers of Session never
// need to import the dialect package directly for the common case of
// inspecting which generation a Session connected to.
type Generation = dialect.Generation

const (
	GenerationUnknown = dialect.Unknown
	GenerationL2      = dialect.L2
	GenerationL3      = dialect.L3
)

// ResponseKind classifies the most recently terminated, non-sample
// response (component C5).
type ResponseKind int

const (
	KindNone ResponseKind = iota
	KindInfo
	KindWarning
	KindError
)

// SessionConfig holds the tunables of spec section 3 and section 9's
// "parameterize the wake heuristic" note. DefaultSessionConfig matches
// the defaults spec.md gives for each field.
type SessionConfig struct {
	// ChannelMax bounds the number of readings a Sample can carry.
	ChannelMax int

	// CommandBufferSize is the capacity of the fixed outbound command
	// buffer, including the trailing CRLF.
	CommandBufferSize int

	// ResponseBufferSize is the capacity of the fixed sliding response
	// buffer.
	ResponseBufferSize int

	// CommandTimeout bounds the whole-command read in the line
	// reassembler (component C3).
	CommandTimeout time.Duration

	// WakeIdleThreshold is the idle duration after which the command
	// framer (C2) emits a wake sequence before writing a command.
	WakeIdleThreshold time.Duration

	// WakeCooldown is the sleep between the two pulses of a wake
	// sequence.
	WakeCooldown time.Duration
}

// DefaultSessionConfig returns the configuration spec section 3 and
// section 6 describe as the defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ChannelMax:         32,
		CommandBufferSize:  120,
		ResponseBufferSize: 1024,
		CommandTimeout:     10 * time.Second,
		WakeIdleThreshold:  10 * time.Second,
		WakeCooldown:       50 * time.Millisecond,
	}
}

// SampleSink receives samples recognized while a command reply is
// pending (component C4). Implementations should copy out whatever
// fields of Sample they need before returning: the Sample passed in is
// reused by the Session on the next call.
type SampleSink func(*Sample)

// Session is one logical connection to an instrument (spec section 3).
// It is not safe for concurrent use; two Sessions over independent
// transports may be used from independent goroutines without
// coordination (spec section 5).
type Session struct {
	transport Transport
	cfg       SessionConfig
	dialect   dialect.Dialect
	identity  Identity

	cmdBuf []byte // fixed capacity cfg.CommandBufferSize
	resp   *responseBuffer

	lastActivity    int64 // monotonic ms; -1 sentinel = no activity yet
	lastResponseLen int   // bytes, including terminator, consumed by the most recent response

	// Most recently classified response (component C5). text aliases
	// into resp's underlying array and is valid only until the next
	// readLine call.
	kind      ResponseKind
	errorCode int // hardware error code, 0 when none
	warnCode  int // warning code, 0 when none
	text      []byte
	hasText   bool

	sink SampleSink
	sampleScratch Sample

	// UserData is an arbitrary caller-owned pointer, unused by the
	// Session itself.
	UserData interface{}

	// Trace, if non-nil, receives one line whenever the converse loop
	// (C7) falls back from the garbage-prefix retry to a single
	// attempt because the instrument's error message didn't quote the
	// command the way spec section 9's second open question expects.
	// Nil by default: no behavior or dependency changes.
	Trace interface{ WriteString(string) (int, error) }
}

// Open creates a Session over the given transport, using cfg (or
// DefaultSessionConfig's zero-value fallbacks for any zero field), and
// runs generation detection (component C10).
func Open(t Transport, cfg SessionConfig) (*Session, error) {
	if t == nil {
		return nil, ErrMissingCallback
	}
	cfg = fillDefaults(cfg)

	s := &Session{
		transport:    t,
		cfg:          cfg,
		dialect:      dialect.L3Dialect, // provisional, until identity resolves it
		cmdBuf:       make([]byte, cfg.CommandBufferSize),
		resp:         newResponseBuffer(cfg.ResponseBufferSize),
		lastActivity: -1,
	}
	s.sampleScratch.Readings = make([]float64, cfg.ChannelMax)

	id, err := s.getIdentity()
	if err != nil {
		return nil, err
	}
	s.identity = id
	s.dialect = dialect.Detect(id.FirmwareType)

	return s, nil
}

// Identity returns the instrument identity resolved during Open.
func (s *Session) Identity() Identity { return s.identity }

// Close releases the Session's state. The transport is caller-owned
// and is never closed here.
func (s *Session) Close() error {
	s.resp.Reset()
	s.lastResponseLen = 0
	s.kind = KindNone
	return nil
}

func fillDefaults(cfg SessionConfig) SessionConfig {
	d := DefaultSessionConfig()
	if cfg.ChannelMax <= 0 {
		cfg.ChannelMax = d.ChannelMax
	}
	if cfg.CommandBufferSize <= 0 {
		cfg.CommandBufferSize = d.CommandBufferSize
	}
	if cfg.ResponseBufferSize <= 0 {
		cfg.ResponseBufferSize = d.ResponseBufferSize
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = d.CommandTimeout
	}
	if cfg.WakeIdleThreshold <= 0 {
		cfg.WakeIdleThreshold = d.WakeIdleThreshold
	}
	if cfg.WakeCooldown <= 0 {
		cfg.WakeCooldown = d.WakeCooldown
	}
	return cfg
}

// Generation returns the dialect generation resolved at Open.
func (s *Session) Generation() Generation { return s.dialect.Generation }

// SetSampleSink installs (or clears, with nil) the callback invoked by
// the sample recognizer (component C4) whenever a streamed sample line
// arrives while a command reply is pending.
func (s *Session) SetSampleSink(sink SampleSink) { s.sink = sink }

// LastResponse reports the classification of the most recently
// terminated response (component C5): kind, and the hardware error or
// warning code (0 when not applicable).
func (s *Session) LastResponse() (kind ResponseKind, code int) {
	switch s.kind {
	case KindError:
		return s.kind, s.errorCode
	case KindWarning:
		return s.kind, s.warnCode
	default:
		return s.kind, 0
	}
}

// responseText returns the parsable body of the most recently
// classified response, or nil if there is none.
func (s *Session) responseText() []byte {
	if !s.hasText {
		return nil
	}
	return s.text
}
