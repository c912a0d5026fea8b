package protocol

import (
	"fmt"
	"time"
)

// sendCommand formats a command into the session's fixed command
// buffer, wakes the instrument if it has been idle, and writes the
// framed command to the transport (component C2).
//
// If the formatted command plus its trailing CRLF would not fit in the
// command buffer, ErrBufferTooSmall is returned and nothing is written.
func (s *Session) sendCommand(format string, args ...interface{}) error {
	cmd := fmt.Sprintf(format, args...)
	total := len(cmd) + 2
	if total > len(s.cmdBuf) {
		return ErrBufferTooSmall
	}

	n := copy(s.cmdBuf, cmd)
	s.cmdBuf[n] = '\r'
	s.cmdBuf[n+1] = '\n'
	buf := s.cmdBuf[:total]

	now := s.transport.Time()
	idle := time.Duration(now-s.lastActivity) * time.Millisecond
	if s.lastActivity == -1 || idle > s.cfg.WakeIdleThreshold {
		if err := s.wake(); err != nil {
			return err
		}
	}

	if err := s.transport.Write(buf); err != nil {
		return err
	}
	s.lastActivity = s.transport.Time()
	return nil
}

// wake emits the defensive double CRLF pulse (spec section 4.2) that
// exits the instrument's sleep mode and defeats conservative
// packetizing intermediaries sitting between host and instrument.
func (s *Session) wake() error {
	if err := s.transport.Write(crlf); err != nil {
		return err
	}
	s.transport.Sleep(s.cfg.WakeCooldown)
	return s.transport.Write(crlf)
}
