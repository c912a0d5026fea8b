package protocol

import (
	"fmt"
	"strings"
)

const invalidCommandCode = 102
const invalidCommandPrefix = "invalid command '"

// Command sends one command and waits for its matching reply (component
// C7), diverting intervening sample lines to the sample sink and
// retrying once on the garbage-prefix "invalid command" case. On
// success, LastResponse and Parameters describe the reply. This is the
// entry point every per-feature operation (clock, channels, schedule,
// ...) is built on; the core package intentionally does not know what
// any particular command means.
func (s *Session) Command(format string, args ...interface{}) error {
	return s.converse(format, args...)
}

// converse performs one full command round-trip (component C7): format
// and write the command, then read responses until one matches,
// diverting intervening samples to the sample sink and retrying once
// when the instrument reports our command as invalid because of
// serial-line garbage that preceded it in its receive buffer.
func (s *Session) converse(format string, args ...interface{}) error {
	cmd := fmt.Sprintf(format, args...)
	expectedTag := firstWord(cmd)
	if s.Generation() == GenerationL2 && expectedTag == "read" {
		expectedTag = "data"
	}

	retried := false
	for {
		if err := s.sendCommand(format, args...); err != nil {
			return err
		}

		resend := false
		for !resend {
			if _, err := s.nextEvent(false); err != nil {
				return err
			}

			if s.kind == KindError {
				if s.errorCode == invalidCommandCode {
					if arg, ok := parseInvalidCommandArg(s.text); ok {
						switch {
						case arg == cmd:
							// The instrument saw exactly our command and
							// rejected it: a real user error.
							return &HardwareError{Code: s.errorCode, Message: string(s.text)}
						case strings.HasSuffix(arg, cmd) && !retried:
							// Garbage sat in the receive buffer ahead of
							// our bytes; resend once.
							retried = true
							resend = true
							continue
						case strings.HasSuffix(arg, cmd):
							// Already used our one retry; treat a repeat
							// garbage-prefix report as a real failure.
							return &HardwareError{Code: s.errorCode, Message: string(s.text)}
						default:
							// Invalid-command report for someone else's
							// command; not ours, keep reading.
							continue
						}
					}
					if s.Trace != nil {
						s.Trace.WriteString("converse: invalid-command message did not quote the command as expected; no retry attempted\n")
					}
				}
				return &HardwareError{Code: s.errorCode, Message: string(s.text)}
			}

			if cur := s.Parameters(); cur != nil && cur.Command() == expectedTag {
				return nil
			}
			// Unrelated response (warning/info for some other command);
			// keep reading.
		}
	}
}

// parseInvalidCommandArg extracts the single-quoted argument out of an
// "invalid command '<arg>'" message body, or reports ok=false if the
// message doesn't match that exact quoting (spec section 9, second open
// question).
func parseInvalidCommandArg(text []byte) (string, bool) {
	s := string(text)
	if !strings.HasPrefix(s, invalidCommandPrefix) {
		return "", false
	}
	rest := s[len(invalidCommandPrefix):]
	if !strings.HasSuffix(rest, "'") {
		return "", false
	}
	return rest[:len(rest)-1], true
}

// firstWord returns the text up to the first space, or the whole string
// if it contains none.
func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
