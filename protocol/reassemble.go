package protocol

import (
	"bytes"
)

const readyPrefix = "Ready: "

// readLine fills the response buffer until a "\r\n" terminator appears,
// bounded by the session's whole-command timeout (component C3). It
// returns the parsable response body: leading whitespace and any
// repeated "Ready: " prompt prefixes stripped, terminated just before
// where the "\r" stood.
//
// Eviction of the previous response is performed here, at the start of
// the next read, rather than when that response was classified — this
// is what lets C6's parameter cursor keep slice pointers into the
// response buffer for the lifetime of the response it is iterating
// (spec section 4.3).
func (s *Session) readLine() ([]byte, error) {
	if s.lastResponseLen > 0 {
		s.resp.Evict(s.lastResponseLen)
		s.lastResponseLen = 0
	}

	start := s.transport.Time()

	for {
		if idx := s.resp.IndexCRLF(); idx >= 0 {
			return s.terminate(idx), nil
		}

		if s.transport.Time()-start > s.cfg.CommandTimeout.Milliseconds() {
			return nil, ErrTimeout
		}

		if s.resp.Full() {
			// Protocol desync recovery: no terminator fits in the whole
			// buffer, so it can never be found. Discard everything and
			// keep reading (spec section 4.3, step 3).
			s.resp.Reset()
			continue
		}

		if _, err := s.resp.Fill(s.transport); err != nil {
			if err == ErrTimeout {
				continue
			}
			return nil, err
		}
	}
}

// terminate finalizes the response ending at the "\r\n" found at crlfIdx
// within s.resp.Data(), and returns its parsable body.
func (s *Session) terminate(crlfIdx int) []byte {
	data := s.resp.Data()
	data[crlfIdx] = 0 // overwrite '\r' with '\0', per the buffer invariant of spec section 3
	s.lastResponseLen = crlfIdx + 2

	body := data[:crlfIdx]
	i := 0
	for i < len(body) && isASCIISpace(body[i]) {
		i++
	}
	for bytes.HasPrefix(body[i:], []byte(readyPrefix)) {
		i += len(readyPrefix)
	}
	return body[i:]
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// nextEvent reads and processes one response (components C3, C4, C5):
// it reads a line, and if it recognizes a streamed sample it invokes
// the sample sink and reports isSample=true; otherwise it classifies
// the response (populating Session.kind/errorCode/warnCode/text) and
// reports isSample=false. When breakOnSample is true, a recognized
// sample is returned immediately instead of looping to read the next
// line ("break-on-sample" mode). The converse loop (C7) always calls
// it with breakOnSample false.
func (s *Session) nextEvent(breakOnSample bool) (isSample bool, err error) {
	for {
		body, err := s.readLine()
		if err != nil {
			return false, err
		}

		if parseSample(body, &s.sampleScratch, s.cfg.ChannelMax) {
			if s.sink != nil {
				s.sink(&s.sampleScratch)
			}
			if breakOnSample {
				return true, nil
			}
			continue
		}

		s.classify(body)
		return false, nil
	}
}
