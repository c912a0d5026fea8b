package protocol

import (
	"bytes"
	"strconv"
)

const warningSuffixMarker = ", warning = W"

// classify inspects a terminated, non-sample response body and
// populates the session's kind/errorCode/warnCode/text fields
// (component C5).
func (s *Session) classify(body []byte) {
	s.errorCode, s.warnCode = 0, 0
	if code, message, ok := parseErrorPrefix(body); ok {
		if s.dialect.IsWarningRewrite(code) {
			s.kind = KindWarning
			s.warnCode = code
			s.text = rewriteL2Message(message)
			s.hasText = true
			return
		}
		s.kind = KindError
		s.errorCode = code
		s.text = message
		s.hasText = true
		return
	}

	if rest, code, ok := stripWarningSuffix(body); ok {
		s.kind = KindWarning
		s.warnCode = code
		s.text = rest
		s.hasText = true
		return
	}

	s.kind = KindInfo
	s.text = body
	s.hasText = true
}

// parseErrorPrefix recognizes an "Ennnn message" prefix: the first
// byte is 'E' and the next four bytes are decimal digits forming the
// hardware error code; the message text begins at byte 6 (spec
// section 4.5).
func parseErrorPrefix(body []byte) (code int, message []byte, ok bool) {
	if len(body) < 6 || body[0] != 'E' {
		return 0, nil, false
	}
	digits := body[1:5]
	for _, d := range digits {
		if d < '0' || d > '9' {
			return 0, nil, false
		}
	}
	code, _ = strconv.Atoi(string(digits))
	if body[5] != ' ' {
		return 0, nil, false
	}
	return code, body[6:], true
}

// rewriteL2Message implements the L2 "error is really a warning"
// rewrite: the real command response begins just past the leading ','
// or '\'' in the message text (spec section 4.5).
func rewriteL2Message(message []byte) []byte {
	idx := bytes.IndexAny(message, ",'")
	if idx < 0 {
		return message
	}
	rest := message[idx+1:]
	for len(rest) > 0 && isASCIISpace(rest[0]) {
		rest = rest[1:]
	}
	return rest
}

// stripWarningSuffix recognizes the L3 ", warning = Wnnnn" suffix
// immediately before the terminator and returns the body with the
// suffix truncated off, plus the decoded warning code.
func stripWarningSuffix(body []byte) (rest []byte, code int, ok bool) {
	idx := bytes.LastIndex(body, []byte(warningSuffixMarker))
	if idx < 0 {
		return nil, 0, false
	}
	digits := body[idx+len(warningSuffixMarker):]
	if len(digits) != 4 {
		return nil, 0, false
	}
	for _, d := range digits {
		if d < '0' || d > '9' {
			return nil, 0, false
		}
	}
	code, _ = strconv.Atoi(string(digits))
	return body[:idx], code, true
}
