package protocol

import "bytes"

// Param is one {indexValue?, key, value} triplet yielded by a
// ParamCursor (component C6). NextKey previews the key of the
// parameter that would be returned by the following call to Next, or
// "" once the cursor is exhausted.
type Param struct {
	HasIndex   bool
	IndexValue string
	Key        string
	Value      string
	NextKey    string
}

// ParamCursor walks a classified response's text yielding one Param per
// call (spec section 4.6). It aliases into the session's response
// buffer and is live only until the next call to a Session method that
// reads a new response.
type ParamCursor struct {
	text     []byte
	cmd      string
	arraySep string
	pos      int
	done     bool
}

// Parameters returns a cursor over the most recently classified
// response's parameters, or nil if there is no classified response.
func (s *Session) Parameters() *ParamCursor {
	text := s.responseText()
	if text == nil {
		return nil
	}
	return newParamCursor(text, s.dialect.ArraySeparator)
}

func newParamCursor(text []byte, arraySepFor func(string) string) *ParamCursor {
	c := &ParamCursor{text: text}

	sp := bytes.IndexByte(text, ' ')
	if sp < 0 {
		// The whole body is the command word; no parameters follow
		// (e.g. a response consisting solely of a stripped "Ready: "
		// prompt has an empty body and parses to zero parameters).
		c.cmd = string(text)
		c.pos = len(text)
		c.done = true
		return c
	}

	if sp+3 <= len(text) && string(text[sp:sp+3]) == " = " {
		// Special case (spec section 4.6): the command word is itself
		// the first parameter key, e.g. L2's "link = usb".
		c.cmd = string(text[:sp])
		c.pos = 0
	} else {
		c.cmd = string(text[:sp])
		c.pos = sp + 1
	}

	c.arraySep = arraySepFor(c.cmd)
	return c
}

// Command returns the response's command word.
func (c *ParamCursor) Command() string { return c.cmd }

// Next returns the next parameter, or ok=false once the cursor is
// exhausted.
func (c *ParamCursor) Next() (p Param, ok bool) {
	if c.done || c.pos >= len(c.text) {
		return Param{}, false
	}

	text := c.text
	pos := c.pos

	keyEqIdx := indexEquals(text, pos)
	if keyEqIdx < 0 {
		c.done = true
		return Param{}, false
	}

	keyRegion := text[pos:keyEqIdx]
	key := string(keyRegion)
	var indexValue string
	hasIndex := false
	if spIdx := bytes.IndexByte(keyRegion, ' '); spIdx >= 0 {
		indexValue = string(keyRegion[:spIdx])
		hasIndex = true
		key = string(keyRegion[spIdx+1:])
	}

	valueStart := keyEqIdx + 3

	nextEqIdx := indexEquals(text, valueStart)
	var valueEnd, nextPos int
	if nextEqIdx < 0 {
		valueEnd = len(text)
		nextPos = len(text)
		c.done = true
	} else {
		end, next, found := findBoundary(text, valueStart, nextEqIdx, c.arraySep)
		if !found {
			// Defensive fallback: no recognized separator between this
			// value and the next key. Not expected for well-formed
			// responses; treat the boundary as immediately before the
			// next key with no separator consumed.
			end, next = nextEqIdx, nextEqIdx
		}
		valueEnd, nextPos = end, next
	}

	value := string(text[valueStart:valueEnd])
	c.pos = nextPos

	nextKey, _ := peekKey(text, nextPos)

	return Param{
		HasIndex:   hasIndex,
		IndexValue: indexValue,
		Key:        key,
		Value:      value,
		NextKey:    nextKey,
	}, true
}

// indexEquals returns the index of the next " = " at or after from, or
// -1 if none exists.
func indexEquals(text []byte, from int) int {
	if from > len(text) {
		return -1
	}
	i := bytes.Index(text[from:], []byte(" = "))
	if i < 0 {
		return -1
	}
	return from + i
}

// findBoundary locates the true value/next-key boundary within
// text[from:to) — "to" is the start of the next " = ". It is whichever
// of ", " (the standard parameter separator) or arraySep (the
// dialect's array-member separator) occurs closest to "to" (spec
// section 4.6, step 3: "scan backwards ... to find the true boundary").
func findBoundary(text []byte, from, to int, arraySep string) (valueEnd, nextStart int, ok bool) {
	window := text[from:to]

	commaIdx := bytes.LastIndex(window, []byte(", "))
	arrIdx := -1
	if arraySep != "" {
		arrIdx = bytes.LastIndex(window, []byte(arraySep))
	}

	best, bestLen := -1, 0
	if commaIdx >= 0 {
		best, bestLen = commaIdx, 2
	}
	if arrIdx >= 0 && arrIdx > best {
		best, bestLen = arrIdx, len(arraySep)
	}
	if best < 0 {
		return 0, 0, false
	}

	start := from + best
	return start, start + bestLen, true
}

// peekKey previews the key (without its index value, if any) that
// would be parsed starting at pos, without advancing any cursor state.
func peekKey(text []byte, pos int) (string, bool) {
	if pos >= len(text) {
		return "", false
	}
	eqIdx := indexEquals(text, pos)
	if eqIdx < 0 {
		return "", false
	}
	region := text[pos:eqIdx]
	if spIdx := bytes.IndexByte(region, ' '); spIdx >= 0 {
		return string(region[spIdx+1:]), true
	}
	return string(region), true
}
