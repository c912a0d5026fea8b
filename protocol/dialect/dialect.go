// Package dialect models the L2/L3 command-dialect differences called
// out throughout spec section 4 as a single strategy object, selected
// once by generation detection (component C10) and consulted from the
// converse loop, response classifier and chunked data reader, rather
// than sprinkling "if generation == L2" conditionals through each of
// them (spec section 9, design note "Generation branching").
package dialect

import "fmt"

// Generation identifies the instrument command dialect in use.
type Generation int

const (
	Unknown Generation = iota
	L2
	L3
)

func (g Generation) String() string {
	switch g {
	case L2:
		return "L2"
	case L3:
		return "L3"
	default:
		return "unknown"
	}
}

// Dialect collects every generation-specific piece of wire syntax: list
// and array separators, request phrasing, and the set of hardware error
// codes that L2 actually means as warnings (spec section 4.5).
type Dialect struct {
	Generation Generation

	// ListSeparator joins members of a single parameter's list value
	// (spec section 4.6, "within a single value, list items may be
	// separated by | (L3) or , (L2)"). Splitting a value on this
	// separator is left to callers; the parameter parser itself never
	// interprets it.
	ListSeparator string

	// arraySeparator is the literal text between repeated command words
	// in an array-style response, e.g. " || " for L3 channel-array
	// responses. L3's separator additionally embeds the command word;
	// see ArraySeparator.
	arraySeparator string

	// readCommand/readResponse are the dialect-specific request/ack
	// phrasing used by the chunked data reader (component C8).
	readCommand  string
	readResponse string

	// warningRewrite is the set of L2 hardware error codes that the
	// response classifier (C5) must rewrite to warnings rather than
	// surfacing as HardwareError.
	warningRewrite map[int]struct{}
}

// L2Dialect and L3Dialect are the two supported dialects, resolved once
// at Open time by Detect.
var (
	L2Dialect = Dialect{
		Generation:     L2,
		ListSeparator:  ", ",
		arraySeparator: " | ",
		readCommand:    "read data %d %d %d",
		readResponse:   "data",
		warningRewrite: map[int]struct{}{
			410: {}, // estimated memory usage exceeds capacity
			411: {}, // not logging
		},
	}

	L3Dialect = Dialect{
		Generation:     L3,
		ListSeparator:  "|",
		arraySeparator: " || ",
		readCommand:    "readdata dataset = %d, size = %d, offset = %d",
		readResponse:   "readdata",
	}
)

// Detect classifies a firmware-type value from the identity query (C10)
// as L2 or L3: firmware type 0 or in [100, 103] is L2, everything else
// is L3.
func Detect(fwtype int) Dialect {
	if fwtype == 0 || (fwtype >= 100 && fwtype <= 103) {
		return L2Dialect
	}
	return L3Dialect
}

// IsWarningRewrite reports whether a hardware error code is actually a
// warning under this dialect (L2 only; always false for L3).
func (d Dialect) IsWarningRewrite(code int) bool {
	_, ok := d.warningRewrite[code]
	return ok
}

// ReadRequest formats the paged-read request for this dialect.
func (d Dialect) ReadRequest(dataset, size, offset int) string {
	return fmt.Sprintf(d.readCommand, dataset, size, offset)
}

// ReadReplyTag is the expected reply tag for a read request: "data" on
// L2 (spec section 4.7 exception), "readdata" on L3.
func (d Dialect) ReadReplyTag() string {
	return d.readResponse
}

// ArraySeparator returns the literal array-member separator for a given
// command word. On L3 the separator includes the command word itself
// and a trailing space (" || <cmd> "); on L2 it is a constant " | ".
func (d Dialect) ArraySeparator(cmd string) string {
	if d.Generation == L3 {
		return " || " + cmd + " "
	}
	return d.arraySeparator
}
