package protocol

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// sampleTimeLayout is the wire format of a sample timestamp (spec
// section 6): "%Y-%m-%d %H:%M:%S.%03d", always UTC.
const sampleTimeLayout = "2006-01-02 15:04:05.000"

// Sample timestamp bounds (spec section 3): [2000-01-01, 2099-12-31].
const (
	SampleTimestampMin int64 = 946684800000
	SampleTimestampMax int64 = 4102444799000
)

// Sample is a timestamped multi-channel measurement (spec section 3).
// Readings has a fixed length equal to the Session's configured
// ChannelMax; only Readings[:Channels] is meaningful, the remainder is
// zero.
type Sample struct {
	Timestamp int64 // milliseconds since Unix epoch, UTC
	Channels  int
	Readings  []float64
}

// ReadingFlag identifies the kind of in-band annotation a NaN reading
// carries (component C9).
type ReadingFlag uint8

const (
	FlagNone ReadingFlag = iota
	FlagUncalibrated
	FlagError
)

// quietNaNBits is the IEEE-754 bit pattern of a positive quiet NaN with
// an all-zero payload: exponent all ones, quiet bit (mantissa MSB) set.
// Every encoded reading is built by ORing flag/code bits into this
// pattern, which keeps the quiet bit set and the mantissa non-zero so
// the value survives any platform's signaling-NaN canonicalization
// (spec section 4.9, closing paragraph).
const quietNaNBits = 0x7FF8000000000000

// SetError packs flag and code into a quiet NaN payload. flag is
// expected to be FlagUncalibrated or FlagError; code is instrument-
// specific numeric detail (e.g. the NN in "Error-NN").
func SetError(flag ReadingFlag, code uint8) float64 {
	bits := uint64(quietNaNBits) | uint64(flag)<<8 | uint64(code)
	return math.Float64frombits(bits)
}

// GetFlag extracts the encoded flag from v. Non-NaN values always
// report FlagNone.
func GetFlag(v float64) ReadingFlag {
	if !math.IsNaN(v) {
		return FlagNone
	}
	return ReadingFlag(math.Float64bits(v) >> 8 & 0xFF)
}

// GetError extracts the encoded code from v. Non-NaN values always
// report 0.
func GetError(v float64) uint8 {
	if !math.IsNaN(v) {
		return 0
	}
	return uint8(math.Float64bits(v) & 0xFF)
}

// parseSample attempts to interpret body as a sample line (component
// C4): a sample-format timestamp followed by comma-separated readings.
// It reports ok=false, leaving into untouched, when body does not begin
// with a parseable timestamp — the caller then treats body as an
// ordinary command response.
func parseSample(body []byte, into *Sample, channelMax int) (ok bool) {
	text := string(body)

	if len(text) < len(sampleTimeLayout) {
		return false
	}

	tsText := text[:len(sampleTimeLayout)]
	ts, err := time.Parse(sampleTimeLayout, tsText)
	if err != nil {
		return false
	}

	rest := text[len(sampleTimeLayout):]
	rest = strings.TrimPrefix(rest, ",")
	rest = strings.TrimLeft(rest, " ")

	millis := ts.UnixMilli()
	if millis < SampleTimestampMin || millis > SampleTimestampMax {
		return false
	}

	into.Timestamp = millis
	for i := range into.Readings {
		into.Readings[i] = 0
	}

	n := 0
	for _, tok := range strings.Split(rest, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if n >= channelMax {
			// Excess channels are silently dropped (spec section 4.4).
			break
		}
		into.Readings[n] = parseReading(tok)
		n++
	}
	into.Channels = n

	return true
}

// parseReading decodes a single comma-separated sample token.
func parseReading(tok string) float64 {
	switch {
	case tok == "nan":
		return math.NaN()
	case tok == "inf":
		return math.Inf(1)
	case tok == "-inf":
		return math.Inf(-1)
	case tok == "###":
		return SetError(FlagUncalibrated, 0)
	case strings.HasPrefix(tok, "Error-"):
		code, err := strconv.Atoi(strings.TrimPrefix(tok, "Error-"))
		if err != nil {
			return math.NaN()
		}
		return SetError(FlagError, uint8(code))
	default:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return math.NaN()
		}
		return v
	}
}

// FormatSample renders a Sample back to the wire format, the inverse of
// parseSample. Synthesized error NaNs format back to "###" or
// "Error-NN" rather than "nan" (spec section 8, "roundtrips").
func FormatSample(s Sample) string {
	var b bytes.Buffer
	b.WriteString(time.UnixMilli(s.Timestamp).UTC().Format(sampleTimeLayout))
	for i := 0; i < s.Channels; i++ {
		b.WriteString(", ")
		b.WriteString(formatReading(s.Readings[i]))
	}
	return b.String()
}

func formatReading(v float64) string {
	switch {
	case math.IsNaN(v):
		flag := GetFlag(v)
		code := GetError(v)
		switch flag {
		case FlagUncalibrated:
			return "###"
		case FlagError:
			return fmt.Sprintf("Error-%02d", code)
		default:
			return "nan"
		}
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
