package protocol

import (
	"testing"

	"rbrhost/protocol/dialect"
)

func TestParamCursorBasic(t *testing.T) {
	text := []byte("channels count = 2, on = 2, settlingtime = 150")
	c := newParamCursor(text, dialect.L3Dialect.ArraySeparator)

	if c.Command() != "channels" {
		t.Fatalf("Command() = %q, want %q", c.Command(), "channels")
	}

	want := []Param{
		{Key: "count", Value: "2", NextKey: "on"},
		{Key: "on", Value: "2", NextKey: "settlingtime"},
		{Key: "settlingtime", Value: "150"},
	}
	for i, w := range want {
		p, ok := c.Next()
		if !ok {
			t.Fatalf("Next() #%d: ok = false, want true", i)
		}
		if p.Key != w.Key || p.Value != w.Value || p.NextKey != w.NextKey {
			t.Errorf("Next() #%d = %+v, want %+v", i, p, w)
		}
	}
	if _, ok := c.Next(); ok {
		t.Error("cursor should be exhausted")
	}
}

func TestParamCursorCommandWordIsFirstKey(t *testing.T) {
	text := []byte("link = usb")
	c := newParamCursor(text, dialect.L2Dialect.ArraySeparator)

	if c.Command() != "link" {
		t.Fatalf("Command() = %q, want %q", c.Command(), "link")
	}
	p, ok := c.Next()
	if !ok || p.Key != "link" || p.Value != "usb" {
		t.Errorf("Next() = %+v, %v, want link=usb", p, ok)
	}
}

func TestParamCursorIndexedKey(t *testing.T) {
	text := []byte("regime 1 boundary = 50")
	c := newParamCursor(text, dialect.L3Dialect.ArraySeparator)

	p, ok := c.Next()
	if !ok {
		t.Fatal("Next() = false, want true")
	}
	if !p.HasIndex || p.IndexValue != "1" || p.Key != "boundary" || p.Value != "50" {
		t.Errorf("Next() = %+v, want index=1 key=boundary value=50", p)
	}
}

func TestParamCursorL3ArraySeparator(t *testing.T) {
	text := []byte("schedule mode = 1 || schedule mode = 2")
	c := newParamCursor(text, dialect.L3Dialect.ArraySeparator)

	p1, ok := c.Next()
	if !ok || p1.Key != "mode" || p1.Value != "1" {
		t.Fatalf("Next() #1 = %+v, %v", p1, ok)
	}
	p2, ok := c.Next()
	if !ok || p2.Key != "mode" || p2.Value != "2" {
		t.Fatalf("Next() #2 = %+v, %v", p2, ok)
	}
	if _, ok := c.Next(); ok {
		t.Error("cursor should be exhausted after the second array member")
	}
}

func TestParamCursorL2ArraySeparator(t *testing.T) {
	text := []byte("schedule mode = 1 | schedule mode = 2")
	c := newParamCursor(text, dialect.L2Dialect.ArraySeparator)

	p1, ok := c.Next()
	if !ok || p1.Value != "1" {
		t.Fatalf("Next() #1 = %+v, %v", p1, ok)
	}
	p2, ok := c.Next()
	if !ok || p2.Value != "2" {
		t.Fatalf("Next() #2 = %+v, %v", p2, ok)
	}
}

func TestParamCursorNoParameters(t *testing.T) {
	c := newParamCursor([]byte{}, dialect.L3Dialect.ArraySeparator)
	if c.Command() != "" {
		t.Errorf("Command() = %q, want empty", c.Command())
	}
	if _, ok := c.Next(); ok {
		t.Error("Next() on an empty body should report ok=false")
	}
}

func TestParamCursorListValueNotSplit(t *testing.T) {
	// The parameter parser hands back list values whole; splitting on
	// the dialect's list separator is left to the caller (spec section
	// 4.6).
	text := []byte("calibration c0 = 1.0|2.0|3.0")
	c := newParamCursor(text, dialect.L3Dialect.ArraySeparator)
	p, ok := c.Next()
	if !ok || p.Value != "1.0|2.0|3.0" {
		t.Errorf("Next() = %+v, %v, want unsplit list value", p, ok)
	}
}
