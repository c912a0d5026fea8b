package protocol

import "testing"

func TestResponseBufferEvict(t *testing.T) {
	r := newResponseBuffer(16)
	copy(r.buf, "hello world")
	r.len = 11

	r.Evict(6)
	if got := string(r.Data()); got != "world" {
		t.Errorf("Data() = %q, want %q", got, "world")
	}

	r.Evict(100)
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after over-evicting", r.Len())
	}
}

func TestResponseBufferFull(t *testing.T) {
	r := newResponseBuffer(4)
	if r.Full() {
		t.Fatal("empty buffer reports Full()")
	}
	r.len = 4
	if !r.Full() {
		t.Error("buffer at capacity does not report Full()")
	}
}

func TestResponseBufferIndexCRLF(t *testing.T) {
	r := newResponseBuffer(32)
	copy(r.buf, "abc\r\ndef")
	r.len = 8

	if idx := r.IndexCRLF(); idx != 3 {
		t.Errorf("IndexCRLF() = %d, want 3", idx)
	}

	r.Evict(5)
	if idx := r.IndexCRLF(); idx != -1 {
		t.Errorf("IndexCRLF() = %d, want -1 (no terminator left)", idx)
	}
}

func TestResponseBufferIndexCRLFAtBufferEnd(t *testing.T) {
	// Regression for the off-bracket noted in spec section 9: a
	// terminator landing in the final two occupied bytes must still be
	// found.
	r := newResponseBuffer(8)
	copy(r.buf, "ab\r\n")
	r.len = 4

	if idx := r.IndexCRLF(); idx != 2 {
		t.Errorf("IndexCRLF() = %d, want 2", idx)
	}
}

func TestResponseBufferFill(t *testing.T) {
	ft := newFakeTransport("hello")
	r := newResponseBuffer(16)

	n, err := r.Fill(ft)
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if n != 5 || string(r.Data()) != "hello" {
		t.Errorf("Fill() = %d, %q", n, r.Data())
	}
}

func TestResponseBufferFillWhenFull(t *testing.T) {
	r := newResponseBuffer(4)
	r.len = 4
	ft := newFakeTransport("xxxx")

	n, err := r.Fill(ft)
	if err != nil || n != 0 {
		t.Errorf("Fill() on a full buffer = %d, %v, want 0, nil", n, err)
	}
}
