package protocol

import (
	"testing"
	"time"
)

func newWakeTestSession(ft *fakeTransport) *Session {
	return &Session{
		transport:    ft,
		cfg:          DefaultSessionConfig(),
		cmdBuf:       make([]byte, 32),
		lastActivity: -1,
	}
}

func TestSendCommandWakesOnFirstUse(t *testing.T) {
	ft := newFakeTransport()
	s := newWakeTestSession(ft)

	if err := s.sendCommand("id"); err != nil {
		t.Fatalf("sendCommand() error = %v", err)
	}
	// Wake pulse (two CRLFs) plus the command itself.
	if len(ft.writes) != 3 {
		t.Fatalf("writes = %v, want 3 (two wake pulses + command)", ft.writes)
	}
	if ft.writes[0] != "\r\n" || ft.writes[1] != "\r\n" {
		t.Errorf("wake pulses = %q, %q, want two \"\\r\\n\"", ft.writes[0], ft.writes[1])
	}
	if ft.writes[2] != "id\r\n" {
		t.Errorf("command write = %q, want %q", ft.writes[2], "id\r\n")
	}
}

func TestSendCommandSkipsWakeWhenRecentlyActive(t *testing.T) {
	ft := newFakeTransport()
	s := newWakeTestSession(ft)
	s.lastActivity = ft.Time() // just active

	if err := s.sendCommand("id"); err != nil {
		t.Fatalf("sendCommand() error = %v", err)
	}
	if len(ft.writes) != 1 || ft.writes[0] != "id\r\n" {
		t.Errorf("writes = %v, want exactly one command write with no wake pulse", ft.writes)
	}
}

func TestSendCommandWakesAfterIdle(t *testing.T) {
	ft := newFakeTransport()
	s := newWakeTestSession(ft)
	s.cfg.WakeIdleThreshold = 1 * time.Second
	s.lastActivity = ft.Time() - 2000 // 2s idle, past the 1s threshold

	if err := s.sendCommand("id"); err != nil {
		t.Fatalf("sendCommand() error = %v", err)
	}
	if len(ft.writes) != 3 {
		t.Errorf("writes = %v, want 3 (wake pulse + command)", ft.writes)
	}
}

func TestSendCommandFormatsArgs(t *testing.T) {
	ft := newFakeTransport()
	s := newWakeTestSession(ft)
	s.cmdBuf = make([]byte, 64) // the 44-byte framed command does not fit the helper's 32
	s.lastActivity = ft.Time()

	if err := s.sendCommand("readdata dataset = %d, size = %d, offset = %d", 1, 4, 0); err != nil {
		t.Fatalf("sendCommand() error = %v", err)
	}
	want := "readdata dataset = 1, size = 4, offset = 0\r\n"
	if ft.writes[0] != want {
		t.Errorf("write = %q, want %q", ft.writes[0], want)
	}
}

func TestSendCommandBufferTooSmall(t *testing.T) {
	ft := newFakeTransport()
	s := newWakeTestSession(ft)
	s.cmdBuf = make([]byte, 4)
	s.lastActivity = ft.Time()

	err := s.sendCommand("much too long for the buffer")
	if err != ErrBufferTooSmall {
		t.Fatalf("sendCommand() error = %v, want ErrBufferTooSmall", err)
	}
	if len(ft.writes) != 0 {
		t.Errorf("writes = %v, want none: an over-long command must never be written", ft.writes)
	}
}
