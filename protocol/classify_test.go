package protocol

import (
	"testing"

	"rbrhost/protocol/dialect"
)

func TestClassifyInfo(t *testing.T) {
	s := &Session{dialect: dialect.L3Dialect}
	s.classify([]byte("channels count = 2"))

	if s.kind != KindInfo {
		t.Errorf("kind = %v, want Info", s.kind)
	}
	if string(s.text) != "channels count = 2" {
		t.Errorf("text = %q", s.text)
	}
}

func TestClassifyL3Warning(t *testing.T) {
	s := &Session{dialect: dialect.L3Dialect}
	s.classify([]byte("verify status = logging, warning = W0401"))

	if s.kind != KindWarning || s.warnCode != 401 {
		t.Errorf("kind=%v warnCode=%d, want Warning/401", s.kind, s.warnCode)
	}
	if string(s.text) != "verify status = logging" {
		t.Errorf("text = %q, want the warning suffix stripped", s.text)
	}
}

func TestClassifyError(t *testing.T) {
	s := &Session{dialect: dialect.L3Dialect}
	s.classify([]byte("E0102 invalid command 'xxxid'"))

	if s.kind != KindError || s.errorCode != 102 {
		t.Errorf("kind=%v errorCode=%d, want Error/102", s.kind, s.errorCode)
	}
	if string(s.text) != "invalid command 'xxxid'" {
		t.Errorf("text = %q", s.text)
	}
}

func TestClassifyL2WarningRewrite(t *testing.T) {
	s := &Session{dialect: dialect.L2Dialect}
	s.classify([]byte("E0410 estimated memory usage exceeds capacity, verify status = pending"))

	if s.kind != KindWarning || s.warnCode != 410 {
		t.Errorf("kind=%v warnCode=%d, want Warning/410", s.kind, s.warnCode)
	}
	if string(s.text) != "verify status = pending" {
		t.Errorf("text = %q, want the rewritten message", s.text)
	}
}

func TestClassifyL2ErrorNotRewritten(t *testing.T) {
	s := &Session{dialect: dialect.L2Dialect}
	s.classify([]byte("E0102 invalid command 'xxxid'"))

	if s.kind != KindError || s.errorCode != 102 {
		t.Errorf("kind=%v errorCode=%d, want Error/102 (102 is not in L2's warning-rewrite set)", s.kind, s.errorCode)
	}
}

func TestParseErrorPrefixRejectsShortBody(t *testing.T) {
	if _, _, ok := parseErrorPrefix([]byte("E010")); ok {
		t.Error("parseErrorPrefix accepted a body shorter than the minimum prefix")
	}
}

func TestParseErrorPrefixRejectsNonDigits(t *testing.T) {
	if _, _, ok := parseErrorPrefix([]byte("E0X02 message")); ok {
		t.Error("parseErrorPrefix accepted non-digit characters in the code")
	}
}
