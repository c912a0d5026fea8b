package protocol

import "testing"

func TestCRC16CCITT(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{"empty", []byte{}, 0xFFFF},
		{"check value 123456789", []byte("123456789"), 0x29B1},
		{"single zero byte", []byte{0x00}, 0xE1F0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CRC16CCITT(tc.data)
			if got != tc.expected {
				t.Errorf("CRC16CCITT(%v) = 0x%04X, want 0x%04X", tc.data, got, tc.expected)
			}
		})
	}
}

func TestCRC16CCITTConsistency(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}

	crc1 := CRC16CCITT(data)
	crc2 := CRC16CCITT(data)

	if crc1 != crc2 {
		t.Errorf("CRC16CCITT not consistent: first=%04X, second=%04X", crc1, crc2)
	}
}

func TestCRC16CCITTDifferent(t *testing.T) {
	data1 := []byte{0x01, 0x02, 0x03}
	data2 := []byte{0x01, 0x02, 0x04}

	crc1 := CRC16CCITT(data1)
	crc2 := CRC16CCITT(data2)

	if crc1 == crc2 {
		t.Errorf("CRC16CCITT collision: both inputs produced %04X", crc1)
	}
}

// TestCRC16CCITTPayloadTrailer checks the fixture of the CRC-failed
// download scenario (spec section 8, scenario 5): the checksum of its
// 4-byte payload differs from its 0xFFFF trailer, so the mismatch is
// detectable. The download itself is exercised by
// TestReadDataChecksumError.
func TestCRC16CCITTPayloadTrailer(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	badTrailer := uint16(0xFFFF)

	if CRC16CCITT(payload) == badTrailer {
		t.Fatalf("test payload accidentally matches the bad trailer; pick a different fixture")
	}
}
