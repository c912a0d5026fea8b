package protocol

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Known dataset identifiers (component C8). RBR instruments currently
// expose a standard data memory and a calibration/event log; any other
// value is rejected before any I/O is attempted.
const (
	DatasetCalibration = 0
	DatasetStandard    = 1
)

func isKnownDataset(dataset int) bool {
	switch dataset {
	case DatasetCalibration, DatasetStandard:
		return true
	default:
		return false
	}
}

// DataRequest describes a chunked read of on-instrument memory (spec
// section 3). Buffer is caller-owned and must be at least Size bytes
// long; it is never retained past the call.
type DataRequest struct {
	Dataset int
	Size    int
	Offset  int
	Buffer  []byte
}

// DataResult is the authoritative outcome of a ReadData call, echoed
// back by the instrument: Size is the number of bytes actually
// delivered (at most the requested size, possibly zero at EOF).
type DataResult struct {
	Dataset int
	Size    int
	Offset  int
}

// ReadData issues one paged read of on-instrument memory (component
// C8): it requests a chunk via the converse loop, reclaims any payload
// bytes the line reassembler already pulled into the response buffer
// ahead of the ack, polls the transport for the remainder, and
// verifies the big-endian CRC-16/CCITT trailer.
//
// An interrupted download resumes by calling ReadData again with
// Offset set to the number of bytes the caller has already safely
// stored.
func (s *Session) ReadData(req DataRequest) (DataResult, error) {
	if !isKnownDataset(req.Dataset) {
		return DataResult{}, ErrInvalidParameterValue
	}
	if len(req.Buffer) < req.Size {
		return DataResult{}, ErrBufferTooSmall
	}

	cmd := s.dialect.ReadRequest(req.Dataset, req.Size, req.Offset)
	if err := s.converse("%s", cmd); err != nil {
		return DataResult{}, err
	}

	ack, err := s.parseDataAck()
	if err != nil {
		return DataResult{}, err
	}

	// A zero-size page (requested or reported at EOF) carries no payload
	// and no CRC trailer on the wire: nothing follows the ack line, so
	// there is nothing to drain or poll for (spec section 8's "readData
	// with requested n = 0 returns m = 0 with no transport read beyond
	// the ack line").
	if ack.Size == 0 {
		return ack, nil
	}

	payload := req.Buffer[:ack.Size]
	if err := s.fillPayload(payload); err != nil {
		return DataResult{}, err
	}

	var trailer [2]byte
	if err := s.fillPayload(trailer[:]); err != nil {
		return DataResult{}, err
	}

	if CRC16CCITT(payload) != binary.BigEndian.Uint16(trailer[:]) {
		return DataResult{}, ErrChecksumError
	}

	return ack, nil
}

// parseDataAck parses the just-classified "readdata"/"data" ack line
// into its dataset/size/offset fields, per dialect (spec section 4.8).
func (s *Session) parseDataAck() (DataResult, error) {
	if s.Generation() == GenerationL2 {
		var d, size, offset int
		text := string(s.responseText())
		if n, err := fmt.Sscanf(text, "data %d %d %d", &d, &size, &offset); err != nil || n != 3 {
			return DataResult{}, ErrUnsupported
		}
		return DataResult{Dataset: d, Size: size, Offset: offset}, nil
	}

	cur := s.Parameters()
	if cur == nil {
		return DataResult{}, ErrUnsupported
	}
	var res DataResult
	for {
		p, ok := cur.Next()
		if !ok {
			break
		}
		switch p.Key {
		case "dataset":
			res.Dataset, _ = strconv.Atoi(p.Value)
		case "size":
			res.Size, _ = strconv.Atoi(p.Value)
		case "offset":
			res.Offset, _ = strconv.Atoi(p.Value)
		}
	}
	return res, nil
}

// drainPayload copies bytes already sitting in the response buffer past
// the consumed ack line into dst, evicts everything it consumed (ack
// plus drained payload), and reports how many bytes of dst it filled.
func (s *Session) drainPayload(dst []byte) int {
	avail := s.resp.Data()[s.lastResponseLen:]
	n := copy(dst, avail)
	s.resp.Evict(s.lastResponseLen + n)
	s.lastResponseLen = 0
	return n
}

// fillPayload drains whatever is already buffered into dst, then polls
// the transport directly for the remainder, looping until dst is full
// (spec section 4.8, steps 3-5: "drain then poll", applied identically
// to the payload and to the two-byte CRC trailer that follows it).
func (s *Session) fillPayload(dst []byte) error {
	n := s.drainPayload(dst)
	for n < len(dst) {
		read, err := s.transport.Read(dst[n:])
		if err != nil {
			return err
		}
		n += read
	}
	return nil
}
