package protocol

import "strconv"

// Identity is the result of the identity query issued during Open
// (component C10).
type Identity struct {
	Model        string
	Version      string
	Serial       int64
	FirmwareType int
}

// getIdentity runs the identity query that Open uses to pick a dialect.
// A non-timing failure is reported to the caller as ErrUnsupported,
// matching spec section 4.10's "a non-timing failure -> Unsupported".
func (s *Session) getIdentity() (Identity, error) {
	if err := s.converse("id"); err != nil {
		if err == ErrTimeout {
			return Identity{}, err
		}
		return Identity{}, ErrUnsupported
	}

	var id Identity
	cur := s.Parameters()
	for cur != nil {
		p, ok := cur.Next()
		if !ok {
			break
		}
		switch p.Key {
		case "model":
			id.Model = p.Value
		case "version":
			id.Version = p.Value
		case "serial":
			n, _ := strconv.ParseInt(p.Value, 10, 64)
			id.Serial = n
		case "fwtype":
			n, _ := strconv.Atoi(p.Value)
			id.FirmwareType = n
		}
	}
	return id, nil
}
