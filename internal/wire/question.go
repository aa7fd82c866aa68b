package wire

import "encoding/binary"

// Question is a single entry of the message's question section.
type Question struct {
	Name   string
	QType  uint16
	QClass uint16
}

// Encode serializes the question: QNAME, QTYPE, QCLASS.
func (q Question) Encode() ([]byte, error) {
	nameBytes, err := EncodeName(q.Name)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(nameBytes)+4)
	out = append(out, nameBytes...)
	out = binary.BigEndian.AppendUint16(out, q.QType)
	out = binary.BigEndian.AppendUint16(out, q.QClass)
	return out, nil
}

// DecodeQuestion parses a question starting at offset within msg and
// returns the offset of the first byte after it.
func DecodeQuestion(msg []byte, offset int) (Question, int, error) {
	name, pos, err := DecodeName(msg, offset)
	if err != nil {
		return Question{}, 0, err
	}
	if pos+4 > len(msg) {
		return Question{}, 0, ErrTruncated
	}

	q := Question{
		Name:   name,
		QType:  binary.BigEndian.Uint16(msg[pos : pos+2]),
		QClass: binary.BigEndian.Uint16(msg[pos+2 : pos+4]),
	}
	return q, pos + 4, nil
}
