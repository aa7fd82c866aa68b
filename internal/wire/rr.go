package wire

import "encoding/binary"

// RR is a single resource record (answer, authority, or additional
// section entry). An OPT pseudo-RR is carried as an RR too; BuildOPT and
// ParseOPT convert between it and the OPT type.
type RR struct {
	Name  string
	Type  uint16
	Class uint16
	TTL   uint32
	Data  RData
}

// Encode serializes NAME, TYPE, CLASS, TTL, RDLENGTH, RDATA. RDLENGTH is
// computed from the encoded rdata, never trusted from a caller-supplied
// value.
func (rr RR) Encode() ([]byte, error) {
	nameBytes, err := EncodeName(rr.Name)
	if err != nil {
		return nil, err
	}

	var rdata []byte
	if rr.Data != nil {
		rdata, err = rr.Data.Encode()
		if err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, len(nameBytes)+10+len(rdata))
	out = append(out, nameBytes...)
	out = binary.BigEndian.AppendUint16(out, rr.Type)
	out = binary.BigEndian.AppendUint16(out, rr.Class)
	out = binary.BigEndian.AppendUint32(out, rr.TTL)
	out = binary.BigEndian.AppendUint16(out, uint16(len(rdata)))
	out = append(out, rdata...)
	return out, nil
}

// DecodeRR parses a resource record starting at offset within msg and
// returns the offset of the first byte after it. RDLENGTH must equal the
// number of bytes the rdata actually occupies (names included), or the
// record is rejected.
func DecodeRR(msg []byte, offset int) (RR, int, error) {
	name, pos, err := DecodeName(msg, offset)
	if err != nil {
		return RR{}, 0, err
	}
	if pos+10 > len(msg) {
		return RR{}, 0, ErrTruncated
	}

	rtype := binary.BigEndian.Uint16(msg[pos : pos+2])
	class := binary.BigEndian.Uint16(msg[pos+2 : pos+4])
	ttl := binary.BigEndian.Uint32(msg[pos+4 : pos+8])
	rdlength := int(binary.BigEndian.Uint16(msg[pos+8 : pos+10]))
	pos += 10

	data, err := decodeRData(msg, pos, rdlength, rtype)
	if err != nil {
		return RR{}, 0, err
	}
	pos += rdlength

	return RR{Name: name, Type: rtype, Class: class, TTL: ttl, Data: data}, pos, nil
}
