package wire

import "encoding/binary"

// HeaderSize is the fixed wire size of a DNS message header.
const HeaderSize = 12

// Header is the 12-byte DNS message header.
type Header struct {
	ID      uint16
	QR      bool
	Opcode  uint8
	AA      bool
	TC      bool
	RD      bool
	RA      bool
	Z       uint8
	Rcode   uint8
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// Validate checks that every field is within its declared wire range.
func (h Header) Validate() error {
	if h.Opcode > 2 {
		return ErrInvalidHeader
	}
	if h.Z > 7 {
		return ErrInvalidHeader
	}
	if h.Rcode > 15 {
		return ErrInvalidHeader
	}
	return nil
}

// Encode serializes the header to its 12-byte wire form.
func (h Header) Encode() []byte {
	out := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(out[0:2], h.ID)

	var flags uint16
	if h.QR {
		flags |= 1 << 15
	}
	flags |= uint16(h.Opcode&0x0F) << 11
	if h.AA {
		flags |= 1 << 10
	}
	if h.TC {
		flags |= 1 << 9
	}
	if h.RD {
		flags |= 1 << 8
	}
	if h.RA {
		flags |= 1 << 7
	}
	flags |= uint16(h.Z&0x07) << 4
	flags |= uint16(h.Rcode & 0x0F)
	binary.BigEndian.PutUint16(out[2:4], flags)

	binary.BigEndian.PutUint16(out[4:6], h.QDCount)
	binary.BigEndian.PutUint16(out[6:8], h.ANCount)
	binary.BigEndian.PutUint16(out[8:10], h.NSCount)
	binary.BigEndian.PutUint16(out[10:12], h.ARCount)
	return out
}

// DecodeHeader parses the 12-byte header from the start of msg.
func DecodeHeader(msg []byte) (Header, error) {
	if len(msg) < HeaderSize {
		return Header{}, ErrTruncated
	}

	flags := binary.BigEndian.Uint16(msg[2:4])
	h := Header{
		ID:      binary.BigEndian.Uint16(msg[0:2]),
		QR:      flags&(1<<15) != 0,
		Opcode:  uint8((flags >> 11) & 0x0F),
		AA:      flags&(1<<10) != 0,
		TC:      flags&(1<<9) != 0,
		RD:      flags&(1<<8) != 0,
		RA:      flags&(1<<7) != 0,
		Z:       uint8((flags >> 4) & 0x07),
		Rcode:   uint8(flags & 0x0F),
		QDCount: binary.BigEndian.Uint16(msg[4:6]),
		ANCount: binary.BigEndian.Uint16(msg[6:8]),
		NSCount: binary.BigEndian.Uint16(msg[8:10]),
		ARCount: binary.BigEndian.Uint16(msg[10:12]),
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}
