package wire

import "encoding/binary"

// OptCodeCookie is the EDNS(0) option code for DNS Cookies (RFC 7873).
const OptCodeCookie uint16 = 10

// Option is a single EDNS(0) option TLV. Only OptCodeCookie is decoded
// structurally by this codec; every other code is carried opaque.
type Option struct {
	Code uint16
	Data []byte
}

// Cookie is the decoded payload of a DNS Cookie option: a mandatory
// 8-byte client cookie and an optional 8-32 byte server cookie.
type Cookie struct {
	Client [8]byte
	Server []byte
}

// Encode serializes a DNS Cookie option's data (client cookie followed by
// the server cookie, if present).
func (c Cookie) Encode() []byte {
	out := append([]byte(nil), c.Client[:]...)
	return append(out, c.Server...)
}

// DecodeCookie validates and parses DNS Cookie option data: exactly 8
// bytes of client cookie, then either nothing or 8-32 bytes of server
// cookie.
func DecodeCookie(data []byte) (Cookie, error) {
	if len(data) < 8 {
		return Cookie{}, ErrBadCookieLength
	}
	serverLen := len(data) - 8
	if serverLen != 0 && (serverLen < 8 || serverLen > 32) {
		return Cookie{}, ErrBadCookieLength
	}

	var c Cookie
	copy(c.Client[:], data[:8])
	if serverLen > 0 {
		c.Server = append([]byte(nil), data[8:]...)
	}
	return c, nil
}

// OPT is the parsed EDNS(0) pseudo-RR carried in the additional section.
type OPT struct {
	UDPSize       uint16
	ExtendedRcode uint8
	Version       uint8
	DO            bool
	Z             uint16 // 15 bits
	Options       []Option
}

// Cookie returns the parsed DNS Cookie option, if present.
func (o OPT) Cookie() (Cookie, bool, error) {
	for _, opt := range o.Options {
		if opt.Code == OptCodeCookie {
			c, err := DecodeCookie(opt.Data)
			return c, true, err
		}
	}
	return Cookie{}, false, nil
}

// BuildOPT renders an OPT into its RR wire form: empty root name, class
// carrying the UDP payload size, TTL packing extended-rcode/version/DO/Z,
// and rdata as a sequence of option TLVs.
func BuildOPT(o OPT) RR {
	var rdata []byte
	for _, opt := range o.Options {
		rdata = binary.BigEndian.AppendUint16(rdata, opt.Code)
		rdata = binary.BigEndian.AppendUint16(rdata, uint16(len(opt.Data)))
		rdata = append(rdata, opt.Data...)
	}

	ttl := uint32(o.ExtendedRcode)<<24 | uint32(o.Version)<<16
	if o.DO {
		ttl |= 1 << 15
	}
	ttl |= uint32(o.Z & 0x7FFF)

	return RR{
		Name:  ".",
		Type:  TypeOPT,
		Class: o.UDPSize,
		TTL:   ttl,
		Data:  OpaqueData{Bytes: rdata},
	}
}

// ParseOPT interprets an already-decoded RR of type OPT, unpacking its
// TLV rdata into options and validating any DNS Cookie option.
func ParseOPT(rr RR) (OPT, error) {
	opaque, ok := rr.Data.(OpaqueData)
	if !ok {
		return OPT{}, ErrInvalidRData
	}

	o := OPT{
		UDPSize:       rr.Class,
		ExtendedRcode: uint8(rr.TTL >> 24),
		Version:       uint8(rr.TTL >> 16),
		DO:            rr.TTL&(1<<15) != 0,
		Z:             uint16(rr.TTL & 0x7FFF),
	}

	data := opaque.Bytes
	pos := 0
	for pos < len(data) {
		if pos+4 > len(data) {
			return OPT{}, ErrTruncated
		}
		code := binary.BigEndian.Uint16(data[pos : pos+2])
		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		pos += 4
		if pos+length > len(data) {
			return OPT{}, ErrTruncated
		}
		optData := append([]byte(nil), data[pos:pos+length]...)
		pos += length

		if code == OptCodeCookie {
			if _, err := DecodeCookie(optData); err != nil {
				return OPT{}, err
			}
		}
		o.Options = append(o.Options, Option{Code: code, Data: optData})
	}

	return o, nil
}
