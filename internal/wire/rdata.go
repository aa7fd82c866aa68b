package wire

import (
	"encoding/binary"
	"net"
)

// RData is the parsed, type-specific payload of a resource record. Each
// supported type has a concrete implementation; anything this codec does
// not model structurally decodes to OpaqueData.
type RData interface {
	Encode() ([]byte, error)
}

// AData is the rdata of an A record: 4 octets, network byte order.
type AData struct {
	IP net.IP
}

func (d AData) Encode() ([]byte, error) {
	ip4 := d.IP.To4()
	if ip4 == nil {
		return nil, ErrInvalidRData
	}
	return append([]byte(nil), ip4...), nil
}

// AAAAData is the rdata of an AAAA record: 16 octets.
type AAAAData struct {
	IP net.IP
}

func (d AAAAData) Encode() ([]byte, error) {
	ip16 := d.IP.To16()
	if ip16 == nil || d.IP.To4() != nil {
		return nil, ErrInvalidRData
	}
	return append([]byte(nil), ip16...), nil
}

// NSData is the rdata of an NS record: a domain name.
type NSData struct{ Name string }

func (d NSData) Encode() ([]byte, error) { return EncodeName(d.Name) }

// CNAMEData is the rdata of a CNAME record: a domain name.
type CNAMEData struct{ Name string }

func (d CNAMEData) Encode() ([]byte, error) { return EncodeName(d.Name) }

// PTRData is the rdata of a PTR record: a domain name.
type PTRData struct{ Name string }

func (d PTRData) Encode() ([]byte, error) { return EncodeName(d.Name) }

// MXData is the rdata of an MX record: preference then exchange name.
type MXData struct {
	Preference uint16
	Exchange   string
}

func (d MXData) Encode() ([]byte, error) {
	nameBytes, err := EncodeName(d.Exchange)
	if err != nil {
		return nil, err
	}
	out := binary.BigEndian.AppendUint16(nil, d.Preference)
	return append(out, nameBytes...), nil
}

// TXTData is the rdata of a TXT record: one or more length-prefixed
// character-string chunks, each at most 255 bytes.
type TXTData struct {
	Chunks []string
}

// NewTXTData splits text into 255-byte character-string chunks. An empty
// string produces a single empty chunk, matching how the zone schema's
// non-empty-string requirement still needs an encodable value.
func NewTXTData(text string) TXTData {
	if text == "" {
		return TXTData{Chunks: []string{""}}
	}
	var chunks []string
	for len(text) > 255 {
		chunks = append(chunks, text[:255])
		text = text[255:]
	}
	chunks = append(chunks, text)
	return TXTData{Chunks: chunks}
}

func (d TXTData) Encode() ([]byte, error) {
	if len(d.Chunks) == 0 {
		return nil, ErrInvalidRData
	}
	var out []byte
	for _, chunk := range d.Chunks {
		if len(chunk) > 255 {
			return nil, ErrInvalidRData
		}
		out = append(out, byte(len(chunk)))
		out = append(out, chunk...)
	}
	return out, nil
}

// SOAData is the rdata of an SOA record.
type SOAData struct {
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

func (d SOAData) Encode() ([]byte, error) {
	mname, err := EncodeName(d.MName)
	if err != nil {
		return nil, err
	}
	rname, err := EncodeName(d.RName)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(mname)+len(rname)+20)
	out = append(out, mname...)
	out = append(out, rname...)
	out = binary.BigEndian.AppendUint32(out, d.Serial)
	out = binary.BigEndian.AppendUint32(out, d.Refresh)
	out = binary.BigEndian.AppendUint32(out, d.Retry)
	out = binary.BigEndian.AppendUint32(out, d.Expire)
	out = binary.BigEndian.AppendUint32(out, d.Minimum)
	return out, nil
}

// OpaqueData is the rdata of any record type this codec does not model
// structurally. It is carried verbatim.
type OpaqueData struct{ Bytes []byte }

func (d OpaqueData) Encode() ([]byte, error) {
	return append([]byte(nil), d.Bytes...), nil
}

// decodeRData parses the rdata of a record of the given type, located at
// msg[offset:offset+rdlength]. Name-bearing types are decoded relative to
// the whole message so compression pointers resolve correctly; the
// decoded name(s) must fully consume rdlength or the RR is rejected.
func decodeRData(msg []byte, offset, rdlength int, rtype uint16) (RData, error) {
	if offset+rdlength > len(msg) {
		return nil, ErrTruncated
	}
	raw := msg[offset : offset+rdlength]

	switch rtype {
	case TypeA:
		if rdlength != 4 {
			return nil, ErrInvalidRData
		}
		return AData{IP: net.IP(append([]byte(nil), raw...))}, nil

	case TypeAAAA:
		if rdlength != 16 {
			return nil, ErrInvalidRData
		}
		return AAAAData{IP: net.IP(append([]byte(nil), raw...))}, nil

	case TypeNS:
		name, next, err := DecodeName(msg, offset)
		if err != nil {
			return nil, err
		}
		if next-offset != rdlength {
			return nil, ErrRDLengthMismatch
		}
		return NSData{Name: name}, nil

	case TypeCNAME:
		name, next, err := DecodeName(msg, offset)
		if err != nil {
			return nil, err
		}
		if next-offset != rdlength {
			return nil, ErrRDLengthMismatch
		}
		return CNAMEData{Name: name}, nil

	case TypePTR:
		name, next, err := DecodeName(msg, offset)
		if err != nil {
			return nil, err
		}
		if next-offset != rdlength {
			return nil, ErrRDLengthMismatch
		}
		return PTRData{Name: name}, nil

	case TypeMX:
		if rdlength < 2 {
			return nil, ErrTruncated
		}
		pref := binary.BigEndian.Uint16(msg[offset : offset+2])
		name, next, err := DecodeName(msg, offset+2)
		if err != nil {
			return nil, err
		}
		if next-offset != rdlength {
			return nil, ErrRDLengthMismatch
		}
		return MXData{Preference: pref, Exchange: name}, nil

	case TypeTXT:
		var chunks []string
		pos := 0
		for pos < len(raw) {
			n := int(raw[pos])
			pos++
			if pos+n > len(raw) {
				return nil, ErrTruncated
			}
			chunks = append(chunks, string(raw[pos:pos+n]))
			pos += n
		}
		if len(chunks) == 0 {
			return nil, ErrInvalidRData
		}
		return TXTData{Chunks: chunks}, nil

	case TypeSOA:
		mname, next1, err := DecodeName(msg, offset)
		if err != nil {
			return nil, err
		}
		rname, next2, err := DecodeName(msg, next1)
		if err != nil {
			return nil, err
		}
		if next2+20 != offset+rdlength {
			return nil, ErrRDLengthMismatch
		}
		return SOAData{
			MName:   mname,
			RName:   rname,
			Serial:  binary.BigEndian.Uint32(msg[next2 : next2+4]),
			Refresh: binary.BigEndian.Uint32(msg[next2+4 : next2+8]),
			Retry:   binary.BigEndian.Uint32(msg[next2+8 : next2+12]),
			Expire:  binary.BigEndian.Uint32(msg[next2+12 : next2+16]),
			Minimum: binary.BigEndian.Uint32(msg[next2+16 : next2+20]),
		}, nil

	default:
		return OpaqueData{Bytes: append([]byte(nil), raw...)}, nil
	}
}
