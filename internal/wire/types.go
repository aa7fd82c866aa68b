package wire

import "strings"

// Record type codes this codec understands structurally. Any other code
// in range 0..65535 is legal on the wire but decodes to OpaqueData.
const (
	TypeA     uint16 = 1
	TypeNS    uint16 = 2
	TypeCNAME uint16 = 5
	TypeSOA   uint16 = 6
	TypePTR   uint16 = 12
	TypeMX    uint16 = 15
	TypeTXT   uint16 = 16
	TypeAAAA  uint16 = 28
	TypeOPT   uint16 = 41
	// TypeANY is the QTYPE wildcard (255), "any type".
	TypeANY uint16 = 255
)

// ClassIN is the Internet class, the default the storage layer assigns
// when a record omits class; OPT uses the class field for the UDP
// payload size instead.
const ClassIN uint16 = 1

var typeNames = map[uint16]string{
	TypeA:     "A",
	TypeNS:    "NS",
	TypeCNAME: "CNAME",
	TypeSOA:   "SOA",
	TypePTR:   "PTR",
	TypeMX:    "MX",
	TypeTXT:   "TXT",
	TypeAAAA:  "AAAA",
	TypeOPT:   "OPT",
}

var nameTypes = map[string]uint16{}

func init() {
	for code, name := range typeNames {
		nameTypes[name] = code
	}
}

// TypeName returns the canonical uppercase tag for a known type code.
func TypeName(code uint16) (string, bool) {
	name, ok := typeNames[code]
	return name, ok
}

// TypeCode maps a canonical uppercase type tag to its numeric code.
func TypeCode(name string) (uint16, bool) {
	code, ok := nameTypes[strings.ToUpper(strings.TrimSpace(name))]
	return code, ok
}
