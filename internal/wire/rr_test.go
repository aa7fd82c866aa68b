package wire

import (
	"encoding/binary"
	"net"
	"reflect"
	"testing"
)

func TestRRRoundtripAllSupportedTypes(t *testing.T) {
	cases := []RR{
		{Name: "hello.test", Type: TypeA, Class: ClassIN, TTL: 300, Data: AData{IP: net.ParseIP("1.2.3.4").To4()}},
		{Name: "hello.test", Type: TypeAAAA, Class: ClassIN, TTL: 300, Data: AAAAData{IP: net.ParseIP("2001:db8::1").To16()}},
		{Name: "hello.test", Type: TypeNS, Class: ClassIN, TTL: 300, Data: NSData{Name: "ns1.hello.test"}},
		{Name: "hello.test", Type: TypeCNAME, Class: ClassIN, TTL: 300, Data: CNAMEData{Name: "target.hello.test"}},
		{Name: "hello.test", Type: TypePTR, Class: ClassIN, TTL: 300, Data: PTRData{Name: "ptr.hello.test"}},
		{Name: "hello.test", Type: TypeMX, Class: ClassIN, TTL: 300, Data: MXData{Preference: 10, Exchange: "mail.hello.test"}},
		{Name: "hello.test", Type: TypeTXT, Class: ClassIN, TTL: 300, Data: NewTXTData("v=spf1 -all")},
		{
			Name: "hello.test", Type: TypeSOA, Class: ClassIN, TTL: 300,
			Data: SOAData{
				MName: "ns1.example.com", RName: "hostmaster.example.com",
				Serial: 20260109, Refresh: 7200, Retry: 3600, Expire: 1209600, Minimum: 3600,
			},
		},
	}

	for _, rr := range cases {
		enc, err := rr.Encode()
		if err != nil {
			t.Fatalf("%v: Encode: %v", rr.Type, err)
		}

		rdlength := int(binary.BigEndian.Uint16(enc[len(enc)-len(mustRData(t, rr))-2 : len(enc)-len(mustRData(t, rr))]))
		if rdlength != len(mustRData(t, rr)) {
			t.Fatalf("%v: RDLENGTH %d != encoded rdata length %d", rr.Type, rdlength, len(mustRData(t, rr)))
		}

		got, next, err := DecodeRR(enc, 0)
		if err != nil {
			t.Fatalf("%v: DecodeRR: %v", rr.Type, err)
		}
		if next != len(enc) {
			t.Fatalf("%v: next = %d, want %d", rr.Type, next, len(enc))
		}
		if !reflect.DeepEqual(got, rr) {
			t.Fatalf("%v: roundtrip\n got=%+v\nwant=%+v", rr.Type, got, rr)
		}
	}
}

func mustRData(t *testing.T, rr RR) []byte {
	t.Helper()
	b, err := rr.Data.Encode()
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSOARDLengthEqualsNamesPlus20(t *testing.T) {
	data := SOAData{
		MName: "ns1.example.com", RName: "hostmaster.example.com",
		Serial: 20260109, Refresh: 7200, Retry: 3600, Expire: 1209600, Minimum: 3600,
	}
	mname, _ := EncodeName(data.MName)
	rname, _ := EncodeName(data.RName)

	rdata, err := data.Encode()
	if err != nil {
		t.Fatal(err)
	}
	want := len(mname) + len(rname) + 20
	if len(rdata) != want {
		t.Fatalf("rdata len = %d, want %d", len(rdata), want)
	}
}

func TestDecodeRRRejectsRDLengthMismatch(t *testing.T) {
	rr := RR{Name: "hello.test", Type: TypeNS, Class: ClassIN, TTL: 300, Data: NSData{Name: "ns1.hello.test"}}
	enc, err := rr.Encode()
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt RDLENGTH to be one byte short of the encoded name.
	rdlenOffset := len(enc) - len(mustRData(t, rr)) - 2
	badLen := binary.BigEndian.Uint16(enc[rdlenOffset:rdlenOffset+2]) - 1
	binary.BigEndian.PutUint16(enc[rdlenOffset:rdlenOffset+2], badLen)

	_, _, err = DecodeRR(enc, 0)
	if err != ErrRDLengthMismatch {
		t.Fatalf("err = %v, want ErrRDLengthMismatch", err)
	}
}

func TestDecodeRRUnsupportedTypeIsOpaque(t *testing.T) {
	rr := RR{Name: "hello.test", Type: 9999, Class: ClassIN, TTL: 60, Data: OpaqueData{Bytes: []byte{1, 2, 3}}}
	enc, err := rr.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := DecodeRR(enc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.Data.(OpaqueData); !ok {
		t.Fatalf("Data = %T, want OpaqueData", got.Data)
	}
}
