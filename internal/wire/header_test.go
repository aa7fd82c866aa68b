package wire

import "testing"

func TestHeaderRoundtrip(t *testing.T) {
	h := Header{
		ID:      0x1234,
		QR:      true,
		Opcode:  0,
		AA:      true,
		TC:      false,
		RD:      true,
		RA:      false,
		Z:       0,
		Rcode:   0,
		QDCount: 1,
		ANCount: 1,
		NSCount: 0,
		ARCount: 1,
	}
	enc := h.Encode()
	if len(enc) != HeaderSize {
		t.Fatalf("len = %d, want %d", len(enc), HeaderSize)
	}
	got, err := DecodeHeader(enc)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Fatalf("roundtrip %+v => %+v", h, got)
	}
}

func TestHeaderValidateRejectsBadFields(t *testing.T) {
	cases := []Header{
		{Opcode: 3},
		{Z: 8},
		{Rcode: 16},
	}
	for _, h := range cases {
		if err := h.Validate(); err != ErrInvalidHeader {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidHeader", h, err)
		}
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	_, err := DecodeHeader(make([]byte, 11))
	if err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}
