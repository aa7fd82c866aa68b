package wire

import (
	"encoding/hex"
	"testing"
)

func TestDecodeCookieClientOnly(t *testing.T) {
	client := []byte{0x1A, 0x60, 0x9B, 0x45, 0x3C, 0xE6, 0x9B, 0x6B}
	c, err := DecodeCookie(client)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Server) != 0 {
		t.Fatalf("server cookie = %v, want empty", c.Server)
	}
	if c.Encode()[0] != 0x1A {
		t.Fatalf("re-encoded client cookie mismatch")
	}
}

func TestDecodeCookieBadLengths(t *testing.T) {
	cases := [][]byte{
		make([]byte, 7),  // too short for a client cookie
		make([]byte, 12), // server cookie present but only 4 bytes
		make([]byte, 41), // server cookie 33 bytes, over the 32 max
	}
	for _, data := range cases {
		if _, err := DecodeCookie(data); err != ErrBadCookieLength {
			t.Errorf("DecodeCookie(len=%d) err = %v, want ErrBadCookieLength", len(data), err)
		}
	}
}

// TestParseMessageWithDNSCookie decodes the exact hex message from the
// spec's S6 scenario: id=0xC94E, one question hello.net A/IN, one OPT
// with UDP payload 4096 and client cookie 1A609B453CE69B6B, no server
// cookie.
func TestParseMessageWithDNSCookie(t *testing.T) {
	raw, err := hex.DecodeString("C94E012000010000000000010568656C6C6F036E65740000010001000029100000000000000C000A00081A609B453CE69B6B")
	if err != nil {
		t.Fatal(err)
	}

	msg, err := Unpack(raw)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	if msg.Header.ID != 0xC94E {
		t.Fatalf("ID = %#x, want 0xC94E", msg.Header.ID)
	}
	if len(msg.Question) != 1 {
		t.Fatalf("questions = %d, want 1", len(msg.Question))
	}
	q := msg.Question[0]
	if q.Name != "hello.net" || q.QType != TypeA || q.QClass != ClassIN {
		t.Fatalf("question = %+v", q)
	}

	if msg.OPT == nil {
		t.Fatal("expected an OPT record")
	}
	if msg.OPT.UDPSize != 4096 {
		t.Fatalf("UDPSize = %d, want 4096", msg.OPT.UDPSize)
	}
	if msg.OPT.DO {
		t.Fatal("DO should not be set")
	}

	cookie, ok, err := msg.OPT.Cookie()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a DNS Cookie option")
	}
	wantClient := [8]byte{0x1A, 0x60, 0x9B, 0x45, 0x3C, 0xE6, 0x9B, 0x6B}
	if cookie.Client != wantClient {
		t.Fatalf("client cookie = %x, want %x", cookie.Client, wantClient)
	}
	if len(cookie.Server) != 0 {
		t.Fatalf("server cookie = %x, want empty", cookie.Server)
	}
}

func TestBuildAndParseOPTRoundtrip(t *testing.T) {
	o := OPT{
		UDPSize: 4096,
		DO:      true,
		Options: []Option{{
			Code: OptCodeCookie,
			Data: Cookie{Client: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}.Encode(),
		}},
	}
	rr := BuildOPT(o)
	enc, err := rr.Encode()
	if err != nil {
		t.Fatal(err)
	}

	decodedRR, next, err := DecodeRR(enc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if next != len(enc) {
		t.Fatalf("next = %d, want %d", next, len(enc))
	}

	got, err := ParseOPT(decodedRR)
	if err != nil {
		t.Fatal(err)
	}
	if got.UDPSize != 4096 || !got.DO {
		t.Fatalf("parsed OPT = %+v", got)
	}
	cookie, ok, err := got.Cookie()
	if err != nil || !ok {
		t.Fatalf("Cookie() = %+v, %v, %v", cookie, ok, err)
	}
}
