package wire

import (
	"bytes"
	"testing"
)

func TestNameRoundtrip(t *testing.T) {
	cases := []string{".", "hello.test", "a.b.hello.test", "example.com"}
	for _, name := range cases {
		enc, err := EncodeName(name)
		if err != nil {
			t.Fatalf("EncodeName(%q): %v", name, err)
		}
		got, next, err := DecodeName(enc, 0)
		if err != nil {
			t.Fatalf("DecodeName(%q): %v", name, err)
		}
		if next != len(enc) {
			t.Fatalf("DecodeName(%q) next = %d, want %d", name, next, len(enc))
		}
		if got != name {
			t.Fatalf("roundtrip %q => %q", name, got)
		}
	}
}

func TestEncodeNameRootIsZeroByte(t *testing.T) {
	enc, err := EncodeName(".")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(enc, []byte{0}) {
		t.Fatalf("root encoding = %v, want [0]", enc)
	}
}

func TestDecodeNameCompressionPointer(t *testing.T) {
	// "hello.test." at offset 0, then a name at offset N that's just a
	// pointer back to offset 0.
	base, err := EncodeName("hello.test")
	if err != nil {
		t.Fatal(err)
	}
	msg := append([]byte(nil), base...)
	ptrOffset := len(msg)
	msg = append(msg, 0xC0, 0x00) // pointer to offset 0
	msg = append(msg, 0xFF)       // trailing byte after the name, to verify "next" stops at the pointer

	name, next, err := DecodeName(msg, ptrOffset)
	if err != nil {
		t.Fatalf("DecodeName: %v", err)
	}
	if name != "hello.test" {
		t.Fatalf("name = %q, want hello.test", name)
	}
	if next != ptrOffset+2 {
		t.Fatalf("next = %d, want %d (first byte after the pointer at the outer call site)", next, ptrOffset+2)
	}
}

func TestDecodeNameCompressionLoop(t *testing.T) {
	msg := []byte{0xC0, 0x00} // pointer to itself
	_, _, err := DecodeName(msg, 0)
	if err != ErrCompressionLoop {
		t.Fatalf("err = %v, want ErrCompressionLoop", err)
	}
}

func TestDecodeNameTooManyJumps(t *testing.T) {
	// Build a chain of 51 two-byte pointers, each pointing to the next,
	// terminated by a real zero-length label.
	const jumps = 51
	msg := make([]byte, 0, jumps*2+1)
	for i := 0; i < jumps; i++ {
		target := uint16(len(msg) + 2)
		msg = append(msg, 0xC0|byte(target>>8), byte(target))
	}
	msg = append(msg, 0)

	_, _, err := DecodeName(msg, 0)
	if err != ErrTooManyJumps {
		t.Fatalf("err = %v, want ErrTooManyJumps", err)
	}
}

func TestDecodeNameBadLabelLength(t *testing.T) {
	msg := []byte{0x80, 0x00} // top bits 10, reserved
	_, _, err := DecodeName(msg, 0)
	if err != ErrBadLabelLength {
		t.Fatalf("err = %v, want ErrBadLabelLength", err)
	}
}

func TestDecodeNameTruncated(t *testing.T) {
	msg := []byte{5, 'h', 'e', 'l'} // length byte says 5, only 3 bytes follow
	_, _, err := DecodeName(msg, 0)
	if err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestEncodeNameLabelTooLong(t *testing.T) {
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	_, err := EncodeName(string(long) + ".test")
	if err != ErrLabelTooLong {
		t.Fatalf("err = %v, want ErrLabelTooLong", err)
	}
}
