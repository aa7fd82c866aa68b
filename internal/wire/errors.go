// Package wire implements DNS message encoding and decoding: the header,
// question, resource-record, and OPT pseudo-RR wire formats, including
// name compression with loop and jump-count protection.
package wire

import "errors"

var (
	// ErrTruncated covers any read that runs past the end of the message.
	ErrTruncated = errors.New("wire: message truncated")
	// ErrNameTooLong is returned when an encoded name would exceed 255 bytes.
	ErrNameTooLong = errors.New("wire: encoded name exceeds 255 bytes")
	// ErrLabelTooLong is returned when a single label exceeds 63 bytes.
	ErrLabelTooLong = errors.New("wire: label exceeds 63 bytes")
	// ErrTooManyJumps is returned when a name parse follows more than 50
	// compression pointers.
	ErrTooManyJumps = errors.New("wire: too many compression pointer jumps")
	// ErrCompressionLoop is returned when a pointer target is revisited
	// during the same name parse.
	ErrCompressionLoop = errors.New("wire: compression pointer loop")
	// ErrBadLabelLength is returned for a length byte whose top two bits
	// are 10 or 01 (reserved label types).
	ErrBadLabelLength = errors.New("wire: invalid label length byte")
	// ErrOffsetOutOfRange is returned when a compression pointer targets
	// an offset outside the message.
	ErrOffsetOutOfRange = errors.New("wire: compression pointer offset out of range")
	// ErrRDLengthMismatch is returned when an RR's rdata does not fully
	// consume its declared RDLENGTH.
	ErrRDLengthMismatch = errors.New("wire: rdata length does not match RDLENGTH")
	// ErrUnsupportedType is returned for a record type this codec cannot
	// encode structured rdata for.
	ErrUnsupportedType = errors.New("wire: unsupported record type")
	// ErrTrailingBytes is returned when a message has bytes left over
	// after all declared sections are consumed.
	ErrTrailingBytes = errors.New("wire: trailing bytes after message sections")
	// ErrMultipleOPT is returned when more than one OPT RR appears in the
	// additional section.
	ErrMultipleOPT = errors.New("wire: more than one OPT record")
	// ErrOPTOutsideAdditional is returned when an OPT type RR is found in
	// the answer or authority sections.
	ErrOPTOutsideAdditional = errors.New("wire: OPT record outside additional section")
	// ErrBadCookieLength is returned for a DNS Cookie option whose client
	// or server cookie length is invalid.
	ErrBadCookieLength = errors.New("wire: invalid DNS Cookie length")
	// ErrInvalidHeader is returned when a header field is out of its
	// declared range (opcode, z, rcode).
	ErrInvalidHeader = errors.New("wire: invalid header field")
	// ErrInvalidRData is returned when fixed-width rdata (A, AAAA) has
	// the wrong length, or a TXT chunk exceeds 255 bytes.
	ErrInvalidRData = errors.New("wire: invalid rdata")
)
