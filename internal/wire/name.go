package wire

import "strings"

// maxJumps bounds the number of compression pointers a single name parse
// may follow, preventing quadratic-decode attacks against long chains of
// pointers.
const maxJumps = 50

// maxNameWire is the maximum encoded length (labels + length bytes + the
// terminating zero) of a domain name.
const maxNameWire = 255

// maxLabel is the maximum length of a single label.
const maxLabel = 63

// EncodeName encodes a domain name as a sequence of length-prefixed
// labels terminated by a zero-length label. It never emits compression
// pointers. A trailing dot on name is trimmed before splitting; the
// root name ("" or ".") encodes to a single zero byte.
func EncodeName(name string) ([]byte, error) {
	name = strings.TrimSuffix(name, ".")

	var labels []string
	if name != "" {
		labels = strings.Split(name, ".")
	}

	out := make([]byte, 0, maxNameWire)
	for _, label := range labels {
		if len(label) == 0 || len(label) > maxLabel {
			return nil, ErrLabelTooLong
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)

	if len(out) > maxNameWire {
		return nil, ErrNameTooLong
	}
	return out, nil
}

// DecodeName decodes a domain name starting at offset within msg,
// following compression pointers as needed. It returns the decoded name
// (without a trailing dot; the root name decodes to ".") and the offset
// of the first byte after the name as it appears at the outer call site
// — i.e. immediately after the pointer if a jump was taken, regardless
// of where the jump led.
func DecodeName(msg []byte, offset int) (name string, next int, err error) {
	if offset < 0 || offset > len(msg) {
		return "", 0, ErrOffsetOutOfRange
	}

	var labels []string
	pos := offset
	jumps := 0
	jumped := false
	nextOffset := -1
	visited := make(map[int]bool)

	for {
		if pos >= len(msg) {
			return "", 0, ErrTruncated
		}

		lengthByte := msg[pos]
		top2 := lengthByte & 0xC0

		switch top2 {
		case 0x00:
			length := int(lengthByte)
			if length == 0 {
				pos++
				if !jumped {
					nextOffset = pos
				}
				goto done
			}
			pos++
			if pos+length > len(msg) {
				return "", 0, ErrTruncated
			}
			labels = append(labels, string(msg[pos:pos+length]))
			pos += length

		case 0xC0:
			if pos+1 >= len(msg) {
				return "", 0, ErrTruncated
			}
			ptr := (int(lengthByte&0x3F) << 8) | int(msg[pos+1])
			if !jumped {
				nextOffset = pos + 2
			}
			jumped = true
			jumps++
			if jumps > maxJumps {
				return "", 0, ErrTooManyJumps
			}
			if ptr >= len(msg) {
				return "", 0, ErrOffsetOutOfRange
			}
			if visited[ptr] {
				return "", 0, ErrCompressionLoop
			}
			visited[ptr] = true
			pos = ptr

		default:
			return "", 0, ErrBadLabelLength
		}
	}

done:
	if len(labels) == 0 {
		return ".", nextOffset, nil
	}
	return strings.Join(labels, "."), nextOffset, nil
}
