package wire

// Message is a full DNS message: header plus the four sections. OPT, if
// present, is one of the RRs in Additional (type 41) and is also
// exposed pre-parsed via the OPT field for convenience.
type Message struct {
	Header     Header
	Question   []Question
	Answer     []RR
	Authority  []RR
	Additional []RR
	OPT        *OPT
}

// Pack serializes the full message. Section counts in the header are
// computed from the slice lengths, not trusted from the caller.
func (m Message) Pack() ([]byte, error) {
	h := m.Header
	h.QDCount = uint16(len(m.Question))
	h.ANCount = uint16(len(m.Answer))
	h.NSCount = uint16(len(m.Authority))
	h.ARCount = uint16(len(m.Additional))

	buf := h.Encode()

	for _, q := range m.Question {
		b, err := q.Encode()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	for _, sections := range [][]RR{m.Answer, m.Authority, m.Additional} {
		for _, rr := range sections {
			b, err := rr.Encode()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
	}

	return buf, nil
}

// Unpack parses a full message: header, qdcount questions, ancount+
// nscount records (OPT disallowed there), and arcount additional records
// of which at most one may be OPT. Trailing bytes after the declared
// sections are rejected.
func Unpack(msg []byte) (Message, error) {
	h, err := DecodeHeader(msg)
	if err != nil {
		return Message{}, err
	}

	pos := HeaderSize

	var questions []Question
	for i := 0; i < int(h.QDCount); i++ {
		q, next, err := DecodeQuestion(msg, pos)
		if err != nil {
			return Message{}, err
		}
		questions = append(questions, q)
		pos = next
	}

	decodeSection := func(count int, allowOPT bool) ([]RR, error) {
		var rrs []RR
		seenOPT := false
		for i := 0; i < count; i++ {
			rr, next, err := DecodeRR(msg, pos)
			if err != nil {
				return nil, err
			}
			if rr.Type == TypeOPT {
				if !allowOPT {
					return nil, ErrOPTOutsideAdditional
				}
				if seenOPT {
					return nil, ErrMultipleOPT
				}
				seenOPT = true
			}
			rrs = append(rrs, rr)
			pos = next
		}
		return rrs, nil
	}

	answer, err := decodeSection(int(h.ANCount), false)
	if err != nil {
		return Message{}, err
	}
	authority, err := decodeSection(int(h.NSCount), false)
	if err != nil {
		return Message{}, err
	}
	additional, err := decodeSection(int(h.ARCount), true)
	if err != nil {
		return Message{}, err
	}

	if pos != len(msg) {
		return Message{}, ErrTrailingBytes
	}

	m := Message{
		Header:     h,
		Question:   questions,
		Answer:     answer,
		Authority:  authority,
		Additional: additional,
	}

	for _, rr := range additional {
		if rr.Type != TypeOPT {
			continue
		}
		opt, err := ParseOPT(rr)
		if err != nil {
			return Message{}, err
		}
		m.OPT = &opt
	}

	return m, nil
}
