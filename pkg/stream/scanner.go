package stream

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
)

var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Scanner finds the boundaries of consecutive JSON texts in a byte
// stream which has no framing of its own. Values may be separated by
// whitespace, or by nothing at all.
//
// The scanner only tracks structure (brackets, strings and escapes); it
// does not validate the bytes it returns. That is left to whoever
// decodes them, which means a malformed value still has a boundary and
// scanning carries on after it.
type Scanner struct {
	r      *bufio.Reader
	buf    bytes.Buffer
	offset int64
	start  int64
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Offset returns the stream offset at which the last value returned by
// Next began.
func (s *Scanner) Offset() int64 {
	return s.start
}

// Next blocks until it has read one complete value and returns its
// bytes. It returns io.EOF if the stream ended cleanly between values
// and io.ErrUnexpectedEOF if it ended part way through one. Any other
// error comes from the underlying reader.
func (s *Scanner) Next() ([]byte, error) {
	s.buf.Reset()

	c, err := s.skipSpace()
	if err != nil {
		return nil, err
	}
	s.start = s.offset - 1
	s.buf.WriteByte(c)

	switch c {
	case '{', '[':
		err = s.scanComposite()
	case '"':
		err = s.scanString()
	case '}', ']', ',', ':':
		// A stray structural byte is returned on its own so that it is
		// reported as a bad value rather than glued onto the next one.
	default:
		err = s.scanBare()
	}
	if err != nil {
		return nil, err
	}

	return bytes.Clone(s.buf.Bytes()), nil
}

func (s *Scanner) readByte() (byte, error) {
	c, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	s.offset++
	return c, nil
}

func (s *Scanner) skipSpace() (byte, error) {
	for {
		c, err := s.readByte()
		if err != nil {
			return 0, err
		}
		if !isSpace(c) {
			return c, nil
		}
	}
}

// scanComposite reads up to and including the bracket which closes the
// object or array opened by the byte already in the buffer.
func (s *Scanner) scanComposite() error {
	depth := 1
	for depth > 0 {
		c, err := s.readByte()
		if err != nil {
			return unexpected(err)
		}
		s.buf.WriteByte(c)

		switch c {
		case '"':
			if err := s.scanString(); err != nil {
				return err
			}
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
	}
	return nil
}

// scanString reads up to and including the closing quote of a string
// whose opening quote is already in the buffer.
func (s *Scanner) scanString() error {
	for {
		c, err := s.readByte()
		if err != nil {
			return unexpected(err)
		}
		s.buf.WriteByte(c)

		switch c {
		case '\\':
			c, err = s.readByte()
			if err != nil {
				return unexpected(err)
			}
			s.buf.WriteByte(c)
		case '"':
			return nil
		}
	}
}

// scanBare reads a number, a literal or a run of garbage. It ends just
// before the next whitespace or structural byte, which is left unread.
// A bare value cut off by the end of the stream only counts if it is a
// complete literal or number.
func (s *Scanner) scanBare() error {
	for {
		c, err := s.r.ReadByte()
		if err == io.EOF {
			if completeBare(s.buf.Bytes()) {
				return nil
			}
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}
		if isSpace(c) || isDelim(c) {
			return s.r.UnreadByte()
		}
		s.offset++
		s.buf.WriteByte(c)
	}
}

// completeBare reports whether b is a whole literal or number, rather
// than the prefix of one.
func completeBare(b []byte) bool {
	switch string(b) {
	case "true", "false", "null":
		return true
	}
	return numberPattern.Match(b)
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelim(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '"', ',', ':':
		return true
	}
	return false
}
