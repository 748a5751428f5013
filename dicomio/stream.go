package dicomio

import (
	"fmt"
)

// ByteStream is a cursor over a borrowed buffer: the current position, the
// active byte-array reader strategy, and the warning log accumulated so
// far (spec C2). Every read advances the position; every read is bounds
// checked by the active ByteOrder. A ByteStream never mutates or copies
// its buffer -- elements built while reading one keep offsets into that
// same buffer.
type ByteStream struct {
	buf      []byte
	order    ByteOrder
	pos      int
	warnings *[]string
}

// NewByteStream creates a cursor over buf at position 0, using order as the
// active byte-array reader strategy.
func NewByteStream(buf []byte, order ByteOrder) *ByteStream {
	return &ByteStream{buf: buf, order: order, pos: 0, warnings: new([]string)}
}

// WithOrder returns a view of the same buffer, position and warning log,
// but with a different active strategy. Used to switch a single recursive
// call into implicit-VR mode (e.g. a UN element with undefined length)
// without mutating any global or enclosing state.
func (s *ByteStream) WithOrder(order ByteOrder) *ByteStream {
	return &ByteStream{buf: s.buf, order: order, pos: s.pos, warnings: s.warnings}
}

// Order returns the stream's active byte-array reader strategy.
func (s *ByteStream) Order() ByteOrder { return s.order }

// Position returns the current absolute offset into the underlying buffer.
func (s *ByteStream) Position() int { return s.pos }

// SetPosition forces the cursor to an absolute offset. Used by callers
// (e.g. the P10 header reader) that need to rewind after a lookahead.
func (s *ByteStream) SetPosition(pos int) error {
	if pos < 0 || pos > len(s.buf) {
		return fmt.Errorf("dicomio: SetPosition(%d) out of bounds [0, %d]", pos, len(s.buf))
	}
	s.pos = pos
	return nil
}

// Size returns the total size of the underlying buffer.
func (s *ByteStream) Size() int { return len(s.buf) }

// Remaining returns the number of unread bytes to the end of the buffer.
func (s *ByteStream) Remaining() int { return len(s.buf) - s.pos }

// EOF reports whether the cursor has reached the end of the buffer.
func (s *ByteStream) EOF() bool { return s.pos >= len(s.buf) }

// Buffer returns the full underlying buffer the stream was built over.
// Callers use this together with Position to borrow zero-copy slices.
func (s *ByteStream) Buffer() []byte { return s.buf }

// Seek moves the cursor by a relative signed delta. It fails without
// moving the cursor if the target would fall outside [0, size].
func (s *ByteStream) Seek(delta int) error {
	target := s.pos + delta
	if target < 0 || target > len(s.buf) {
		return fmt.Errorf("dicomio: seek(%d) from %d out of bounds [0, %d]", delta, s.pos, len(s.buf))
	}
	s.pos = target
	return nil
}

// ReadU16 reads a 16-bit unsigned integer at the current position using
// the active strategy and advances the cursor by 2 bytes.
func (s *ByteStream) ReadU16() (uint16, error) {
	v, err := s.order.ReadU16(s.buf, s.pos)
	if err != nil {
		return 0, err
	}
	s.pos += 2
	return v, nil
}

// ReadU32 reads a 32-bit unsigned integer at the current position using
// the active strategy and advances the cursor by 4 bytes.
func (s *ByteStream) ReadU32() (uint32, error) {
	v, err := s.order.ReadU32(s.buf, s.pos)
	if err != nil {
		return 0, err
	}
	s.pos += 4
	return v, nil
}

// PeekU16At reads a 16-bit unsigned integer at an absolute position
// without moving the cursor. Used for sequence-detection lookahead in
// implicit VR and for delimiter scanning.
func (s *ByteStream) PeekU16At(pos int) (uint16, error) {
	return s.order.ReadU16(s.buf, pos)
}

// PeekU32At reads a 32-bit unsigned integer at an absolute position
// without moving the cursor.
func (s *ByteStream) PeekU32At(pos int) (uint32, error) {
	return s.order.ReadU32(s.buf, pos)
}

// ReadFixedString consumes exactly n bytes and returns the ASCII prefix up
// to (but not including) the first NUL byte; the remainder of the n bytes
// is discarded from the returned string but still consumed from the
// stream.
func (s *ByteStream) ReadFixedString(n int) (string, error) {
	if err := boundsCheck(s.buf, s.pos, n); err != nil {
		return "", err
	}
	raw := s.buf[s.pos : s.pos+n]
	s.pos += n
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end]), nil
}

// ReadBytes returns a zero-copy slice of the next n bytes and advances the
// cursor past them.
func (s *ByteStream) ReadBytes(n int) ([]byte, error) {
	if err := boundsCheck(s.buf, s.pos, n); err != nil {
		return nil, err
	}
	v := s.buf[s.pos : s.pos+n]
	s.pos += n
	return v, nil
}

// ReadSubStream carves out a new stream over the next n bytes, addressed
// from position 0 of that view, and advances this (outer) stream past
// those n bytes. The view shares the same backing array (zero copy); it is
// meant for small self-contained reads (e.g. the basic offset table) whose
// values don't need to carry absolute offsets back into the original
// buffer.
func (s *ByteStream) ReadSubStream(n int) (*ByteStream, error) {
	if err := boundsCheck(s.buf, s.pos, n); err != nil {
		return nil, err
	}
	view := s.buf[s.pos : s.pos+n]
	s.pos += n
	return NewByteStream(view, s.order), nil
}

// AddWarning appends msg to the shared warning log. It never fails; the
// log is copied onto the finished Dataset when parsing completes.
func (s *ByteStream) AddWarning(msg string) {
	*s.warnings = append(*s.warnings, msg)
}

// Warnings returns the warnings accumulated on this stream (and any
// streams derived from it via WithOrder) so far, in the order recorded.
func (s *ByteStream) Warnings() []string {
	return *s.warnings
}
