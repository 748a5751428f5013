package dicomio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ByteOrder is an endian-specific, bounds-checked fixed-width reader over a
// borrowed byte slice. Unlike encoding/binary.ByteOrder, every method takes
// an absolute position and reports an error rather than panicking when the
// read would run past the end of the buffer. The buffer is never copied or
// mutated.
type ByteOrder interface {
	ReadU16(buf []byte, pos int) (uint16, error)
	ReadI16(buf []byte, pos int) (int16, error)
	ReadU32(buf []byte, pos int) (uint32, error)
	ReadI32(buf []byte, pos int) (int32, error)
	ReadF32(buf []byte, pos int) (float32, error)
	ReadF64(buf []byte, pos int) (float64, error)

	// Native returns the stdlib binary.ByteOrder with the same endianness,
	// for callers (e.g. the charset/accessor layer) that want to decode
	// whole slices at once rather than one field at a time.
	Native() binary.ByteOrder
}

// LittleEndian and BigEndian are the two byte-array reader strategies
// selected by transfer syntax (spec C1).
var (
	LittleEndian ByteOrder = endianReader{binary.LittleEndian}
	BigEndian    ByteOrder = endianReader{binary.BigEndian}
)

type endianReader struct {
	order binary.ByteOrder
}

func boundsCheck(buf []byte, pos, width int) error {
	if pos < 0 {
		return fmt.Errorf("dicomio: negative position %d", pos)
	}
	if pos+width > len(buf) {
		return fmt.Errorf("dicomio: out of bounds: position %d, width %d, buffer size %d", pos, width, len(buf))
	}
	return nil
}

func (r endianReader) Native() binary.ByteOrder { return r.order }

func (r endianReader) ReadU16(buf []byte, pos int) (uint16, error) {
	if err := boundsCheck(buf, pos, 2); err != nil {
		return 0, err
	}
	return r.order.Uint16(buf[pos : pos+2]), nil
}

func (r endianReader) ReadI16(buf []byte, pos int) (int16, error) {
	v, err := r.ReadU16(buf, pos)
	return int16(v), err
}

func (r endianReader) ReadU32(buf []byte, pos int) (uint32, error) {
	if err := boundsCheck(buf, pos, 4); err != nil {
		return 0, err
	}
	return r.order.Uint32(buf[pos : pos+4]), nil
}

func (r endianReader) ReadI32(buf []byte, pos int) (int32, error) {
	v, err := r.ReadU32(buf, pos)
	return int32(v), err
}

func (r endianReader) ReadF32(buf []byte, pos int) (float32, error) {
	v, err := r.ReadU32(buf, pos)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r endianReader) ReadF64(buf []byte, pos int) (float64, error) {
	if err := boundsCheck(buf, pos, 8); err != nil {
		return 0, err
	}
	return math.Float64frombits(r.order.Uint64(buf[pos : pos+8])), nil
}
