package dicom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/odincare/dcmp10/dicomtag"
)

// This file implements the VR-specific accessor layer spec.md §6
// describes as a collaborator interface and SPEC_FULL.md §4 calls out as
// a supplemented feature: thin, pure views over an already-built Dataset.
// None of this participates in parsing; it only interprets bytes a
// Element already located.

func (d *Dataset) elementFor(tag dicomtag.Tag) (*Element, error) {
	e, ok := d.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("dicom: tag %s not found", tag.String())
	}
	return e, nil
}

func (d *Dataset) rawBytes(e *Element) ([]byte, error) {
	if e.DataOffset < 0 || e.DataOffset+int(e.Length) > len(d.buf) {
		return nil, fmt.Errorf("dicom: element %s data range is out of bounds", e.Tag)
	}
	return d.buf[e.DataOffset : e.DataOffset+int(e.Length)], nil
}

// UInt16 reads the index'th 2-byte unsigned value of tag (US, AT halves,
// etc.) using the dataset's active byte order.
func (d *Dataset) UInt16(tag dicomtag.Tag, index int) (uint16, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return 0, err
	}
	return d.order.ReadU16(d.buf, e.DataOffset+index*2)
}

// Int16 reads the index'th 2-byte signed value of tag (SS).
func (d *Dataset) Int16(tag dicomtag.Tag, index int) (int16, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return 0, err
	}
	return d.order.ReadI16(d.buf, e.DataOffset+index*2)
}

// UInt32 reads the index'th 4-byte unsigned value of tag (UL).
func (d *Dataset) UInt32(tag dicomtag.Tag, index int) (uint32, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return 0, err
	}
	return d.order.ReadU32(d.buf, e.DataOffset+index*4)
}

// Int32 reads the index'th 4-byte signed value of tag (SL).
func (d *Dataset) Int32(tag dicomtag.Tag, index int) (int32, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return 0, err
	}
	return d.order.ReadI32(d.buf, e.DataOffset+index*4)
}

// Float reads the index'th 4-byte IEEE-754 value of tag (FL).
func (d *Dataset) Float(tag dicomtag.Tag, index int) (float32, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return 0, err
	}
	return d.order.ReadF32(d.buf, e.DataOffset+index*4)
}

// Double reads the index'th 8-byte IEEE-754 value of tag (FD).
func (d *Dataset) Double(tag dicomtag.Tag, index int) (float64, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return 0, err
	}
	return d.order.ReadF64(d.buf, e.DataOffset+index*8)
}

// AttributeTag reads tag's value as an AT: a <group, element> pair packed
// as two consecutive 2-byte values.
func (d *Dataset) AttributeTag(tag dicomtag.Tag) (dicomtag.Tag, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return dicomtag.Tag{}, err
	}
	group, err := d.order.ReadU16(d.buf, e.DataOffset)
	if err != nil {
		return dicomtag.Tag{}, err
	}
	element, err := d.order.ReadU16(d.buf, e.DataOffset+2)
	if err != nil {
		return dicomtag.Tag{}, err
	}
	return dicomtag.New(group, element), nil
}

// trimForVR applies spec.md §6's per-VR trimming rule: DS/IS/AE/CS/SH/LO
// trim both leading and trailing padding; DT/PN/TM/LT/ST/UT trim only
// trailing padding (leading space is significant for some of these, e.g.
// a PN component). Anything else defaults to trailing-only, matching the
// VRs PS3.5 6.2 actually defines padding for.
func trimForVR(vr, s string) string {
	switch vr {
	case "DS", "IS", "AE", "CS", "SH", "LO":
		return strings.TrimSpace(strings.TrimRight(s, "\x00"))
	default:
		return strings.TrimRight(s, " \x00")
	}
}

// String returns the index'th backslash-separated component of tag's
// value, after VR-specific trimming.
func (d *Dataset) String(tag dicomtag.Tag, index int) (string, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return "", err
	}
	raw, err := d.rawBytes(e)
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimRight(string(raw), "\x00"), "\\")
	if index < 0 || index >= len(parts) {
		return "", fmt.Errorf("dicom: index %d out of range for tag %s (%d value(s))", index, tag.String(), len(parts))
	}
	return trimForVR(e.VR, parts[index]), nil
}

// Text returns tag's entire value as one string (for single-valued text
// VRs -- ST/LT/UT -- which may legally contain a backslash that isn't a
// value separator).
func (d *Dataset) Text(tag dicomtag.Tag) (string, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return "", err
	}
	raw, err := d.rawBytes(e)
	if err != nil {
		return "", err
	}
	return trimForVR(e.VR, string(raw)), nil
}

// NumStringValues counts tag's backslash-separated components.
func (d *Dataset) NumStringValues(tag dicomtag.Tag) (int, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return 0, err
	}
	raw, err := d.rawBytes(e)
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimRight(string(raw), "\x00")
	if trimmed == "" {
		return 0, nil
	}
	return len(strings.Split(trimmed, "\\")), nil
}

// FloatString parses the index'th component of a DS (decimal string)
// value.
func (d *Dataset) FloatString(tag dicomtag.Tag, index int) (float64, error) {
	s, err := d.String(tag, index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("dicom: parsing DS value %q of tag %s: %w", s, tag.String(), err)
	}
	return v, nil
}

// IntString parses the index'th component of an IS (integer string)
// value.
func (d *Dataset) IntString(tag dicomtag.Tag, index int) (int64, error) {
	s, err := d.String(tag, index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("dicom: parsing IS value %q of tag %s: %w", s, tag.String(), err)
	}
	return v, nil
}

// Frame looks up tag and returns its index'th pixel frame via
// Element.Frame (pixeldata.go).
func (d *Dataset) Frame(tag dicomtag.Tag, index int) ([]byte, error) {
	e, err := d.elementFor(tag)
	if err != nil {
		return nil, err
	}
	return e.Frame(d.buf, index)
}
