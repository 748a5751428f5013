package dicom

import (
	"encoding/binary"

	"github.com/odincare/dcmp10/dicomtag"
)

// Helpers for building synthetic P10 buffers in-memory, the way
// GoogleCloudPlatform-go-dicom-parser's *_test.go files construct byte
// slices by hand (no fixture files are available in this environment).

func tagBytes(order binary.ByteOrder, tag dicomtag.Tag) []byte {
	b := make([]byte, 4)
	order.PutUint16(b[0:2], tag.Group)
	order.PutUint16(b[2:4], tag.Element)
	return b
}

func explicitElementWithLength(order binary.ByteOrder, tag dicomtag.Tag, vr string, length uint32, value []byte) []byte {
	b := tagBytes(order, tag)
	b = append(b, []byte(vr)...)
	if isLongFormVR(vr) {
		b = append(b, 0, 0)
		lenB := make([]byte, 4)
		order.PutUint32(lenB, length)
		b = append(b, lenB...)
	} else {
		lenB := make([]byte, 2)
		order.PutUint16(lenB, uint16(length))
		b = append(b, lenB...)
	}
	return append(b, value...)
}

func explicitElement(order binary.ByteOrder, tag dicomtag.Tag, vr string, value []byte) []byte {
	return explicitElementWithLength(order, tag, vr, uint32(len(value)), value)
}

func implicitElement(order binary.ByteOrder, tag dicomtag.Tag, value []byte) []byte {
	b := tagBytes(order, tag)
	lenB := make([]byte, 4)
	order.PutUint32(lenB, uint32(len(value)))
	b = append(b, lenB...)
	return append(b, value...)
}

func itemHeader(order binary.ByteOrder, length uint32) []byte {
	b := tagBytes(order, dicomtag.Item)
	lenB := make([]byte, 4)
	order.PutUint32(lenB, length)
	return append(b, lenB...)
}

func delimiterBytes(order binary.ByteOrder, tag dicomtag.Tag) []byte {
	b := tagBytes(order, tag)
	return append(b, 0, 0, 0, 0)
}

func padEven(s string) string {
	if len(s)%2 != 0 {
		return s + "\x00"
	}
	return s
}

// buildP10File assembles a full buffer: 128-byte preamble + DICM + a
// minimal explicit-LE meta-header naming transferSyntaxUID + body.
func buildP10File(transferSyntaxUID string, body []byte) []byte {
	var buf []byte
	buf = append(buf, make([]byte, 128)...)
	buf = append(buf, []byte("DICM")...)
	buf = append(buf, explicitElement(binary.LittleEndian, dicomtag.TransferSyntaxUID, "UI", []byte(padEven(transferSyntaxUID)))...)
	buf = append(buf, body...)
	return buf
}
