package dicom

import (
	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// readTag reads a <group, element> pair using the stream's active byte
// order and advances the cursor by 4 bytes (spec C3).
func readTag(s *dicomio.ByteStream) (dicomtag.Tag, error) {
	group, err := s.ReadU16()
	if err != nil {
		return dicomtag.Tag{}, err
	}
	element, err := s.ReadU16()
	if err != nil {
		return dicomtag.Tag{}, err
	}
	return dicomtag.New(group, element), nil
}

// peekTag reads a <group, element> pair at an absolute position without
// moving the cursor. Used for implicit-VR sequence-detection lookahead
// (spec.md §4.4) and for delimiter scanning (spec.md §4.5).
func peekTag(s *dicomio.ByteStream, pos int) (dicomtag.Tag, error) {
	group, err := s.PeekU16At(pos)
	if err != nil {
		return dicomtag.Tag{}, err
	}
	element, err := s.PeekU16At(pos + 2)
	if err != nil {
		return dicomtag.Tag{}, err
	}
	return dicomtag.New(group, element), nil
}
