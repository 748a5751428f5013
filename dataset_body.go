package dicom

import (
	"fmt"

	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// readDatasetBody drives the element reader across a byte range, building
// an element map. It stops when s.Position() reaches maxPos (if maxPos is
// non-negative), or when the next tag equals *stopTag (if stopTag is
// non-nil), consuming that delimiter's 8-byte header without inserting it.
// At least one of the two bounds must be supplied. It reads the bodies of
// sequence items (C6, either bound); the top-level dataset walker (C8,
// walker.go) has its own loop. UntilTag is not honored inside these
// nested bodies.
func readDatasetBody(s *dicomio.ByteStream, mode dicomio.VRMode, opts ParseOptions, depth int, maxPos int, stopTag *dicomtag.Tag) (map[string]*Element, error) {
	opts.UntilTag = ""
	elems := make(map[string]*Element)
	for {
		if maxPos >= 0 && s.Position() >= maxPos {
			return elems, nil
		}
		if stopTag != nil {
			if s.Remaining() < 8 {
				s.AddWarning(fmt.Sprintf("reached end of buffer while searching for %s; stopping early", stopTag.String()))
				return elems, nil
			}
			peeked, err := peekTag(s, s.Position())
			if err != nil {
				return nil, err
			}
			if peeked == *stopTag {
				if _, err := readTag(s); err != nil {
					return nil, err
				}
				delimLength, err := s.ReadU32()
				if err != nil {
					return nil, err
				}
				if delimLength != 0 {
					s.AddWarning(fmt.Sprintf("%s at offset %d has non-zero length %d; treating as zero", stopTag.String(), s.Position()-8, delimLength))
				}
				return elems, nil
			}
		}

		childElem, _, err := readElement(s, mode, opts, depth)
		if err != nil {
			return nil, err
		}
		elems[childElem.Tag] = childElem
	}
}
