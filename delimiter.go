package dicom

import (
	"fmt"

	"github.com/odincare/dcmp10/dicomio"
)

// searchDelimiter implements spec.md §4.5: scan for the Item
// Delimitation Item tuple (group=0xFFFE, element=0xE00D, length=u32) and
// set elem.Length to the distance from elem.DataOffset to the byte
// following the fully-consumed delimiter. This bounds an undefined-length
// element whose VR doesn't otherwise nest (i.e. anything that isn't a
// sequence, encapsulated pixel data, or a UN-with-undefined-length
// implicit sub-dataset).
func searchDelimiter(s *dicomio.ByteStream, elem *Element) error {
	pos := s.Position()
	size := s.Size()

	for size-pos >= 8 {
		group, err := s.PeekU16At(pos)
		if err != nil {
			return err
		}
		if group == 0xFFFE {
			element, err := s.PeekU16At(pos + 2)
			if err != nil {
				return err
			}
			if element == 0xE00D {
				delimLength, err := s.PeekU32At(pos + 4)
				if err != nil {
					return err
				}
				if delimLength != 0 {
					s.AddWarning(fmt.Sprintf("item delimitation item at offset %d has non-zero length %d; treating as zero", pos, delimLength))
				}
				end := pos + 8
				if err := s.SetPosition(end); err != nil {
					return err
				}
				elem.Length = uint32(end - elem.DataOffset)
				return nil
			}
		}
		pos += 2
	}

	// Tolerated anomaly: EOF reached before the delimiter (spec.md §7.2).
	s.AddWarning(fmt.Sprintf("reached end of buffer while searching for a delimiter for element at offset %d; length set to end of buffer", elem.DataOffset))
	elem.Length = uint32(size - elem.DataOffset)
	return s.SetPosition(size)
}
