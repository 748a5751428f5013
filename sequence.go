package dicom

import (
	"fmt"

	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// readSequenceInto implements spec.md §4.6. elem.Length and
// elem.HadUndefinedLength have already been populated by the caller
// (readImplicitElement / readExplicitElement) from the element header;
// this fills in elem.Sequence.
func readSequenceInto(s *dicomio.ByteStream, elem *Element, mode dicomio.VRMode, opts ParseOptions, depth int) error {
	if depth+1 > MaxSequenceDepth {
		return parseErrorf(s.Position(), "sequence nesting exceeds maximum supported depth (%d)", MaxSequenceDepth)
	}

	var items []*SequenceItem
	if elem.HadUndefinedLength {
		for {
			if s.Remaining() < 8 {
				s.AddWarning(fmt.Sprintf("reached end of buffer at offset %d while looking for the sequence delimitation item", s.Position()))
				elem.Length = uint32(s.Position() - elem.DataOffset)
				break
			}
			peeked, err := peekTag(s, s.Position())
			if err != nil {
				return err
			}
			if peeked == dicomtag.SequenceDelimitationItem {
				delimStart := s.Position()
				if _, err := readTag(s); err != nil {
					return err
				}
				delimLength, err := s.ReadU32()
				if err != nil {
					return err
				}
				if delimLength != 0 {
					s.AddWarning(fmt.Sprintf("sequence delimitation item at offset %d has non-zero length %d; treating as zero", delimStart, delimLength))
				}
				elem.Length = uint32(delimStart - elem.DataOffset)
				break
			}
			item, err := readSequenceItem(s, mode, opts, depth+1)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
	} else {
		// Known length: walk item-by-item until the stream reaches the
		// end of the sequence's declared range, then advance the stream
		// to exactly that position. Advancing by the parsed sub-range
		// (rather than trusting an accumulated running position) is the
		// fix called for by spec.md §6/§9: the source this was distilled
		// from lets a malformed inner item desynchronize the outer
		// sequence's bookkeeping.
		end := elem.DataOffset + int(elem.Length)
		for s.Position() < end {
			item, err := readSequenceItem(s, mode, opts, depth+1)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if err := s.SetPosition(end); err != nil {
			return err
		}
	}

	elem.Sequence = items
	return nil
}

// readSequenceItem reads one Item-tagged sub-dataset (spec.md §4.6 "Item
// parsing"). An item with a defined length is bounded by position; one
// with an undefined length is bounded by its own Item Delimitation Item.
func readSequenceItem(s *dicomio.ByteStream, mode dicomio.VRMode, opts ParseOptions, depth int) (*SequenceItem, error) {
	itemStart := s.Position()
	tag, err := readTag(s)
	if err != nil {
		return nil, err
	}
	if tag != dicomtag.Item {
		return nil, parseErrorf(itemStart, "expected item tag (fffe,e000), found %s", tag.String())
	}
	length, err := s.ReadU32()
	if err != nil {
		return nil, err
	}

	item := &SequenceItem{
		DataOffset:         s.Position(),
		HadUndefinedLength: length == dicomtag.UndefinedLength,
	}

	if item.HadUndefinedLength {
		elems, err := readDatasetBody(s, mode, opts, depth, -1, &dicomtag.ItemDelimitationItem)
		if err != nil {
			return nil, err
		}
		item.Elements = elems
		item.Length = uint32(s.Position() - 8 - item.DataOffset)
		return item, nil
	}

	end := item.DataOffset + int(length)
	elems, err := readDatasetBody(s, mode, opts, depth, end, nil)
	if err != nil {
		return nil, err
	}
	item.Elements = elems
	item.Length = length
	return item, nil
}
