package dicom

import (
	"fmt"

	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// readEncapsulatedPixelData implements spec.md §4.7: the first item after
// the PixelData header is always the Basic Offset Table, followed by zero
// or more fragment items, terminated by a Sequence Delimitation Item.
func readEncapsulatedPixelData(s *dicomio.ByteStream, elem *Element) error {
	botStart := s.Position()
	tag, err := readTag(s)
	if err != nil {
		return err
	}
	if tag != dicomtag.Item {
		return parseErrorf(botStart, "expected basic offset table item (fffe,e000), found %s", tag.String())
	}
	botLength, err := s.ReadU32()
	if err != nil {
		return err
	}
	if botLength == dicomtag.UndefinedLength {
		return parseErrorf(botStart, "basic offset table item has undefined length")
	}
	bot, err := readBasicOffsetTable(s, int(botLength))
	if err != nil {
		return err
	}
	elem.BasicOffsetTable = bot
	fragmentAreaStart := s.Position()

	var fragments []Fragment
	for {
		if s.Remaining() < 8 {
			s.AddWarning(fmt.Sprintf("reached end of buffer at offset %d while looking for the sequence delimitation item terminating encapsulated pixel data", s.Position()))
			elem.Length = uint32(s.Position() - elem.DataOffset)
			elem.Fragments = fragments
			return nil
		}

		fragStart := s.Position()
		fragTag, err := readTag(s)
		if err != nil {
			return err
		}

		if fragTag == dicomtag.SequenceDelimitationItem {
			delimLength, err := s.ReadU32()
			if err != nil {
				return err
			}
			if delimLength != 0 {
				s.AddWarning(fmt.Sprintf("sequence delimitation item at offset %d has non-zero length %d; treating as zero", fragStart, delimLength))
			}
			elem.Length = uint32(s.Position() - elem.DataOffset)
			elem.Fragments = fragments
			return nil
		}

		length, err := s.ReadU32()
		if err != nil {
			return err
		}

		if fragTag != dicomtag.Item {
			// Tolerated anomaly (spec.md §7.2 / §4.7 step 4's third
			// bullet): an unexpected tag where a fragment item was due.
			// The loop still reads this as a (tag, length) tuple, clamps
			// the length to whatever remains in the buffer, captures it
			// as a best-effort fragment, and continues -- it does not
			// abort the fragment walk.
			pos := s.Position()
			clamped := length
			if length == dicomtag.UndefinedLength || pos+int(length) > s.Size() {
				clamped = uint32(s.Size() - pos)
			}
			s.AddWarning(fmt.Sprintf("expected a pixel data fragment item at offset %d, found tag %s; capturing %d byte(s) as a best-effort fragment", fragStart, fragTag.String(), clamped))
			fragments = append(fragments, Fragment{
				Offset:   uint32(fragStart - fragmentAreaStart),
				Position: pos,
				Length:   clamped,
			})
			if err := s.Seek(int(clamped)); err != nil {
				return err
			}
			continue
		}

		if length == dicomtag.UndefinedLength {
			return parseErrorf(fragStart, "pixel data fragment at offset %d has undefined length", fragStart)
		}

		pos := s.Position()
		if pos+int(length) > s.Size() {
			clamped := uint32(s.Size() - pos)
			s.AddWarning(fmt.Sprintf("pixel data fragment at offset %d declares length %d beyond end of buffer; clamping to %d", fragStart, length, clamped))
			length = clamped
		}

		fragments = append(fragments, Fragment{
			Offset:   uint32(fragStart - fragmentAreaStart),
			Position: pos,
			Length:   length,
		})

		if err := s.Seek(int(length)); err != nil {
			return err
		}
	}
}

// readBasicOffsetTable reads the PixelData's first item (always present,
// possibly zero-length) as a sequence of 4-byte frame-start offsets.
func readBasicOffsetTable(s *dicomio.ByteStream, length int) ([]uint32, error) {
	if length == 0 {
		return nil, nil
	}
	if length%4 != 0 {
		return nil, parseErrorf(s.Position(), "basic offset table length %d is not a multiple of 4", length)
	}
	sub, err := s.ReadSubStream(length)
	if err != nil {
		return nil, err
	}
	entries := make([]uint32, 0, length/4)
	for !sub.EOF() {
		v, err := sub.ReadU32()
		if err != nil {
			return nil, err
		}
		entries = append(entries, v)
	}
	return entries, nil
}

// Frame reconstructs the index'th pixel frame of encapsulated PixelData
// (SPEC_FULL.md §4 "pixel-data frame joiner"): each Basic Offset Table
// entry names the fragment a frame starts on (PS3.5 A.4), so a frame
// runs from that fragment up to (but not including) the fragment the
// next entry names, and a frame spanning more than one fragment is
// copied into a single contiguous buffer -- the one allocation this
// accessor performs (spec.md §5's carve-out for frame extraction). An
// element with an empty Basic Offset Table is assumed to hold exactly one
// frame across all of its fragments. buf must be the same buffer the
// owning Dataset was parsed from.
func (e *Element) Frame(buf []byte, index int) ([]byte, error) {
	if !e.IsEncapsulatedPixelData() {
		return nil, fmt.Errorf("dicom: element %s is not encapsulated pixel data", e.Tag)
	}
	if len(e.Fragments) == 0 {
		return nil, fmt.Errorf("dicom: element %s has no pixel data fragments", e.Tag)
	}

	starts := e.BasicOffsetTable
	if len(starts) == 0 {
		starts = []uint32{0}
	}
	if index < 0 || index >= len(starts) {
		return nil, fmt.Errorf("dicom: frame index %d out of range (%d frame(s))", index, len(starts))
	}

	start := starts[index]
	hasEnd := index+1 < len(starts)
	end := uint32(0)
	if hasEnd {
		end = starts[index+1]
	}

	var parts [][]byte
	for _, f := range e.Fragments {
		if f.Offset < start {
			continue
		}
		if hasEnd && f.Offset >= end {
			break
		}
		if f.Position < 0 || f.Position+int(f.Length) > len(buf) {
			return nil, fmt.Errorf("dicom: fragment for frame %d of element %s is out of bounds", index, e.Tag)
		}
		parts = append(parts, buf[f.Position:f.Position+int(f.Length)])
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("dicom: frame %d of element %s matched no fragment data", index, e.Tag)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}

	var total int
	for _, p := range parts {
		total += len(p)
	}
	joined := make([]byte, 0, total)
	for _, p := range parts {
		joined = append(joined, p...)
	}
	return joined, nil
}
