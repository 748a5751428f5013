package dicom

import (
	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// MaxSequenceDepth bounds recursive descent into nested sequences
// (spec.md §5 "recommended: 64"). Parsing fails rather than recursing
// deeper, so a pathological or adversarial file cannot exhaust the call
// stack.
const MaxSequenceDepth = 64

// readElement reads one element header and dispatches on VR/length (spec
// C4). It returns the parsed element and whether the caller (the dataset
// walker) should stop after inserting it -- true when the element's tag
// equals opts.UntilTag.
func readElement(s *dicomio.ByteStream, mode dicomio.VRMode, opts ParseOptions, depth int) (*Element, bool, error) {
	if depth > MaxSequenceDepth {
		return nil, false, parseErrorf(s.Position(), "sequence nesting exceeds maximum supported depth (%d)", MaxSequenceDepth)
	}

	tag, err := readTag(s)
	if err != nil {
		return nil, false, err
	}

	readMode := mode
	if tag.Group == dicomtag.ItemSequenceGroup {
		readMode = dicomio.ImplicitVR
	}

	if readMode == dicomio.ImplicitVR {
		return readImplicitElement(s, tag, opts, depth)
	}
	return readExplicitElement(s, tag, opts, depth)
}

func untilTagMatches(opts ParseOptions, tag dicomtag.Tag) bool {
	until, ok := opts.untilTag()
	return ok && until == tag
}

// readImplicitElement implements spec.md §4.4 "Implicit VR".
func readImplicitElement(s *dicomio.ByteStream, tag dicomtag.Tag, opts ParseOptions, depth int) (*Element, bool, error) {
	length, err := s.ReadU32()
	if err != nil {
		return nil, false, err
	}

	vr := ""
	if opts.ImplicitVRLookup != nil {
		if v, ok := opts.ImplicitVRLookup(tag.String()); ok {
			vr = v
		}
	}

	elem := &Element{
		Tag:                tag.String(),
		RawTag:             tag,
		VR:                 vr,
		Length:             length,
		DataOffset:         s.Position(),
		HadUndefinedLength: length == dicomtag.UndefinedLength,
	}

	if untilTagMatches(opts, tag) {
		return elem, true, nil
	}

	isSeq, err := detectImplicitSequence(s, vr)
	if err != nil {
		return nil, false, err
	}

	if isSeq && (!tag.IsPrivate() || elem.HadUndefinedLength) {
		if err := readSequenceInto(s, elem, dicomio.ImplicitVR, opts, depth); err != nil {
			return nil, false, err
		}
		if tag.IsPrivate() {
			elem.PrivateSequenceItemsDropped = true
			elem.Sequence = nil
		}
		return elem, false, nil
	}

	if elem.HadUndefinedLength {
		if err := searchDelimiter(s, elem); err != nil {
			return nil, false, err
		}
		return elem, false, nil
	}

	if err := s.Seek(int(length)); err != nil {
		return nil, false, err
	}
	return elem, false, nil
}

// detectImplicitSequence peeks the next tag without advancing. The
// element is a sequence if that tag is Item or SequenceDelimitationItem;
// an explicit vr=="SQ" (from an ImplicitVRLookup callback) forces sequence
// handling even without a matching peek (spec.md §4.4 "Sequence
// detection").
func detectImplicitSequence(s *dicomio.ByteStream, vr string) (bool, error) {
	if vr == "SQ" {
		return true, nil
	}
	if s.Remaining() < 4 {
		return false, nil
	}
	peeked, err := peekTag(s, s.Position())
	if err != nil {
		return false, nil
	}
	return peeked == dicomtag.Item || peeked == dicomtag.SequenceDelimitationItem, nil
}

// readExplicitElement implements spec.md §4.4 "Explicit VR".
func readExplicitElement(s *dicomio.ByteStream, tag dicomtag.Tag, opts ParseOptions, depth int) (*Element, bool, error) {
	vrBytes, err := s.ReadBytes(2)
	if err != nil {
		return nil, false, err
	}
	vr := string(vrBytes)

	var length uint32
	if isLongFormVR(vr) {
		if err := s.Seek(2); err != nil { // 2 reserved bytes
			return nil, false, err
		}
		length, err = s.ReadU32()
	} else {
		var length16 uint16
		length16, err = s.ReadU16()
		length = uint32(length16)
	}
	if err != nil {
		return nil, false, err
	}

	elem := &Element{
		Tag:                tag.String(),
		RawTag:             tag,
		VR:                 vr,
		Length:             length,
		DataOffset:         s.Position(),
		HadUndefinedLength: length == dicomtag.UndefinedLength,
	}

	if untilTagMatches(opts, tag) {
		return elem, true, nil
	}

	switch {
	case vr == "SQ":
		if err := readSequenceInto(s, elem, dicomio.ExplicitVR, opts, depth); err != nil {
			return nil, false, err
		}
		return elem, false, nil

	case elem.HadUndefinedLength && tag == dicomtag.PixelData:
		if err := readEncapsulatedPixelData(s, elem); err != nil {
			return nil, false, err
		}
		return elem, false, nil

	case elem.HadUndefinedLength && vr == "UN":
		// A UN element with undefined length is specified to contain an
		// implicit-VR little-endian nested dataset (PS3.5 6.2.2); switch
		// only this recursive call into implicit VR little endian, not the
		// enclosing stream.
		sub := s.WithOrder(dicomio.LittleEndian)
		if err := readSequenceInto(sub, elem, dicomio.ImplicitVR, opts, depth); err != nil {
			return nil, false, err
		}
		if err := s.SetPosition(sub.Position()); err != nil {
			return nil, false, err
		}
		elem.VR = "SQ"
		return elem, false, nil

	case elem.HadUndefinedLength:
		if err := searchDelimiter(s, elem); err != nil {
			return nil, false, err
		}
		return elem, false, nil

	default:
		if err := s.Seek(int(length)); err != nil {
			return nil, false, err
		}
		return elem, false, nil
	}
}
