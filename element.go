// Package dicom decodes a DICOM Part 10 file from an in-memory byte
// buffer into a fully indexed, zero-copy Dataset: a map from tag to
// Element, each of which locates (but does not decode) its value inside
// the original buffer.
package dicom

import (
	"fmt"

	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// Element is a descriptor for one occurrence of a tag in the buffer. It
// never owns or copies the value bytes: DataOffset/Length locate them in
// the buffer the owning Dataset was parsed from.
type Element struct {
	// Tag is the canonical "xggggeeee" identifier (dicomtag.Tag.String()).
	Tag string

	// RawTag is the parsed <group, element> pair Tag was derived from.
	RawTag dicomtag.Tag

	// VR is the 2-letter value representation, when known. In implicit VR
	// it is populated only if an ImplicitVRLookup callback was supplied
	// and recognized the tag; otherwise it is empty.
	VR string

	// Length is the byte count of the value. For an element whose wire
	// length was the undefined-length sentinel, this is filled in after
	// parsing. For a sequence it is the distance from DataOffset to the
	// start of the Sequence Delimitation Item (the delimiter is excluded).
	// For encapsulated PixelData and for other elements bounded by the
	// delimiter search, it runs through the end of the consumed 8-byte
	// delimiter. If the buffer ends before a delimiter is found, it runs
	// to the point where reading stopped.
	Length uint32

	// DataOffset is the absolute offset into the original buffer where
	// the value begins.
	DataOffset int

	// HadUndefinedLength records whether the wire length was the
	// 0xFFFFFFFF sentinel, regardless of what Length was resolved to.
	HadUndefinedLength bool

	// Sequence holds the ordered list of nested-dataset items, when this
	// element's VR is SQ (or, in implicit VR, when item-delimiter
	// lookahead identified it as one). Mutually exclusive with
	// PixelDataFragments.
	Sequence []*SequenceItem

	// PrivateSequenceItemsDropped is set when a private-tag element in
	// implicit VR mode was detected and parsed as a sequence, but its
	// Sequence field was cleared afterward to avoid an ambiguous element
	// shape for consumers that don't expect a sequence on a private tag
	// (spec design note, §9 "private-tag sequence detection").
	PrivateSequenceItemsDropped bool

	// BasicOffsetTable and Fragments are populated for encapsulated
	// PixelData: tag x7fe00010 with an undefined wire length. Mutually
	// exclusive with Sequence.
	BasicOffsetTable []uint32
	Fragments        []Fragment

	// SyntheticValue is non-empty only for the single element fabricated
	// by the P10 header reader when a buffer lacks the DICM prefix but
	// the caller supplied an external transfer-syntax hint (spec.md §4.9
	// step 2): there is no DataOffset in the buffer to point at, since
	// nothing was actually on the wire. Every other element leaves this
	// empty and is read through DataOffset/Length as usual.
	SyntheticValue string
}

// Fragment describes one chunk of encapsulated pixel bytes. Offset is the
// byte position of this fragment's own Item tag, measured from the first
// Item tag following the Basic Offset Table item (fragment 0 is offset
// 0) -- the same measure the Basic Offset Table's entries use, so a
// BasicOffsetTable value can be matched directly against a Fragment's
// Offset to find the fragment a frame starts on. Position is the
// absolute buffer offset of the fragment's first value byte (after its
// own item header).
type Fragment struct {
	Offset   uint32
	Position int
	Length   uint32
}

// IsSequence reports whether the element carries a parsed (or
// dropped-after-parsing) sequence shape.
func (e *Element) IsSequence() bool {
	return e.VR == "SQ" || e.Sequence != nil || e.PrivateSequenceItemsDropped
}

// IsEncapsulatedPixelData reports whether the element is encapsulated
// PixelData (spec invariant 4: PixelData with an undefined wire length is
// always encapsulated).
func (e *Element) IsEncapsulatedPixelData() bool {
	return e.RawTag == dicomtag.PixelData && e.HadUndefinedLength
}

func (e *Element) String() string {
	switch {
	case e.IsEncapsulatedPixelData():
		return fmt.Sprintf("%s OB<encapsulated, %d fragments>", e.Tag, len(e.Fragments))
	case e.Sequence != nil:
		return fmt.Sprintf("%s SQ<%d items>", e.Tag, len(e.Sequence))
	default:
		return fmt.Sprintf("%s %s len=%d @%d", e.Tag, e.VR, e.Length, e.DataOffset)
	}
}

// SequenceItem is a dataset nested inside an SQ element. It is
// structurally identical to Dataset (same tag->Element map) but also
// records the item's own framing.
type SequenceItem struct {
	Elements map[string]*Element

	DataOffset         int
	Length             uint32
	HadUndefinedLength bool
}

// Dataset is a mapping from canonical tag to Element, plus the warnings
// collected while it was built. A Dataset is created empty, populated by
// exactly one traversal, and is read-only thereafter; elements and the
// buffer they reference are never mutated.
type Dataset struct {
	Elements map[string]*Element
	Warnings []string

	// buf is the (possibly inflated) buffer every Element's offsets are
	// relative to.
	buf []byte
	// order and vrMode are the body's resolved transfer syntax, retained
	// so accessors (access.go) know how to interpret multi-valued binary
	// VRs without needing the caller to pass them in again.
	order  dicomio.ByteOrder
	vrMode dicomio.VRMode
	// codingSystem is the decoder set selected by the most recent
	// SpecificCharacterSet element seen. The string accessors in access.go
	// do not apply it.
	codingSystem dicomio.CodingSystem
}

func newDataset(buf []byte, order dicomio.ByteOrder, vrMode dicomio.VRMode) *Dataset {
	return &Dataset{
		Elements: make(map[string]*Element),
		buf:      buf,
		order:    order,
		vrMode:   vrMode,
	}
}

// Lookup returns the element stored under tag, if any.
func (d *Dataset) Lookup(tag dicomtag.Tag) (*Element, bool) {
	e, ok := d.Elements[tag.String()]
	return e, ok
}

// MustLookup is like Lookup but panics if tag is absent. Intended for
// tests and CLI code, not library callers.
func (d *Dataset) MustLookup(tag dicomtag.Tag) *Element {
	e, ok := d.Lookup(tag)
	if !ok {
		panic(fmt.Sprintf("dicom: tag %v not found", tag))
	}
	return e
}

// Buffer returns the buffer every element offset in this dataset is
// relative to (the original input, or the inflated buffer for the
// deflated transfer syntax).
func (d *Dataset) Buffer() []byte { return d.buf }
