package dicom

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// Scenario 1 (spec.md §8): a buffer that isn't a DICOM file at all.
func TestParseNotDICOM(t *testing.T) {
	_, err := Parse([]byte("not a DICOM file"), ParseOptions{})
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

// Scenario 2: a minimal file with only the meta-header and no body.
func TestParseMinimalMetaHeaderOnly(t *testing.T) {
	buf := buildP10File(dicomio.ImplicitVRLittleEndian, nil)

	ds, err := Parse(buf, ParseOptions{})
	require.NoError(t, err)
	assert.Empty(t, ds.Warnings)

	elem, ok := ds.Lookup(dicomtag.TransferSyntaxUID)
	require.True(t, ok)
	assert.Equal(t, "UI", elem.VR)

	// No body elements beyond the meta-header itself.
	assert.Len(t, ds.Elements, 1)
}

// Scenario 3: an explicit-VR-LE body with a defined-length sequence
// holding one item with one PN element.
func TestParseExplicitLEDefinedLengthSequence(t *testing.T) {
	order := binary.LittleEndian
	patientName := explicitElement(order, dicomtag.Tag{Group: 0x0010, Element: 0x0010}, "PN", []byte("DOE^JOHN"))
	item := append(itemHeader(order, uint32(len(patientName))), patientName...)
	sqTag := dicomtag.Tag{Group: 0x0008, Element: 0x1140}
	sq := explicitElement(order, sqTag, "SQ", item)

	buf := buildP10File(dicomio.ExplicitVRLittleEndian, sq)

	ds, err := Parse(buf, ParseOptions{})
	require.NoError(t, err)
	assert.Empty(t, ds.Warnings)

	elem, ok := ds.Lookup(sqTag)
	require.True(t, ok)
	require.Len(t, elem.Sequence, 1)

	pnTag := dicomtag.Tag{Group: 0x0010, Element: 0x0010}
	pn, ok := elem.Sequence[0].Elements[pnTag.String()]
	require.True(t, ok)
	assert.Equal(t, "PN", pn.VR)
	assert.Equal(t, "DOE^JOHN", string(ds.Buffer()[pn.DataOffset:pn.DataOffset+int(pn.Length)]))
}

// Scenario 4: the same sequence, but with an undefined length terminated
// by a Sequence Delimitation Item.
func TestParseUndefinedLengthSequence(t *testing.T) {
	order := binary.LittleEndian
	patientName := explicitElement(order, dicomtag.Tag{Group: 0x0010, Element: 0x0010}, "PN", []byte("DOE^JOHN"))
	item := append(itemHeader(order, uint32(len(patientName))), patientName...)
	delim := delimiterBytes(order, dicomtag.SequenceDelimitationItem)

	sqTag := dicomtag.Tag{Group: 0x0008, Element: 0x1140}
	sqHeader := explicitElementWithLength(order, sqTag, "SQ", dicomtag.UndefinedLength, nil)
	body := append(sqHeader, item...)
	body = append(body, delim...)

	buf := buildP10File(dicomio.ExplicitVRLittleEndian, body)

	ds, err := Parse(buf, ParseOptions{})
	require.NoError(t, err)
	assert.Empty(t, ds.Warnings)

	elem, ok := ds.Lookup(sqTag)
	require.True(t, ok)
	require.True(t, elem.HadUndefinedLength)
	require.Len(t, elem.Sequence, 1)
	// Length should span exactly the one item, not the delimiter itself.
	assert.EqualValues(t, len(item), elem.Length)
}

// Scenario 5: encapsulated PixelData, two frames split across three
// fragments, verifying the Basic Offset Table, each Fragment's Offset
// (item-header-inclusive, per spec.md's own scenario text), and that
// Dataset.Frame correctly joins multi-fragment frames.
func TestParseEncapsulatedPixelDataTwoFramesThreeFragments(t *testing.T) {
	order := binary.LittleEndian

	frag0 := []byte{0xAA, 0xBB, 0xCC, 0xDD} // frame 0: fragment 0 alone
	frag1 := []byte{0x01, 0x02, 0x03}       // frame 1: fragment 1 + fragment 2
	frag2 := []byte{0x04, 0x05, 0x06, 0x07}

	l0 := uint32(len(frag0))
	l1 := uint32(len(frag1))

	bot := make([]byte, 8)
	order.PutUint32(bot[0:4], 0)
	order.PutUint32(bot[4:8], l0+8)
	botItem := append(itemHeader(order, 8), bot...)

	frag0Item := append(itemHeader(order, l0), frag0...)
	frag1Item := append(itemHeader(order, l1), frag1...)
	frag2Item := append(itemHeader(order, uint32(len(frag2))), frag2...)

	var pixelBody []byte
	pixelBody = append(pixelBody, botItem...)
	pixelBody = append(pixelBody, frag0Item...)
	pixelBody = append(pixelBody, frag1Item...)
	pixelBody = append(pixelBody, frag2Item...)
	pixelBody = append(pixelBody, delimiterBytes(order, dicomtag.SequenceDelimitationItem)...)

	pixelHeader := explicitElementWithLength(order, dicomtag.PixelData, "OB", dicomtag.UndefinedLength, nil)
	body := append(pixelHeader, pixelBody...)

	buf := buildP10File(dicomio.ExplicitVRLittleEndian, body)

	ds, err := Parse(buf, ParseOptions{})
	require.NoError(t, err)
	assert.Empty(t, ds.Warnings)

	elem := ds.MustLookup(dicomtag.PixelData)
	require.True(t, elem.IsEncapsulatedPixelData())
	require.Equal(t, []uint32{0, l0 + 8}, elem.BasicOffsetTable)
	require.Len(t, elem.Fragments, 3)

	assert.EqualValues(t, 0, elem.Fragments[0].Offset)
	assert.EqualValues(t, l0+8, elem.Fragments[1].Offset)
	assert.EqualValues(t, l0+8+l1+8, elem.Fragments[2].Offset)

	frame0, err := ds.Frame(dicomtag.PixelData, 0)
	require.NoError(t, err)
	assert.Equal(t, frag0, frame0)

	frame1, err := ds.Frame(dicomtag.PixelData, 1)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, frag1...), frag2...), frame1)
}

// An unexpected tag where a pixel data fragment item was due (spec.md
// §4.7 step 4's third bullet / §7.2) is captured as a best-effort
// fragment with its length clamped to the buffer remainder, not treated
// as a reason to stop the fragment walk early.
func TestParseEncapsulatedPixelDataUnexpectedTagIsCapturedAsFragment(t *testing.T) {
	order := binary.LittleEndian

	frag0 := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	l0 := uint32(len(frag0))

	bot := make([]byte, 4)
	order.PutUint32(bot, 0)
	botItem := append(itemHeader(order, 4), bot...)

	frag0Item := append(itemHeader(order, l0), frag0...)

	// An anomalous tuple in place of the next fragment item: not Item,
	// not SequenceDelimitationItem, with a declared length that overruns
	// whatever bytes actually remain.
	anomalousTag := dicomtag.Tag{Group: 0x0008, Element: 0x0000}
	anomalousContent := []byte{0x01, 0x02, 0x03}
	anomalousTuple := tagBytes(order, anomalousTag)
	lenB := make([]byte, 4)
	order.PutUint32(lenB, 1000) // far beyond what's actually left
	anomalousTuple = append(anomalousTuple, lenB...)
	anomalousTuple = append(anomalousTuple, anomalousContent...)

	var pixelBody []byte
	pixelBody = append(pixelBody, botItem...)
	pixelBody = append(pixelBody, frag0Item...)
	pixelBody = append(pixelBody, anomalousTuple...)

	pixelHeader := explicitElementWithLength(order, dicomtag.PixelData, "OB", dicomtag.UndefinedLength, nil)
	body := append(pixelHeader, pixelBody...)

	buf := buildP10File(dicomio.ExplicitVRLittleEndian, body)

	ds, err := Parse(buf, ParseOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, ds.Warnings)

	elem := ds.MustLookup(dicomtag.PixelData)
	require.Len(t, elem.Fragments, 2)
	assert.EqualValues(t, 0, elem.Fragments[0].Offset)
	assert.EqualValues(t, l0+8, elem.Fragments[1].Offset)
	assert.EqualValues(t, len(anomalousContent), elem.Fragments[1].Length)
}

// Scenario 6: a few unparseable trailing bytes produce a warning, not a
// failure.
func TestParseTrailingGarbageWarns(t *testing.T) {
	order := binary.LittleEndian
	elem := explicitElement(order, dicomtag.Tag{Group: 0x0010, Element: 0x0010}, "PN", []byte("DOE^JOHN"))
	body := append(elem, 0xDE, 0xAD, 0xBE)

	buf := buildP10File(dicomio.ExplicitVRLittleEndian, body)

	ds, err := Parse(buf, ParseOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, ds.Warnings)

	found := false
	for _, w := range ds.Warnings {
		if w != "" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseUntilTagStopsEarly(t *testing.T) {
	order := binary.LittleEndian
	tag1 := dicomtag.Tag{Group: 0x0010, Element: 0x0010}
	tag2 := dicomtag.Tag{Group: 0x0010, Element: 0x0020}
	body := append(explicitElement(order, tag1, "PN", []byte("DOE^JOHN")),
		explicitElement(order, tag2, "LO", []byte("ID001"))...)

	buf := buildP10File(dicomio.ExplicitVRLittleEndian, body)

	ds, err := Parse(buf, ParseOptions{UntilTag: tag1.String()})
	require.NoError(t, err)

	_, ok := ds.Lookup(tag1)
	assert.True(t, ok)
	_, ok = ds.Lookup(tag2)
	assert.False(t, ok)
}

func TestParseMalformedUntilTagWarnsAndNeverMatches(t *testing.T) {
	order := binary.LittleEndian
	tag1 := dicomtag.Tag{Group: 0x0010, Element: 0x0010}
	body := explicitElement(order, tag1, "PN", []byte("DOE^JOHN"))

	buf := buildP10File(dicomio.ExplicitVRLittleEndian, body)

	ds, err := Parse(buf, ParseOptions{UntilTag: "not-a-tag"})
	require.NoError(t, err)
	require.NotEmpty(t, ds.Warnings)

	_, ok := ds.Lookup(tag1)
	assert.True(t, ok)
}

func TestParseImplicitVRReadsBody(t *testing.T) {
	order := binary.LittleEndian
	tag := dicomtag.Tag{Group: 0x0010, Element: 0x0020}
	body := implicitElement(order, tag, []byte("ID001"))

	buf := buildP10File(dicomio.ImplicitVRLittleEndian, body)

	ds, err := Parse(buf, ParseOptions{})
	require.NoError(t, err)

	elem, ok := ds.Lookup(tag)
	require.True(t, ok)
	assert.Equal(t, "ID001", string(ds.Buffer()[elem.DataOffset:elem.DataOffset+int(elem.Length)]))
}

func TestParseTransferSyntaxHintRecoversMissingDICM(t *testing.T) {
	order := binary.LittleEndian
	tag := dicomtag.Tag{Group: 0x0010, Element: 0x0020}
	body := implicitElement(order, tag, []byte("ID001"))

	ds, err := Parse(body, ParseOptions{TransferSyntaxHint: dicomio.ImplicitVRLittleEndian})
	require.NoError(t, err)

	elem, ok := ds.Lookup(tag)
	require.True(t, ok)
	assert.Equal(t, "ID001", string(ds.Buffer()[elem.DataOffset:elem.DataOffset+int(elem.Length)]))
}

func TestParseNoDICMNoHintIsFatal(t *testing.T) {
	_, err := Parse([]byte("short"), ParseOptions{})
	require.Error(t, err)
}
