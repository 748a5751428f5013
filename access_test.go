package dicom

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

func parseBody(t *testing.T, body []byte) *Dataset {
	t.Helper()
	buf := buildP10File(dicomio.ExplicitVRLittleEndian, body)
	ds, err := Parse(buf, ParseOptions{})
	require.NoError(t, err)
	return ds
}

func TestAccessStringTrimsAndSplits(t *testing.T) {
	order := binary.LittleEndian
	tag := dicomtag.Tag{Group: 0x0010, Element: 0x0021}
	body := explicitElement(order, tag, "LO", []byte("ACME \\ WIDGETS \x00"))
	ds := parseBody(t, body)

	v0, err := ds.String(tag, 0)
	require.NoError(t, err)
	assert.Equal(t, "ACME", v0)

	v1, err := ds.String(tag, 1)
	require.NoError(t, err)
	assert.Equal(t, "WIDGETS", v1)

	n, err := ds.NumStringValues(tag)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAccessUInt16AndAttributeTag(t *testing.T) {
	order := binary.LittleEndian
	usTag := dicomtag.Tag{Group: 0x0028, Element: 0x0100}
	value := make([]byte, 2)
	order.PutUint16(value, 16)
	body := explicitElement(order, usTag, "US", value)

	atTag := dicomtag.Tag{Group: 0x0020, Element: 0x0032}
	atValue := make([]byte, 4)
	order.PutUint16(atValue[0:2], 0x0010)
	order.PutUint16(atValue[2:4], 0x0020)
	body = append(body, explicitElement(order, atTag, "AT", atValue)...)

	ds := parseBody(t, body)

	u16, err := ds.UInt16(usTag, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 16, u16)

	at, err := ds.AttributeTag(atTag)
	require.NoError(t, err)
	assert.Equal(t, dicomtag.Tag{Group: 0x0010, Element: 0x0020}, at)
}

func TestAccessFloatStringAndIntString(t *testing.T) {
	order := binary.LittleEndian
	dsTag := dicomtag.Tag{Group: 0x0018, Element: 0x0050}
	isTag := dicomtag.Tag{Group: 0x0020, Element: 0x0013}
	body := explicitElement(order, dsTag, "DS", []byte("3.14 "))
	body = append(body, explicitElement(order, isTag, "IS", []byte("42 "))...)

	ds := parseBody(t, body)

	f, err := ds.FloatString(dsTag, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.14, f, 0.0001)

	i, err := ds.IntString(isTag, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 42, i)
}

func TestAccessTextDoesNotSplitOnBackslash(t *testing.T) {
	order := binary.LittleEndian
	tag := dicomtag.Tag{Group: 0x0008, Element: 0x0104}
	body := explicitElement(order, tag, "LT", []byte("a\\b "))
	ds := parseBody(t, body)

	text, err := ds.Text(tag)
	require.NoError(t, err)
	assert.Equal(t, "a\\b", text)
}

func TestAccessMissingTagErrors(t *testing.T) {
	ds := parseBody(t, nil)
	_, err := ds.String(dicomtag.Tag{Group: 0x0010, Element: 0x0010}, 0)
	assert.Error(t, err)
}
