package dicomtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringCanonicalForm(t *testing.T) {
	tag := New(0x0008, 0x0005)
	assert.Equal(t, "x00080005", tag.String())

	tag = New(0xFFFE, 0xE00D)
	assert.Equal(t, "xfffee00d", tag.String())
}

func TestParseCanonicalRoundTrip(t *testing.T) {
	for _, tc := range []struct{ group, element uint16 }{
		{0x0000, 0x0000},
		{0x0008, 0x0005},
		{0x7FE0, 0x0010},
		{0xFFFF, 0xFFFF},
	} {
		tag := New(tc.group, tc.element)
		parsed, err := ParseCanonical(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, parsed)
	}
}

func TestParseCanonicalRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "00080005", "xGGGGEEEE", "x0008000", "X00080005"} {
		_, err := ParseCanonical(s)
		assert.Errorf(t, err, "expected %q to be rejected", s)
	}
}

func TestIsPrivate(t *testing.T) {
	assert.False(t, New(0x0008, 0x0005).IsPrivate())
	assert.True(t, New(0x0009, 0x0010).IsPrivate())
}

func TestUint32Ordering(t *testing.T) {
	a := New(0x0008, 0x0005).Uint32()
	b := New(0x0008, 0x0006).Uint32()
	c := New(0x0009, 0x0000).Uint32()
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestMagicTags(t *testing.T) {
	assert.Equal(t, uint16(0xFFFE), Item.Group)
	assert.Equal(t, uint16(0xE000), Item.Element)
	assert.Equal(t, uint16(0xE00D), ItemDelimitationItem.Element)
	assert.Equal(t, uint16(0xE0DD), SequenceDelimitationItem.Element)
	assert.Equal(t, uint32(0xFFFFFFFF), UndefinedLength)
	assert.Equal(t, uint16(ItemSequenceGroup), Item.Group)
}
