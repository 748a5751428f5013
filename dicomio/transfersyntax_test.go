package dicomio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTransferSyntaxKnownForms(t *testing.T) {
	ts, err := ResolveTransferSyntax(ImplicitVRLittleEndian)
	require.NoError(t, err)
	assert.Equal(t, ImplicitVR, ts.VRMode)
	assert.False(t, ts.Deflated)

	ts, err = ResolveTransferSyntax(ExplicitVRBigEndian)
	require.NoError(t, err)
	assert.Equal(t, ExplicitVR, ts.VRMode)
	assert.Equal(t, BigEndian, ts.ByteOrder)

	ts, err = ResolveTransferSyntax(DeflatedExplicitVRLittleEndian)
	require.NoError(t, err)
	assert.True(t, ts.Deflated)
}

func TestResolveTransferSyntaxFallsBackWithinDICOMFamily(t *testing.T) {
	// A JPEG Baseline encapsulated transfer syntax: framed as explicit VR
	// little-endian even though it isn't one of the four special forms.
	ts, err := ResolveTransferSyntax("1.2.840.10008.1.2.4.50")
	require.NoError(t, err)
	assert.Equal(t, ExplicitVR, ts.VRMode)
	assert.Equal(t, LittleEndian, ts.ByteOrder)
	assert.False(t, ts.Deflated)
}

func TestResolveTransferSyntaxRejectsForeignUID(t *testing.T) {
	_, err := ResolveTransferSyntax("1.2.3.4.5")
	assert.Error(t, err)
}

func TestVRModeString(t *testing.T) {
	assert.Equal(t, "implicit", ImplicitVR.String())
	assert.Equal(t, "explicit", ExplicitVR.String())
}
