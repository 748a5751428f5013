package dicomio

import (
	"fmt"
	"strings"
)

// The four transfer syntax UIDs spec.md's top-level parser understands
// directly (PS3.5 10, Annex A).
const (
	ImplicitVRLittleEndian         = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian         = "1.2.840.10008.1.2.1"
	ExplicitVRBigEndian            = "1.2.840.10008.1.2.2"
	DeflatedExplicitVRLittleEndian = "1.2.840.10008.1.2.1.99"
)

// dicomRoot is the OID prefix shared by every standard DICOM transfer
// syntax, including the compressed/encapsulated families
// (1.2.840.10008.1.2.4.* for JPEG variants, 1.2.840.10008.1.2.5 for RLE,
// and so on). Every member of this family frames its data elements as
// Explicit VR Little Endian; only the PixelData payload itself carries a
// format-specific (and, per spec.md's Non-goals, out of scope) encoding.
const dicomRoot = "1.2.840.10008.1.2"

// VRMode selects whether data elements carry an explicit 2-byte VR on the
// wire or must have their VR inferred out-of-band (spec C4).
type VRMode int

const (
	// ImplicitVR elements encode only tag and length; the VR (if needed)
	// comes from an external dictionary lookup, never from the stream.
	ImplicitVR VRMode = iota
	// ExplicitVR elements carry their own 2-byte VR on the wire.
	ExplicitVR
)

func (m VRMode) String() string {
	if m == ImplicitVR {
		return "implicit"
	}
	return "explicit"
}

// TransferSyntax is the resolved (byte order, VR mode, deflate) triple
// named by a transfer syntax UID.
type TransferSyntax struct {
	ByteOrder ByteOrder
	VRMode    VRMode
	Deflated  bool
}

// ResolveTransferSyntax maps a transfer syntax UID to the (byteorder,
// implicit/explicit, deflate) triple the top-level parser needs (spec
// C10 step 2). Any UID that shares DICOM's standard transfer-syntax OID
// root but isn't one of the four forms with special framing falls back to
// Explicit VR Little Endian, matching how every compressed/encapsulated
// transfer syntax in the standard is actually framed. A UID outside that
// family entirely is fatal: spec.md §7.1 "unsupported transfer syntax
// UID".
func ResolveTransferSyntax(uid string) (TransferSyntax, error) {
	switch uid {
	case ImplicitVRLittleEndian:
		return TransferSyntax{ByteOrder: LittleEndian, VRMode: ImplicitVR}, nil
	case ExplicitVRLittleEndian:
		return TransferSyntax{ByteOrder: LittleEndian, VRMode: ExplicitVR}, nil
	case ExplicitVRBigEndian:
		return TransferSyntax{ByteOrder: BigEndian, VRMode: ExplicitVR}, nil
	case DeflatedExplicitVRLittleEndian:
		return TransferSyntax{ByteOrder: LittleEndian, VRMode: ExplicitVR, Deflated: true}, nil
	}
	if strings.HasPrefix(uid, dicomRoot) {
		return TransferSyntax{ByteOrder: LittleEndian, VRMode: ExplicitVR}, nil
	}
	return TransferSyntax{}, fmt.Errorf("dicomio: unsupported transfer syntax UID %q", uid)
}
