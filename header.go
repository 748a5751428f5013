package dicom

import (
	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// parseP10Header implements spec.md §4.9: locate the DICM prefix and read
// the meta-header (group 0002 only, always explicit VR little-endian).
// hint, if non-empty, is an externally-supplied transfer syntax UID used
// to recover a buffer that's missing its DICM prefix.
func parseP10Header(buf []byte, hint string) (meta *Dataset, bodyStart int, err error) {
	size := len(buf)
	if size <= 132 && hint == "" {
		return nil, 0, parseErrorf(0, "not a valid DICOM P10 file: buffer too small (%d bytes)", size)
	}

	hasDICM := size >= 132 && string(buf[128:132]) == "DICM"

	meta = newDataset(buf, dicomio.LittleEndian, dicomio.ExplicitVR)

	if !hasDICM {
		if hint == "" {
			return nil, 0, parseErrorf(0, "not a valid DICOM P10 file: missing DICM prefix")
		}
		elem := &Element{
			Tag:            dicomtag.TransferSyntaxUID.String(),
			RawTag:         dicomtag.TransferSyntaxUID,
			VR:             "UI",
			SyntheticValue: hint,
		}
		meta.Elements[elem.Tag] = elem
		return meta, 0, nil
	}

	s := dicomio.NewByteStream(buf, dicomio.LittleEndian)
	if err := s.SetPosition(132); err != nil {
		return nil, 0, err
	}

	opts := ParseOptions{}
	for {
		if s.Remaining() < 4 {
			break
		}
		tag, err := peekTag(s, s.Position())
		if err != nil {
			return nil, 0, &ParseError{Offset: s.Position(), Message: err.Error(), Partial: meta}
		}
		if tag.Group > 0x0002 {
			break
		}
		elem, _, err := readElement(s, dicomio.ExplicitVR, opts, 0)
		if err != nil {
			return nil, 0, &ParseError{Offset: s.Position(), Message: err.Error(), Partial: meta}
		}
		meta.Elements[elem.Tag] = elem
	}

	meta.Warnings = append(meta.Warnings, s.Warnings()...)
	return meta, s.Position(), nil
}
