package dicom

import (
	"strings"

	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// Parse implements spec.md §4.10, the top-level entry point: locate and
// parse the meta-header (C9), resolve the transfer syntax it names,
// optionally inflate a Deflate-compressed body, walk the body (C8), and
// merge the two element maps.
func Parse(buf []byte, opts ParseOptions) (*Dataset, error) {
	if buf == nil {
		return nil, parseErrorf(-1, "buffer is nil")
	}

	var optionWarnings []string
	if warning, ok := opts.validate(); !ok {
		optionWarnings = append(optionWarnings, warning)
	}

	meta, bodyStart, err := parseP10Header(buf, opts.TransferSyntaxHint)
	if err != nil {
		return nil, err
	}

	tsElem, ok := meta.Lookup(dicomtag.TransferSyntaxUID)
	if !ok {
		return nil, &ParseError{Offset: bodyStart, Message: "missing mandatory meta-header element x00020010 (TransferSyntaxUID)", Partial: meta}
	}
	uid, err := transferSyntaxUIDValue(meta, tsElem)
	if err != nil {
		return nil, &ParseError{Offset: bodyStart, Message: err.Error(), Partial: meta}
	}

	ts, err := dicomio.ResolveTransferSyntax(uid)
	if err != nil {
		return nil, &ParseError{Offset: bodyStart, Message: err.Error(), Partial: meta}
	}

	bodyBuf := buf
	if ts.Deflated {
		inflater := opts.Inflater
		if inflater == nil {
			inflater = defaultInflate
		}
		bodyBuf, err = inflater(buf, bodyStart)
		if err != nil {
			return nil, &ParseError{Offset: bodyStart, Message: err.Error(), Partial: meta}
		}
	}

	d := newDataset(bodyBuf, ts.ByteOrder, ts.VRMode)
	s := dicomio.NewByteStream(bodyBuf, ts.ByteOrder)
	if err := s.SetPosition(bodyStart); err != nil {
		return nil, &ParseError{Offset: bodyStart, Message: err.Error(), Partial: meta}
	}

	if err := walkDataset(d, s, ts.VRMode, opts, len(bodyBuf)); err != nil {
		return nil, &ParseError{Offset: s.Position(), Message: err.Error(), Partial: d}
	}

	// Meta-header wins on key collision (spec.md §4.10 step 5); in
	// practice group numbers never overlap, so this is really just a set
	// union.
	for tag, elem := range meta.Elements {
		d.Elements[tag] = elem
	}

	var warnings []string
	warnings = append(warnings, optionWarnings...)
	warnings = append(warnings, meta.Warnings...)
	warnings = append(warnings, s.Warnings()...)
	d.Warnings = warnings

	return d, nil
}

// transferSyntaxUIDValue reads the UI-VR value of the TransferSyntaxUID
// element: its SyntheticValue if the header reader fabricated it (no DICM
// prefix, external hint supplied), otherwise the buffer bytes it
// describes, trimmed of the even-length NUL/space pad PS3.5 6.2 requires
// for UI values.
func transferSyntaxUIDValue(meta *Dataset, elem *Element) (string, error) {
	if elem.SyntheticValue != "" {
		return elem.SyntheticValue, nil
	}
	buf := meta.Buffer()
	if elem.DataOffset < 0 || elem.DataOffset+int(elem.Length) > len(buf) {
		return "", parseErrorf(elem.DataOffset, "TransferSyntaxUID element is out of bounds")
	}
	raw := buf[elem.DataOffset : elem.DataOffset+int(elem.Length)]
	return strings.TrimRight(string(raw), " \x00"), nil
}
