package dicom

import (
	"fmt"
	"strings"

	"github.com/odincare/dcmp10/dicomio"
	"github.com/odincare/dcmp10/dicomtag"
)

// walkDataset drives readElement across [s.Position(), maxPos), inserting
// each parsed element into d.Elements (spec.md §4.3, the top-level
// dataset walker, C8). It is the only reader that honors opts.UntilTag and
// the "<8 trailing bytes" tolerance -- both are properties of a top-level
// walk, not of a nested sequence item (sequence.go walks items with
// readDatasetBody directly, ignoring both).
func walkDataset(d *Dataset, s *dicomio.ByteStream, mode dicomio.VRMode, opts ParseOptions, maxPos int) error {
	for s.Position() < maxPos {
		if s.Remaining() < 8 {
			s.AddWarning(fmt.Sprintf("%d trailing byte(s) at offset %d are too few for an element header; stopping", s.Remaining(), s.Position()))
			return nil
		}

		elem, stop, err := readElement(s, mode, opts, 0)
		if err != nil {
			return err
		}
		d.Elements[elem.Tag] = elem

		if elem.RawTag == dicomtag.SpecificCharacterSet {
			applySpecificCharacterSet(d, s, elem)
		}

		if stop {
			return nil
		}
	}
	return nil
}

// applySpecificCharacterSet decodes the (always plain-ASCII, CS VR)
// SpecificCharacterSet value and records the resulting decoders on
// d.codingSystem (spec.md §4.3 "Specific Character Set"). The string
// accessors in access.go do not consult d.codingSystem: they return value
// bytes undecoded. A decode failure is recorded as a warning, not a fatal
// error: the dataset is still usable, just without non-ASCII decoding.
func applySpecificCharacterSet(d *Dataset, s *dicomio.ByteStream, elem *Element) {
	if elem.DataOffset+int(elem.Length) > len(d.buf) {
		return
	}
	raw := d.buf[elem.DataOffset : elem.DataOffset+int(elem.Length)]
	trimmed := strings.TrimRight(string(raw), " \x00")
	if trimmed == "" {
		return
	}
	parts := strings.Split(trimmed, "\\")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	cs, err := dicomio.ParseSpecificCharacterSet(parts)
	if err != nil {
		s.AddWarning(fmt.Sprintf("specific character set %q could not be resolved: %v", parts, err))
		return
	}
	d.codingSystem = cs
}
