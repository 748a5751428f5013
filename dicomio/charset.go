package dicomio

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// CodingSystem holds the decoders used to turn the raw bytes of a string
// VR into utf-8. Outside of person names (PN), only Ideographic is ever
// consulted -- PS3.5 6.2 only distinguishes the three groups for PN.
type CodingSystem struct {
	Alphabetic  *encoding.Decoder
	Ideographic *encoding.Decoder
	Phonetic    *encoding.Decoder
}

// CodingSystemType selects which of the three decoders in a CodingSystem
// applies to a given component of a string value.
type CodingSystemType int

const (
	// AlphabeticCodingSystem is for writing a name in (Latin) alphabets.
	AlphabeticCodingSystem CodingSystemType = iota
	// IdeographicCodingSystem is for writing a name in its native script
	// (e.g. Kanji).
	IdeographicCodingSystem
	// PhoneticCodingSystem is for phonetic scripts (e.g. hiragana/katakana).
	PhoneticCodingSystem
)

// htmlEncodingNames maps a DICOM SpecificCharacterSet value to the
// corresponding golang.org/x/text/encoding/htmlindex name. An empty value
// means 7-bit ASCII, decoded without a Decoder at all.
var htmlEncodingNames = map[string]string{
	"ISO 2022 IR 6":   "iso-8859-1",
	"ISO_IR 13":       "shift_jis",
	"ISO 2022 IR 13":  "shift_jis",
	"ISO_IR 100":      "iso-8859-1",
	"ISO 2022 IR 100": "iso-8859-1",
	"ISO_IR 101":      "iso-8859-2",
	"ISO 2022 IR 101": "iso-8859-2",
	"ISO_IR 109":      "iso-8859-3",
	"ISO 2022 IR 109": "iso-8859-3",
	"ISO_IR 110":      "iso-8859-4",
	"ISO 2022 IR 110": "iso-8859-4",
	"ISO_IR 126":      "iso-ir-126",
	"ISO 2022 IR 126": "iso-ir-126",
	"ISO_IR 127":      "iso-ir-127",
	"ISO 2022 IR 127": "iso-ir-127",
	"ISO_IR 138":      "iso-ir-138",
	"ISO 2022 IR 138": "iso-ir-138",
	"ISO_IR 144":      "iso-ir-144",
	"ISO 2022 IR 144": "iso-ir-144",
	"ISO_IR 148":      "iso-ir-148",
	"ISO 2022 IR 148": "iso-ir-148",
	"ISO 2022 IR 149": "euc-kr",
	"ISO 2022 IR 159": "iso-2022-jp",
	"ISO_IR 166":      "iso-ir-166",
	"ISO 2022 IR 166": "iso-ir-166",
	"ISO 2022 IR 87":  "iso-2022-jp",
	"ISO_IR 192":      "utf-8",
	"GB18030":         "utf-8",
}

// ParseSpecificCharacterSet turns the value(s) of a SpecificCharacterSet
// element (PS3.3 C.12.1.1.2) into a CodingSystem. This is an accessor
// concern, not part of the core element walk: the walker records which
// CodingSystem is active so that string-valued accessors (out of scope
// here) can later decode PN/LO/SH/etc. values correctly.
func ParseSpecificCharacterSet(encodingNames []string) (CodingSystem, error) {
	var decoders []*encoding.Decoder

	for _, name := range encodingNames {
		var c *encoding.Decoder
		logrus.Debugf("dicomio: using coding system %s", name)

		htmlName, ok := htmlEncodingNames[name]
		if !ok {
			return CodingSystem{}, fmt.Errorf("dicomio: unknown character set %q", name)
		}
		if htmlName != "" {
			d, err := htmlindex.Get(htmlName)
			if err != nil {
				return CodingSystem{}, fmt.Errorf("dicomio: encoding %q (for %q) not found: %w", htmlName, name, err)
			}
			c = d.NewDecoder()
		}
		decoders = append(decoders, c)
	}

	switch len(decoders) {
	case 0:
		return CodingSystem{}, nil
	case 1:
		return CodingSystem{decoders[0], decoders[0], decoders[0]}, nil
	case 2:
		return CodingSystem{decoders[0], decoders[1], decoders[1]}, nil
	default:
		return CodingSystem{decoders[0], decoders[1], decoders[2]}, nil
	}
}
