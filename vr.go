package dicom

// longFormVRs is the set of value representations whose explicit-VR
// length field is 4 bytes (preceded by 2 reserved bytes), per spec.md
// §4.4 "Explicit VR" step 3. Every other VR uses a 2-byte length field.
var longFormVRs = map[string]bool{
	"OB": true, "OD": true, "OF": true, "OL": true, "OW": true,
	"SQ": true, "UC": true, "UR": true, "UT": true, "UN": true,
}

// isLongFormVR reports whether vr requires the 4-byte explicit-VR length
// encoding.
func isLongFormVR(vr string) bool {
	return longFormVRs[vr]
}

// ImplicitVRLookup resolves the VR of a tag encountered in implicit VR
// mode. Implementations typically consult a DICOM data dictionary; that
// dictionary is out of scope here (spec.md §1 "out of scope"), so the
// element reader works correctly with a nil lookup -- VR is simply left
// empty for elements it can't otherwise infer are sequences.
type ImplicitVRLookup func(tag string) (vr string, ok bool)
