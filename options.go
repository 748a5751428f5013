package dicom

import (
	"github.com/go-playground/validator/v10"

	"github.com/odincare/dcmp10/dicomtag"
)

// Inflater decompresses a deflated transfer syntax body. The built-in
// implementation (inflate.go) delegates to compress/flate; callers may
// supply their own (e.g. to reuse a pooled decompressor) via
// ParseOptions.Inflater.
type Inflater func(buf []byte, startPosition int) ([]byte, error)

// ParseOptions controls Parse's behavior (spec.md §6 "options").
type ParseOptions struct {
	// UntilTag, when non-empty, must be a canonical "xggggeeee" tag. Once
	// an element with this tag is inserted, parsing stops immediately.
	// An invalid format is a caller-input error (spec.md §7.3): it is not
	// fatal, but is treated as "never matches".
	UntilTag string `validate:"omitempty,dicomtag"`

	// Inflater, if set, replaces the built-in raw-Deflate implementation
	// for the deflated transfer syntax (1.2.840.10008.1.2.1.99).
	Inflater Inflater `validate:"-"`

	// ImplicitVRLookup resolves a tag's VR while reading in implicit VR
	// mode. Optional; see ImplicitVRLookup's doc comment.
	ImplicitVRLookup ImplicitVRLookup `validate:"-"`

	// TransferSyntaxHint, if set, lets the P10 header reader recover a
	// buffer that's missing its DICM prefix (spec.md §4.9 step 2): the
	// buffer is treated as having no preamble at all, and this UID
	// stands in for the (absent) x00020010 meta-header element.
	TransferSyntaxHint string `validate:"-"`
}

var optionsValidator = newOptionsValidator()

func newOptionsValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dicomtag", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		return dicomtag.CanonicalPattern.MatchString(s)
	})
	return v
}

// untilTag parses UntilTag, returning (zero Tag, false) if it is empty or
// malformed -- per spec.md §7.3, a malformed UntilTag is a non-fatal
// caller-input error that simply never matches anything.
func (o ParseOptions) untilTag() (dicomtag.Tag, bool) {
	if o.UntilTag == "" {
		return dicomtag.Tag{}, false
	}
	tag, err := dicomtag.ParseCanonical(o.UntilTag)
	if err != nil {
		return dicomtag.Tag{}, false
	}
	return tag, true
}

// validate runs struct-tag validation over o and reports (via the
// returned warning, not an error) when UntilTag doesn't parse. It never
// fails the parse: malformed options degrade to "no effect", matching
// spec.md §7.3.
func (o ParseOptions) validate() (warning string, ok bool) {
	if err := optionsValidator.Struct(o); err != nil {
		return "ParseOptions.UntilTag is not a canonical tag; ignoring", false
	}
	return "", true
}
