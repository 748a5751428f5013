package dicom

import "fmt"

// ParseError is returned for fatal structural errors (spec.md §7.1): a
// missing DICM prefix, a missing mandatory meta-header element, an
// expected item tag that wasn't found, an out-of-bounds read outside a
// tolerable boundary, or an unsupported transfer syntax.
//
// For errors arising while the meta-header was being read, Partial carries
// whatever meta-header elements were already parsed, per spec.md §7's
// "partial parses arising within the meta-header".
type ParseError struct {
	Offset  int
	Message string
	Partial *Dataset
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("dicom: %s (offset %d)", e.Message, e.Offset)
	}
	return fmt.Sprintf("dicom: %s", e.Message)
}

func parseErrorf(offset int, format string, args ...interface{}) error {
	return &ParseError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}
