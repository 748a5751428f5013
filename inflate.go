package dicom

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
)

// defaultInflate implements spec.md §4.10 step 3: raw Deflate (no zlib
// wrapper), the body concatenated back onto the untouched meta-header
// prefix so every element in both halves keeps a single consistent set of
// buffer offsets.
func defaultInflate(buf []byte, startPosition int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(buf[startPosition:]))
	defer r.Close()

	inflated, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dicom: inflating deflated transfer syntax body: %w", err)
	}

	out := make([]byte, 0, startPosition+len(inflated))
	out = append(out, buf[:startPosition]...)
	out = append(out, inflated...)
	return out, nil
}
