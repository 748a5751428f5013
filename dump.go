package dicom

import (
	"fmt"
	"sort"
	"strings"
)

// Dump renders the dataset as an indented tree, descending into sequence
// items (SPEC_FULL.md §4 "Dataset pretty-printer"), grounded in
// odincare-odicom/element.go's elementString. This is debugging/CLI
// output only; it is not used anywhere in the parser itself.
func (d *Dataset) Dump() string {
	var b strings.Builder
	for _, tag := range sortedTags(d.Elements) {
		dumpElement(&b, d.Elements[tag], 0)
	}
	return b.String()
}

// String makes a Dataset print sensibly with %v/fmt.Println, delegating
// to Dump.
func (d *Dataset) String() string {
	return d.Dump()
}

func dumpElement(b *strings.Builder, e *Element, depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s\n", pad, e.String())

	for i, item := range e.Sequence {
		fmt.Fprintf(b, "%s  item[%d] len=%d offset=%d\n", pad, i, item.Length, item.DataOffset)
		for _, tag := range sortedTags(item.Elements) {
			dumpElement(b, item.Elements[tag], depth+2)
		}
	}
}

func sortedTags(elements map[string]*Element) []string {
	tags := make([]string, 0, len(elements))
	for tag := range elements {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
