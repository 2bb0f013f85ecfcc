// Package rewrite splices rendered lines into marker-anchored regions of
// existing files. Every region is located before anything changes, so a
// failed anchor never produces a partial edit, and files are replaced
// atomically.
package rewrite

import (
	"fmt"
	"sort"
	"strings"
)

// Edit replaces the region of Anchor with Lines.
type Edit struct {
	Anchor Anchor
	Lines  []string
}

type located struct {
	edit Edit
	span span
}

// Splice applies edits to content. It fails without changes when any anchor
// is missing or ambiguous, or when two regions overlap.
func Splice(content string, edits ...Edit) (string, error) {
	spans := make([]located, 0, len(edits))
	for _, e := range edits {
		s, err := e.Anchor.locate(content)
		if err != nil {
			return "", err
		}
		spans = append(spans, located{edit: e, span: s})
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].span.start < spans[j].span.start })
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.span.start < prev.span.end || cur.span.start == prev.span.start {
			return "", &AnchorError{
				Anchor: cur.edit.Anchor.Pattern(),
				Err:    fmt.Errorf("%w: overlaps %s", ErrOverlappingSections, prev.edit.Anchor.Pattern()),
			}
		}
	}

	var b strings.Builder
	b.Grow(len(content))
	pos := 0
	for _, l := range spans {
		b.WriteString(content[pos:l.span.start])
		b.WriteString(l.edit.Anchor.render(l.span, l.edit.Lines))
		pos = l.span.end
	}
	b.WriteString(content[pos:])
	return b.String(), nil
}
