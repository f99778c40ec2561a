// Package fix applies suggested fixes to source text.
package fix

import (
	"bytes"
	"fmt"
	"go/token"
	"slices"

	"golang.org/x/tools/go/analysis"
)

// Edits returns the text edits of every suggested fix of every diagnostic,
// in report order.
func Edits(diags []analysis.Diagnostic) []analysis.TextEdit {
	var edits []analysis.TextEdit
	for _, d := range diags {
		for _, sf := range d.SuggestedFixes {
			edits = append(edits, sf.TextEdits...)
		}
	}
	return edits
}

type span struct {
	start, end int
	text       []byte
	edit       analysis.TextEdit
}

// Apply splices edits into src, which must be the content of tf. Edits are
// ordered by position, insertions first at equal offsets. An edit that
// overlaps one already accepted is not applied and is returned in skipped.
func Apply(tf *token.File, src []byte, edits []analysis.TextEdit) (out []byte, skipped []analysis.TextEdit, err error) {
	spans := make([]span, 0, len(edits))
	for _, e := range edits {
		end := e.End
		if !end.IsValid() {
			end = e.Pos
		}
		if !inFile(tf, e.Pos) || !inFile(tf, end) || end < e.Pos {
			return nil, nil, fmt.Errorf("fix: edit [%d,%d) outside %s", e.Pos, end, tf.Name())
		}
		spans = append(spans, span{
			start: tf.Offset(e.Pos),
			end:   tf.Offset(end),
			text:  e.NewText,
			edit:  e,
		})
	}

	slices.SortStableFunc(spans, func(a, b span) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return (a.end - a.start) - (b.end - b.start)
	})

	var buf bytes.Buffer
	buf.Grow(len(src))
	last := 0
	for _, s := range spans {
		if s.start < last {
			skipped = append(skipped, s.edit)
			continue
		}
		buf.Write(src[last:s.start])
		buf.Write(s.text)
		last = s.end
	}
	buf.Write(src[last:])

	return buf.Bytes(), skipped, nil
}

func inFile(tf *token.File, pos token.Pos) bool {
	return pos.IsValid() && int(pos) >= tf.Base() && int(pos) <= tf.Base()+tf.Size()
}
