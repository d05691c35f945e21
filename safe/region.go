// Package safe computes delimiter-balanced sub-ranges of a requested edit
// range and repairs ranges by splicing out unmatched delimiters. It is the
// reason a delete or yank over half an s-expression doesn't leave the buffer
// or the clipboard with dangling parens.
package safe

import (
	"strings"

	"sexpedit/syntax"
)

// Region is a half-open [Begin,End) sub-range containing no unmatched
// delimiter.
type Region struct {
	Begin, End int
}

// Syntax is the classifier capability the resolver and repairer consume.
type Syntax interface {
	ClassAt(pos int) (syntax.Class, bool)
	MatchOf(pos int) (int, bool)
	ContextOf(pos int) syntax.Context
}

// Buffer is the minimal text store the repairer mutates.
type Buffer interface {
	Len() int
	Read(begin, end int) string
	DeleteRange(begin, end int)
}

// Resolve partitions [begin,end) into maximal sub-ranges that contain no
// delimiter or string boundary whose partner lies outside the range. The
// regions are ordered left to right; empty regions are dropped. A range
// that lies entirely inside one comment is returned whole: comment content
// is opaque to delimiter logic.
func Resolve(sx Syntax, begin, end int) []Region {
	if begin >= end {
		return nil
	}
	if insideComment(sx, begin, end) {
		return []Region{{Begin: begin, End: end}}
	}

	var out []Region
	cur := begin
	for pos := begin; pos < end; pos++ {
		if _, ok := sx.ClassAt(pos); !ok {
			continue
		}
		if !unmatchedInRange(sx, pos, begin, end) {
			continue
		}
		if pos > cur {
			out = append(out, Region{Begin: cur, End: pos})
		}
		cur = pos + 1
	}
	if cur < end {
		out = append(out, Region{Begin: cur, End: end})
	}
	return out
}

// Unmatched collects the positions in [begin,end) of delimiters and string
// boundaries whose partner lies outside the range, in increasing order.
func Unmatched(sx Syntax, begin, end int) []int {
	if begin >= end || insideComment(sx, begin, end) {
		return nil
	}
	var out []int
	for pos := begin; pos < end; pos++ {
		if _, ok := sx.ClassAt(pos); !ok {
			continue
		}
		if unmatchedInRange(sx, pos, begin, end) {
			out = append(out, pos)
		}
	}
	return out
}

// Text concatenates the buffer content of the regions in order.
func Text(buf Buffer, regions []Region) string {
	if len(regions) == 1 {
		return buf.Read(regions[0].Begin, regions[0].End)
	}
	var sb strings.Builder
	for _, r := range regions {
		sb.WriteString(buf.Read(r.Begin, r.End))
	}
	return sb.String()
}

func unmatchedInRange(sx Syntax, pos, begin, end int) bool {
	m, ok := sx.MatchOf(pos)
	if !ok {
		return true
	}
	return m < begin || m >= end
}

func insideComment(sx Syntax, begin, end int) bool {
	if sx.ContextOf(begin) != syntax.InComment {
		return false
	}
	for pos := begin; pos < end; pos++ {
		if sx.ContextOf(pos) != syntax.InComment {
			return false
		}
	}
	return true
}
