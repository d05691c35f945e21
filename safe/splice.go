package safe

import (
	"sort"

	"sexpedit/syntax"
)

// Repair removes the unmatched delimiters inside [begin,end) from the
// buffer, in place. Matched delimiters are never touched. An unmatched
// opening quote also takes the next unescaped quote with it, so the splice
// doesn't leave a dangling open string that swallows following text; an
// unmatched closing quote is removed alone.
//
// Returns the shifted end of the range and the number of characters removed
// inside it. Used by single-character delete; whole-range operations prefer
// Resolve, which excludes rather than repairs.
func Repair(buf Buffer, sx Syntax, begin, end int) (newEnd, removed int) {
	positions := Unmatched(sx, begin, end)
	if len(positions) == 0 {
		return end, 0
	}

	del := map[int]bool{}
	for _, p := range positions {
		del[p] = true
		cl, _ := sx.ClassAt(p)
		if cl != syntax.Quote {
			continue
		}
		if m, ok := sx.MatchOf(p); ok {
			if m > p {
				// Opening quote: the partner beyond the range is the next
				// unescaped quote.
				del[m] = true
			}
			continue
		}
		// Unterminated open string: hunt for a quote to pair the removal with.
		qc := buf.Read(p, p+1)
		if q, ok := nextUnescapedQuote(buf, p+1, qc); ok {
			del[q] = true
		}
	}

	order := make([]int, 0, len(del))
	for p := range del {
		order = append(order, p)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	// Right-to-left deletion keeps the remaining offsets stable; the result
	// is the same as left-to-right with shift accounting.
	for _, p := range order {
		buf.DeleteRange(p, p+1)
		if p >= begin && p < end {
			removed++
		}
	}
	return end - removed, removed
}

func nextUnescapedQuote(buf Buffer, from int, qc string) (int, bool) {
	if qc == "" {
		return 0, false
	}
	rest := buf.Read(from, buf.Len())
	for i := 0; i < len(rest); i++ {
		if rest[i:i+1] != qc {
			continue
		}
		n := 0
		for j := i - 1; j >= 0 && rest[j] == '\\'; j-- {
			n++
		}
		if n%2 == 0 {
			return from + i, true
		}
	}
	return 0, false
}
