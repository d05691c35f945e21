package operate

import "sexpedit/syntax"

// repairAfterLinewise cleans up the line a linewise delete left behind when
// unmatched delimiters kept it from being removed whole. If the point lands
// before an unmatched closer the line is pulled up to the previous line
// (skipping that when the previous line is a comment, which would swallow
// the closer); otherwise the next line is pulled up instead. Either way the
// result is reindented.
func (en *Engine) repairAfterLinewise(begin int) {
	line := en.buf.LineOf(begin)
	point := en.buf.FirstNonBlank(line)

	if en.opts.SkipUnmatchedOnDelete && isCloser(en.buf.ByteAt(point)) &&
		line > 0 && !en.lineIsComment(line-1) {
		en.stripStrayQuote(line-1, begin)
		en.joinWithPrevious(line)
		en.reindent(line - 1)
		return
	}

	en.joinWithNext(line)
	en.reindent(line)
}

func isCloser(b byte) bool {
	return b == ')' || b == ']' || b == '}'
}

// lineIsComment checks the classifier at the line's first non-blank
// character. Lines above the edited range keep their original offsets, so
// the pre-mutation classifier is still authoritative for them.
func (en *Engine) lineIsComment(line int) bool {
	fb := en.buf.FirstNonBlank(line)
	le := en.buf.LineEnd(en.buf.LineStartOffset(line))
	if fb >= le {
		return false
	}
	return en.syn.ContextOf(fb) == syntax.InComment
}

// stripStrayQuote removes a quote left dangling at the end of the given
// line when its partner sat inside the deleted range.
func (en *Engine) stripStrayQuote(line, begin int) {
	ls := en.buf.LineStartOffset(line)
	le := en.buf.LineEnd(ls)
	p := le - 1
	if p < ls {
		return
	}
	switch en.buf.ByteAt(p) {
	case '"', '\'', '`':
	default:
		return
	}
	if cl, ok := en.syn.ClassAt(p); !ok || cl != syntax.Quote {
		return
	}
	if m, ok := en.syn.MatchOf(p); ok && m < begin {
		// Partner survives before the edit; the string is intact.
		return
	}
	en.buf.DeleteRange(p, p+1)
}

// joinWithPrevious merges the line onto the end of the previous line,
// dropping the newline and the line's leading whitespace.
func (en *Engine) joinWithPrevious(line int) {
	if line <= 0 {
		return
	}
	pe := en.buf.LineEnd(en.buf.LineStartOffset(line - 1))
	fb := en.buf.FirstNonBlank(line)
	en.buf.DeleteRange(pe, fb)
}

// joinWithNext merges the next line onto the end of this one.
func (en *Engine) joinWithNext(line int) {
	if line+1 >= en.buf.LineCount() {
		return
	}
	le := en.buf.LineEnd(en.buf.LineStartOffset(line))
	fb := en.buf.FirstNonBlank(line + 1)
	en.buf.DeleteRange(le, fb)
}

// reindent replaces the line's leading whitespace with the indent of the
// nearest non-blank line above it.
func (en *Engine) reindent(line int) {
	if line <= 0 || line >= en.buf.LineCount() {
		return
	}
	target := ""
	for l := line - 1; l >= 0; l-- {
		ls := en.buf.LineStartOffset(l)
		fb := en.buf.FirstNonBlank(l)
		le := en.buf.LineEnd(ls)
		if fb < le {
			target = en.buf.Read(ls, fb)
			break
		}
	}
	ls := en.buf.LineStartOffset(line)
	fb := en.buf.FirstNonBlank(line)
	if en.buf.Read(ls, fb) == target {
		return
	}
	en.buf.DeleteRange(ls, fb)
	if target != "" {
		en.buf.InsertAt(ls, target)
	}
}
