package operate

// rowRange is one row of a rectangle, resolved to absolute offsets.
type rowRange struct {
	begin, end int
}

// rowRanges decomposes a rectangle given by two corner offsets into one
// range per spanned line. Columns are display columns; rows shorter than
// the rectangle clamp to their line end, possibly to an empty range. The
// returned slice is freshly allocated per call: a reentrant block operation
// never observes a previous invocation's rows.
func (en *Engine) rowRanges(begin, end int) []rowRange {
	topLine, leftCol := en.buf.OffsetToColumn(begin)
	botLine, rightCol := en.buf.OffsetToColumn(end)
	if topLine > botLine {
		topLine, botLine = botLine, topLine
	}
	if leftCol > rightCol {
		leftCol, rightCol = rightCol, leftCol
	}
	if botLine >= en.buf.LineCount() {
		botLine = en.buf.LineCount() - 1
	}

	out := make([]rowRange, 0, botLine-topLine+1)
	for line := topLine; line <= botLine; line++ {
		rb := en.buf.ColumnToOffset(line, leftCol)
		re := en.buf.ColumnToOffset(line, rightCol)
		if re < rb {
			re = rb
		}
		out = append(out, rowRange{begin: rb, end: re})
	}
	return out
}
