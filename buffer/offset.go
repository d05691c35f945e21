package buffer

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Offset-based addressing over the line model. An offset counts bytes into
// the buffer text with lines joined by single "\n" separators, half-open
// ranges throughout. All offsets are clamped to buffer bounds; callers that
// hand in an out-of-range offset get the nearest valid one, never a panic.

func (b *Buffer) Len() int {
	n := 0
	for _, line := range b.Lines {
		n += len(line)
	}
	if len(b.Lines) > 0 {
		n += len(b.Lines) - 1
	}
	return n
}

func (b *Buffer) Text() string {
	return strings.Join(b.Lines, "\n")
}

func (b *Buffer) clampOffset(pos int) int {
	if pos < 0 {
		return 0
	}
	if n := b.Len(); pos > n {
		return n
	}
	return pos
}

// Pos converts a byte offset to a line/column cursor.
func (b *Buffer) Pos(pos int) Cursor {
	pos = b.clampOffset(pos)
	for i, line := range b.Lines {
		if pos <= len(line) {
			return Cursor{Line: i, Col: pos}
		}
		pos -= len(line) + 1
	}
	last := len(b.Lines) - 1
	return Cursor{Line: last, Col: len(b.Lines[last])}
}

// Offset converts a line/column cursor to a byte offset.
func (b *Buffer) Offset(c Cursor) int {
	if c.Line < 0 {
		return 0
	}
	if c.Line >= len(b.Lines) {
		return b.Len()
	}
	n := 0
	for i := 0; i < c.Line; i++ {
		n += len(b.Lines[i]) + 1
	}
	col := c.Col
	if col < 0 {
		col = 0
	}
	if col > len(b.Lines[c.Line]) {
		col = len(b.Lines[c.Line])
	}
	return n + col
}

func (b *Buffer) Read(begin, end int) string {
	begin = b.clampOffset(begin)
	end = b.clampOffset(end)
	if begin >= end {
		return ""
	}
	return b.GetTextInRange(b.Pos(begin), b.Pos(end))
}

// ByteAt returns the byte at pos, or 0 past the end. Line separators read
// back as '\n'.
func (b *Buffer) ByteAt(pos int) byte {
	if pos < 0 || pos >= b.Len() {
		return 0
	}
	c := b.Pos(pos)
	line := b.Lines[c.Line]
	if c.Col >= len(line) {
		return '\n'
	}
	return line[c.Col]
}

// DeleteRange removes [begin,end) and leaves the cursor at begin.
func (b *Buffer) DeleteRange(begin, end int) {
	begin = b.clampOffset(begin)
	end = b.clampOffset(end)
	if begin >= end {
		return
	}
	before := b.Cursor
	pos := b.Pos(begin)
	text := b.GetTextInRange(pos, b.Pos(end))
	b.removeText(pos, text)
	b.Cursor = pos
	b.clampCursor()
	b.Dirty = true
	b.record(Operation{Type: OpDelete, Pos: pos, Text: text, Before: before})
}

// InsertAt inserts text at the given offset without moving the cursor.
func (b *Buffer) InsertAt(pos int, text string) {
	if len(text) == 0 {
		return
	}
	before := b.Cursor
	c := b.Pos(pos)
	b.insertTextAt(c, text)
	b.Dirty = true
	b.record(Operation{Type: OpInsert, Pos: c, Text: text, Before: before})
}

// BeginGroup opens an undo group; every mutation until EndGroup undoes as one.
func (b *Buffer) BeginGroup() {
	b.activeGroup = b.Undo.NewGroup()
}

func (b *Buffer) EndGroup() {
	b.activeGroup = 0
}

func (b *Buffer) record(op Operation) {
	if b.activeGroup != 0 {
		b.Undo.PushGrouped(op, b.activeGroup)
	} else {
		b.Undo.Push(op)
	}
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int {
	return len(b.Lines)
}

// LineOf returns the line index containing pos.
func (b *Buffer) LineOf(pos int) int {
	return b.Pos(pos).Line
}

// LineStart returns the offset of the first character of the line containing pos.
func (b *Buffer) LineStart(pos int) int {
	c := b.Pos(pos)
	return b.Offset(Cursor{Line: c.Line, Col: 0})
}

// LineEnd returns the offset just past the last character of the line
// containing pos (the position of the line's newline, if any).
func (b *Buffer) LineEnd(pos int) int {
	c := b.Pos(pos)
	return b.Offset(Cursor{Line: c.Line, Col: len(b.Lines[c.Line])})
}

// LineStartOffset returns the offset of the first character of the given line.
func (b *Buffer) LineStartOffset(line int) int {
	if line < 0 {
		line = 0
	}
	if line >= len(b.Lines) {
		return b.Len()
	}
	return b.Offset(Cursor{Line: line, Col: 0})
}

// FirstNonBlank returns the offset of the first non-whitespace character of
// the given line, or the line end when the line is blank.
func (b *Buffer) FirstNonBlank(line int) int {
	if line < 0 || line >= len(b.Lines) {
		return b.Len()
	}
	l := b.Lines[line]
	col := 0
	for col < len(l) && (l[col] == ' ' || l[col] == '\t') {
		col++
	}
	return b.Offset(Cursor{Line: line, Col: col})
}

// ColumnToOffset resolves a display column on a line to a byte offset,
// clamping past short lines. Tabs advance to the next tab stop; wide runes
// count their display width.
func (b *Buffer) ColumnToOffset(line, col int) int {
	if line < 0 || line >= len(b.Lines) {
		return b.Len()
	}
	l := b.Lines[line]
	w := 0
	for i, r := range l {
		if w >= col {
			return b.Offset(Cursor{Line: line, Col: i})
		}
		if r == '\t' {
			w += b.tabWidth() - w%b.tabWidth()
		} else {
			w += runewidth.RuneWidth(r)
		}
	}
	return b.Offset(Cursor{Line: line, Col: len(l)})
}

// OffsetToColumn returns the line index and display column of pos.
func (b *Buffer) OffsetToColumn(pos int) (line, col int) {
	c := b.Pos(pos)
	l := b.Lines[c.Line]
	w := 0
	for i, r := range l {
		if i >= c.Col {
			break
		}
		if r == '\t' {
			w += b.tabWidth() - w%b.tabWidth()
		} else {
			w += runewidth.RuneWidth(r)
		}
	}
	return c.Line, w
}

func (b *Buffer) tabWidth() int {
	if b.TabSize > 0 {
		return b.TabSize
	}
	return 4
}
