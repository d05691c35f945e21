package buffer

import "testing"

func offsetTestBuffer(lines ...string) *Buffer {
	b := NewBuffer(4)
	b.Lines = lines
	return b
}

func TestOffsetPosRoundTrip(t *testing.T) {
	b := offsetTestBuffer("ab", "", "cde")

	if got := b.Len(); got != 7 {
		t.Fatalf("expected length 7, got %d", got)
	}
	for off := 0; off <= b.Len(); off++ {
		if got := b.Offset(b.Pos(off)); got != off {
			t.Fatalf("expected round trip of offset %d, got %d", off, got)
		}
	}
	if got := b.Pos(5); got != (Cursor{Line: 2, Col: 1}) {
		t.Fatalf("expected cursor 2:1, got %+v", got)
	}
}

func TestOffsetClamps(t *testing.T) {
	b := offsetTestBuffer("ab")

	if got := b.Pos(-3); got != (Cursor{}) {
		t.Fatalf("expected cursor 0:0, got %+v", got)
	}
	if got := b.Pos(99); got != (Cursor{Line: 0, Col: 2}) {
		t.Fatalf("expected clamp to buffer end, got %+v", got)
	}
	if got := b.Offset(Cursor{Line: 5, Col: 0}); got != b.Len() {
		t.Fatalf("expected offset clamp to length, got %d", got)
	}
}

func TestReadAcrossLines(t *testing.T) {
	b := offsetTestBuffer("ab", "", "cde")

	if got := b.Read(1, 5); got != "b\n\nc" {
		t.Fatalf("expected b\\n\\nc, got %q", got)
	}
	if got := b.Read(4, 4); got != "" {
		t.Fatalf("expected empty read, got %q", got)
	}
}

func TestByteAt(t *testing.T) {
	b := offsetTestBuffer("ab", "", "cde")

	if got := b.ByteAt(2); got != '\n' {
		t.Fatalf("expected newline at 2, got %q", got)
	}
	if got := b.ByteAt(4); got != 'c' {
		t.Fatalf("expected c at 4, got %q", got)
	}
	if got := b.ByteAt(7); got != 0 {
		t.Fatalf("expected zero past the end, got %q", got)
	}
}

func TestDeleteRangeMovesCursor(t *testing.T) {
	b := offsetTestBuffer("abc", "def")
	b.Cursor = Cursor{Line: 1, Col: 2}

	b.DeleteRange(2, 5)
	if got := b.Text(); got != "abef" {
		t.Fatalf("expected abef, got %q", got)
	}
	if b.Cursor != (Cursor{Line: 0, Col: 2}) {
		t.Fatalf("expected cursor at deletion start, got %+v", b.Cursor)
	}
	if !b.Dirty {
		t.Fatalf("expected buffer marked dirty")
	}
}

func TestInsertAt(t *testing.T) {
	b := offsetTestBuffer("ab")

	b.InsertAt(1, "xy")
	if got := b.Text(); got != "axyb" {
		t.Fatalf("expected axyb, got %q", got)
	}

	b.InsertAt(2, "c\nd")
	if got := b.Text(); got != "axc\ndyb" {
		t.Fatalf("expected axc\\ndyb, got %q", got)
	}
}

func TestGroupedEditsUndoTogether(t *testing.T) {
	b := offsetTestBuffer("abc", "def")

	b.BeginGroup()
	b.DeleteRange(0, 2)
	b.DeleteRange(1, 3)
	b.EndGroup()
	if got := b.Text(); got != "cef" {
		t.Fatalf("expected cef, got %q", got)
	}

	b.ApplyUndo()
	if got := b.Text(); got != "abc\ndef" {
		t.Fatalf("expected one undo to restore the group, got %q", got)
	}

	b.ApplyRedo()
	if got := b.Text(); got != "cef" {
		t.Fatalf("expected redo to reapply the group, got %q", got)
	}
}

func TestLineQueries(t *testing.T) {
	b := offsetTestBuffer("abc", "  def", "")

	if got := b.LineStart(6); got != 4 {
		t.Fatalf("expected line start 4, got %d", got)
	}
	if got := b.LineEnd(4); got != 9 {
		t.Fatalf("expected line end 9, got %d", got)
	}
	if got := b.LineStartOffset(2); got != 10 {
		t.Fatalf("expected line 2 start 10, got %d", got)
	}
	if got := b.FirstNonBlank(1); got != 6 {
		t.Fatalf("expected first non-blank 6, got %d", got)
	}
	if got := b.FirstNonBlank(2); got != 10 {
		t.Fatalf("expected line end for blank line, got %d", got)
	}
}

func TestColumnToOffsetTabs(t *testing.T) {
	b := offsetTestBuffer("a\tb")

	if got := b.ColumnToOffset(0, 0); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := b.ColumnToOffset(0, 1); got != 1 {
		t.Fatalf("expected offset 1, got %d", got)
	}
	// Column 4 is the tab stop; the tab at offset 1 spans columns 1-3.
	if got := b.ColumnToOffset(0, 4); got != 2 {
		t.Fatalf("expected offset 2 at the tab stop, got %d", got)
	}
	if got := b.ColumnToOffset(0, 99); got != 3 {
		t.Fatalf("expected clamp to line end, got %d", got)
	}
}

func TestOffsetToColumnWideRune(t *testing.T) {
	b := offsetTestBuffer("你a")

	line, col := b.OffsetToColumn(3)
	if line != 0 || col != 2 {
		t.Fatalf("expected 0:2 after a double-width rune, got %d:%d", line, col)
	}
}
