package buffer

import (
	"fmt"
	"os"
	"strings"
)

type Buffer struct {
	Lines      []string
	Path       string
	Cursor     Cursor
	Dirty      bool
	Undo       *UndoStack
	Language   string
	ReadOnly   bool
	TabSize    int
	LineEnding string // "LF" or "CRLF", detected from file and preserved on save

	savedSnapshot string
	activeGroup   int
}

func NewBuffer(tabSize int) *Buffer {
	return &Buffer{
		Lines:         []string{""},
		Undo:          NewUndoStack(),
		TabSize:       tabSize,
		LineEnding:    "LF",
		savedSnapshot: "",
	}
}

func NewBufferFromFile(path string, tabSize int) (*Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist - start a clean buffer with this path
			b := NewBuffer(tabSize)
			b.Path = path
			return b, nil
		}
		return nil, err
	}

	if info.Size() > 100*1024*1024 { // 100MB
		return nil, fmt.Errorf("file too large (%d MB), max supported is 100 MB", info.Size()/(1024*1024))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Line ending detection: check for CRLF before normalizing
	lineEnding := "LF"
	if strings.Contains(string(data), "\r\n") {
		lineEnding = "CRLF"
	}

	content := string(data)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimRight(content, "\n")
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}

	return &Buffer{
		Lines:         lines,
		Path:          path,
		Undo:          NewUndoStack(),
		TabSize:       tabSize,
		LineEnding:    lineEnding,
		savedSnapshot: strings.Join(lines, "\n"),
	}, nil
}

func (b *Buffer) Save() error {
	if b.Path == "" || b.ReadOnly {
		return nil
	}

	eol := "\n"
	if b.LineEnding == "CRLF" {
		eol = "\r\n"
	}
	content := strings.Join(b.Lines, eol) + eol

	err := os.WriteFile(b.Path, []byte(content), 0644)
	if err == nil {
		b.MarkSaved()
	}
	return err
}

func (b *Buffer) currentSnapshot() string {
	return strings.Join(b.Lines, "\n")
}

func (b *Buffer) MarkSaved() {
	b.savedSnapshot = b.currentSnapshot()
	b.Dirty = false
}

func (b *Buffer) RecomputeDirty() {
	b.Dirty = b.currentSnapshot() != b.savedSnapshot
}

func (b *Buffer) clampCursor() {
	if len(b.Lines) == 0 {
		b.Lines = []string{""}
	}
	if b.Cursor.Line < 0 {
		b.Cursor.Line = 0
	}
	if b.Cursor.Line >= len(b.Lines) {
		b.Cursor.Line = len(b.Lines) - 1
	}
	lineLen := len(b.Lines[b.Cursor.Line])
	if b.Cursor.Col < 0 {
		b.Cursor.Col = 0
	}
	if b.Cursor.Col > lineLen {
		b.Cursor.Col = lineLen
	}
}

func (b *Buffer) InsertChar(ch rune) {
	b.clampCursor()
	line := b.Lines[b.Cursor.Line]
	before := b.Cursor
	text := string(ch)
	b.Lines[b.Cursor.Line] = line[:b.Cursor.Col] + text + line[b.Cursor.Col:]
	b.Cursor.Col += len(text)
	b.Dirty = true
	b.Undo.Push(Operation{Type: OpInsert, Pos: before, Text: text, Before: before})
}

func (b *Buffer) InsertNewline() {
	b.clampCursor()
	line := b.Lines[b.Cursor.Line]
	before := b.Cursor

	// Auto-indent: copy leading whitespace from current line
	indent := ""
	for _, ch := range line {
		if ch == ' ' || ch == '\t' {
			indent += string(ch)
		} else {
			break
		}
	}

	rest := line[b.Cursor.Col:]
	b.Lines[b.Cursor.Line] = line[:b.Cursor.Col]
	newLine := indent + rest
	b.Lines = append(b.Lines, "")
	copy(b.Lines[b.Cursor.Line+2:], b.Lines[b.Cursor.Line+1:])
	b.Lines[b.Cursor.Line+1] = newLine
	b.Cursor.Line++
	b.Cursor.Col = len(indent)
	b.Dirty = true
	b.Undo.Push(Operation{Type: OpInsert, Pos: before, Text: "\n" + indent, Before: before})
}

func (b *Buffer) Backspace() {
	b.clampCursor()
	if b.Cursor.Col > 0 {
		line := b.Lines[b.Cursor.Line]
		before := b.Cursor
		deleted := string(line[b.Cursor.Col-1])
		b.Lines[b.Cursor.Line] = line[:b.Cursor.Col-1] + line[b.Cursor.Col:]
		b.Cursor.Col--
		b.Dirty = true
		b.Undo.Push(Operation{Type: OpDelete, Pos: b.Cursor, Text: deleted, Before: before})
	} else if b.Cursor.Line > 0 {
		before := b.Cursor
		prevLen := len(b.Lines[b.Cursor.Line-1])
		b.Lines[b.Cursor.Line-1] += b.Lines[b.Cursor.Line]
		b.Lines = append(b.Lines[:b.Cursor.Line], b.Lines[b.Cursor.Line+1:]...)
		b.Cursor.Line--
		b.Cursor.Col = prevLen
		b.Dirty = true
		b.Undo.Push(Operation{Type: OpDelete, Pos: b.Cursor, Text: "\n", Before: before})
	}
}

func (b *Buffer) GetTextInRange(start, end Cursor) string {
	if start.Line < 0 || start.Line >= len(b.Lines) || end.Line < 0 || end.Line >= len(b.Lines) {
		return ""
	}
	if start.Line == end.Line {
		line := b.Lines[start.Line]
		sc := start.Col
		ec := end.Col
		if sc > len(line) {
			sc = len(line)
		}
		if ec > len(line) {
			ec = len(line)
		}
		if sc >= ec {
			return ""
		}
		return line[sc:ec]
	}
	var sb strings.Builder
	firstLine := b.Lines[start.Line]
	sc := start.Col
	if sc > len(firstLine) {
		sc = len(firstLine)
	}
	sb.WriteString(firstLine[sc:])
	for i := start.Line + 1; i < end.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(b.Lines[i])
	}
	sb.WriteByte('\n')
	lastLine := b.Lines[end.Line]
	ec := end.Col
	if ec > len(lastLine) {
		ec = len(lastLine)
	}
	sb.WriteString(lastLine[:ec])
	return sb.String()
}

// ApplyUndo reverts the newest undo group: inversions run newest first,
// and the cursor returns to where the oldest edit was made.
func (b *Buffer) ApplyUndo() {
	ops := b.Undo.PopUndoGroup()
	if len(ops) == 0 {
		return
	}
	for _, op := range ops {
		b.applyInverse(op)
	}
	b.Cursor = ops[len(ops)-1].Before
	b.clampCursor()
	b.RecomputeDirty()
}

// ApplyRedo reapplies the most recently undone group in its original order.
func (b *Buffer) ApplyRedo() {
	ops := b.Undo.PopRedoGroup()
	if len(ops) == 0 {
		return
	}
	for _, op := range ops {
		b.applyForward(op)
	}
	last := ops[len(ops)-1]
	if last.Type == OpInsert {
		b.Cursor = b.posAfterInsert(last.Pos, last.Text)
	} else {
		b.Cursor = last.Pos
	}
	b.clampCursor()
	b.RecomputeDirty()
}

func (b *Buffer) applyInverse(op Operation) {
	switch op.Type {
	case OpInsert:
		b.removeText(op.Pos, op.Text)
	case OpDelete:
		b.insertTextAt(op.Pos, op.Text)
	}
}

func (b *Buffer) applyForward(op Operation) {
	switch op.Type {
	case OpInsert:
		b.insertTextAt(op.Pos, op.Text)
	case OpDelete:
		b.removeText(op.Pos, op.Text)
	}
}

func (b *Buffer) insertTextAt(pos Cursor, text string) {
	if len(text) == 0 {
		return
	}
	if pos.Line >= len(b.Lines) {
		return
	}
	line := b.Lines[pos.Line]
	if pos.Col > len(line) {
		pos.Col = len(line)
	}

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		b.Lines[pos.Line] = line[:pos.Col] + text + line[pos.Col:]
	} else {
		rest := line[pos.Col:]
		b.Lines[pos.Line] = line[:pos.Col] + lines[0]

		newLines := make([]string, len(lines)-1)
		for i := 1; i < len(lines); i++ {
			newLines[i-1] = lines[i]
		}
		newLines[len(newLines)-1] += rest

		after := make([]string, len(b.Lines)-pos.Line-1)
		copy(after, b.Lines[pos.Line+1:])
		b.Lines = append(b.Lines[:pos.Line+1], newLines...)
		b.Lines = append(b.Lines, after...)
	}
}

func (b *Buffer) removeText(pos Cursor, text string) {
	if len(text) == 0 {
		return
	}
	if pos.Line >= len(b.Lines) {
		return
	}
	line := b.Lines[pos.Line]
	if pos.Col > len(line) {
		pos.Col = len(line)
	}

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		end := pos.Col + len(text)
		if end > len(line) {
			end = len(line)
		}
		b.Lines[pos.Line] = line[:pos.Col] + line[end:]
	} else {
		firstPart := line[:pos.Col]
		lastLineIdx := pos.Line + len(lines) - 1
		if lastLineIdx >= len(b.Lines) {
			lastLineIdx = len(b.Lines) - 1
		}
		lastLineLen := len(lines[len(lines)-1])
		lastLine := b.Lines[lastLineIdx]
		lastPart := ""
		if lastLineLen < len(lastLine) {
			lastPart = lastLine[lastLineLen:]
		}
		b.Lines[pos.Line] = firstPart + lastPart
		b.Lines = append(b.Lines[:pos.Line+1], b.Lines[lastLineIdx+1:]...)
	}
}

func (b *Buffer) posAfterInsert(pos Cursor, text string) Cursor {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return Cursor{Line: pos.Line, Col: pos.Col + len(text)}
	}
	return Cursor{
		Line: pos.Line + len(lines) - 1,
		Col:  len(lines[len(lines)-1]),
	}
}
