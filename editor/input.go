package editor

import (
	"strings"

	"sexpedit/buffer"
	"sexpedit/operate"
	"sexpedit/register"

	"github.com/gdamore/tcell/v2"
)

func (e *Editor) handleKey(ev *tcell.EventKey) {
	e.status = ""
	if e.mode == ModeInsert {
		e.handleInsertKey(ev)
		return
	}
	e.handleNormalKey(ev)
}

func (e *Editor) handleInsertKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		e.leaveInsert()
	case tcell.KeyEnter:
		e.buf.InsertNewline()
		e.insertTyped = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.buf.Backspace()
		if n := len(e.insertTyped); n > 0 {
			e.insertTyped = e.insertTyped[:n-1]
		}
	case tcell.KeyTab:
		for i := 0; i < e.buf.TabSize; i++ {
			e.buf.InsertChar(' ')
		}
		e.insertTyped += strings.Repeat(" ", e.buf.TabSize)
	case tcell.KeyRune:
		e.buf.InsertChar(ev.Rune())
		e.insertTyped += string(ev.Rune())
	}
}

// leaveInsert ends insert mode. After a blockwise change the typed text is
// replayed on the remaining rows at the same column.
func (e *Editor) leaveInsert() {
	e.mode = ModeNormal
	if e.insertRepeat > 1 && e.insertTyped != "" && !strings.Contains(e.insertTyped, "\n") {
		line := e.buf.Cursor.Line
		col := e.buf.Cursor.Col - len(e.insertTyped)
		if col < 0 {
			col = 0
		}
		e.buf.BeginGroup()
		for i := 1; i < e.insertRepeat; i++ {
			l := line + i
			if l >= e.buf.LineCount() {
				break
			}
			e.buf.InsertAt(e.buf.Offset(buffer.Cursor{Line: l, Col: col}), e.insertTyped)
		}
		e.buf.EndGroup()
	}
	e.insertRepeat = 0
	e.insertTyped = ""
}

func (e *Editor) handleNormalKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		e.quit = true
		return
	case tcell.KeyCtrlS:
		if err := e.buf.Save(); err != nil {
			e.setStatus("save failed: %v", err)
		} else {
			e.setStatus("saved %s", e.buf.Path)
		}
		return
	case tcell.KeyCtrlR:
		e.buf.ApplyRedo()
		return
	case tcell.KeyCtrlV:
		e.startVisual(ModeVisualBlock)
		return
	case tcell.KeyEscape:
		e.resetPending()
		e.mode = ModeNormal
		return
	}
	if ev.Key() != tcell.KeyRune {
		return
	}
	r := ev.Rune()

	if e.awaitingReg {
		e.pendingReg = r
		e.awaitingReg = false
		return
	}
	if r >= '1' && r <= '9' || (r == '0' && e.count > 0) {
		e.count = e.count*10 + int(r-'0')
		return
	}

	switch r {
	case '"':
		e.awaitingReg = true
		return
	case 'i':
		e.mode = ModeInsert
		return
	case 'a':
		if e.buf.Cursor.Col < len(e.buf.Lines[e.buf.Cursor.Line]) {
			e.buf.Cursor.Col++
		}
		e.mode = ModeInsert
		return
	case 'v':
		e.startVisual(ModeVisual)
		return
	case 'V':
		e.startVisual(ModeVisualLine)
		return
	case 'u':
		e.buf.ApplyUndo()
		return
	case 'x':
		e.deleteCharAtCursor()
		return
	case 'p':
		e.paste(true)
		return
	case 'P':
		e.paste(false)
		return
	case 'd', 'y', 'c':
		if e.mode == ModeVisual || e.mode == ModeVisualLine || e.mode == ModeVisualBlock {
			e.visualOp(r)
			return
		}
		if e.pendingOp == r {
			e.linewiseOp(r)
			e.resetPending()
			return
		}
		e.pendingOp = r
		return
	}

	if begin, end, ok := e.motionRange(r); ok && e.pendingOp != 0 {
		e.runOp(e.pendingOp, operate.Request{Begin: begin, End: end, Kind: operate.Character, Register: e.takeRegister()})
		e.resetPending()
		return
	}
	e.moveCursor(r)
	e.resetCount()
}

func (e *Editor) startVisual(m Mode) {
	e.mode = m
	e.visualAnchor = e.buf.Cursor
}

func (e *Editor) resetPending() {
	e.pendingOp = 0
	e.pendingReg = 0
	e.awaitingReg = false
	e.count = 0
}

func (e *Editor) resetCount() {
	e.count = 0
}

func (e *Editor) takeCount() int {
	n := e.count
	e.count = 0
	if n <= 0 {
		n = 1
	}
	return n
}

func (e *Editor) takeRegister() rune {
	r := e.pendingReg
	e.pendingReg = 0
	return r
}

// motionRange resolves an operator motion to a characterwise range from the
// cursor.
func (e *Editor) motionRange(r rune) (begin, end int, ok bool) {
	n := e.takeCount()
	off := e.buf.Offset(e.buf.Cursor)
	switch r {
	case 'h':
		begin = off - n
		if ls := e.buf.LineStart(off); begin < ls {
			begin = ls
		}
		return begin, off, true
	case 'l', ' ':
		end = off + n
		if le := e.buf.LineEnd(off); end > le {
			end = le
		}
		return off, end, true
	case 'w':
		return off, e.wordForward(off, n), true
	case 'b':
		return e.wordBackward(off, n), off, true
	case '0':
		return e.buf.LineStart(off), off, true
	case '$':
		return off, e.buf.LineEnd(off), true
	}
	return 0, 0, false
}

func (e *Editor) moveCursor(r rune) {
	c := &e.buf.Cursor
	switch r {
	case 'h':
		if c.Col > 0 {
			c.Col--
		}
	case 'l':
		if c.Col < len(e.buf.Lines[c.Line]) {
			c.Col++
		}
	case 'j':
		if c.Line < e.buf.LineCount()-1 {
			c.Line++
			e.clampCol()
		}
	case 'k':
		if c.Line > 0 {
			c.Line--
			e.clampCol()
		}
	case '0':
		c.Col = 0
	case '$':
		c.Col = len(e.buf.Lines[c.Line])
	case 'w':
		e.buf.Cursor = e.buf.Pos(e.wordForward(e.buf.Offset(*c), 1))
	case 'b':
		e.buf.Cursor = e.buf.Pos(e.wordBackward(e.buf.Offset(*c), 1))
	case 'G':
		c.Line = e.buf.LineCount() - 1
		e.clampCol()
	}
}

func (e *Editor) clampCol() {
	if l := len(e.buf.Lines[e.buf.Cursor.Line]); e.buf.Cursor.Col > l {
		e.buf.Cursor.Col = l
	}
}

func charClass(b byte) int {
	switch {
	case b == ' ' || b == '\t' || b == '\n':
		return 0
	case b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9':
		return 1
	default:
		return 2
	}
}

func (e *Editor) wordForward(off, n int) int {
	for ; n > 0; n-- {
		if off >= e.buf.Len() {
			break
		}
		cls := charClass(e.buf.ByteAt(off))
		for off < e.buf.Len() && charClass(e.buf.ByteAt(off)) == cls && cls != 0 {
			off++
		}
		for off < e.buf.Len() && charClass(e.buf.ByteAt(off)) == 0 {
			off++
		}
	}
	return off
}

func (e *Editor) wordBackward(off, n int) int {
	for ; n > 0; n-- {
		for off > 0 && charClass(e.buf.ByteAt(off-1)) == 0 {
			off--
		}
		cls := charClass(e.buf.ByteAt(off - 1))
		for off > 0 && charClass(e.buf.ByteAt(off-1)) == cls {
			off--
		}
	}
	return off
}

// linewiseOp handles dd / yy / cc with a count.
func (e *Editor) linewiseOp(op rune) {
	n := e.takeCount()
	line := e.buf.Cursor.Line
	begin := e.buf.LineStartOffset(line)
	var end int
	if line+n >= e.buf.LineCount() {
		end = e.buf.Len() + 1 // past-the-end stands in for the trailing newline
	} else {
		end = e.buf.LineStartOffset(line + n)
	}
	e.runOp(op, operate.Request{Begin: begin, End: end, Kind: operate.Line, Register: e.takeRegister()})
}

func (e *Editor) visualOp(op rune) {
	start, end := e.visualAnchor, e.buf.Cursor
	if end.Before(start) {
		start, end = end, start
	}

	var req operate.Request
	switch e.mode {
	case ModeVisualLine:
		req.Kind = operate.Line
		req.Begin = e.buf.LineStartOffset(start.Line)
		if end.Line+1 >= e.buf.LineCount() {
			req.End = e.buf.Len() + 1
		} else {
			req.End = e.buf.LineStartOffset(end.Line + 1)
		}
	case ModeVisualBlock:
		req.Kind = operate.Block
		req.Begin = e.buf.Offset(start)
		req.End = e.buf.Offset(end) + 1
	default:
		req.Kind = operate.Character
		req.Begin = e.buf.Offset(start)
		req.End = e.buf.Offset(end) + 1
	}
	req.Register = e.takeRegister()

	e.mode = ModeNormal
	e.runOp(op, req)
	e.resetPending()
}

func (e *Editor) runOp(op rune, req operate.Request) {
	en := e.engine()
	switch op {
	case 'd':
		en.Delete(req)
	case 'y':
		en.Yank(req)
		e.setStatus("yanked")
	case 'c':
		en.Change(req)
	}
}

func (e *Editor) deleteCharAtCursor() {
	n := e.takeCount()
	reg := e.takeRegister()
	for i := 0; i < n; i++ {
		off := e.buf.Offset(e.buf.Cursor)
		if off >= e.buf.LineEnd(off) {
			break
		}
		e.engine().DeleteCharOrSplice(operate.Request{
			Begin: off, End: off + 1, Kind: operate.Character, Register: reg,
		})
	}
}

func (e *Editor) paste(after bool) {
	text, h, ok := e.regs.Get(e.takeRegister())
	if !ok || text == "" {
		return
	}

	e.buf.BeginGroup()
	defer e.buf.EndGroup()

	switch h {
	case register.Line:
		line := e.buf.Cursor.Line
		if after {
			if line+1 >= e.buf.LineCount() {
				e.buf.InsertAt(e.buf.Len(), "\n"+text)
			} else {
				e.buf.InsertAt(e.buf.LineStartOffset(line+1), text+"\n")
			}
		} else {
			e.buf.InsertAt(e.buf.LineStartOffset(line), text+"\n")
		}
	case register.Block:
		rows := strings.Split(text, "\n")
		_, col := e.buf.OffsetToColumn(e.buf.Offset(e.buf.Cursor))
		if after {
			col++
		}
		for i, row := range rows {
			line := e.buf.Cursor.Line + i
			if line >= e.buf.LineCount() {
				e.buf.InsertAt(e.buf.Len(), "\n"+row)
				continue
			}
			e.buf.InsertAt(e.buf.ColumnToOffset(line, col), row)
		}
	default:
		off := e.buf.Offset(e.buf.Cursor)
		if after && off < e.buf.LineEnd(off) {
			off++
		}
		e.buf.InsertAt(off, text)
	}
}
