package buffer

import "time"

type OpType int

const (
	OpInsert OpType = iota
	OpDelete
)

// Operation is one reversible edit. Operations sharing a non-zero Group
// undo and redo as a unit.
type Operation struct {
	Type   OpType
	Pos    Cursor
	Text   string
	Before Cursor // cursor position when the edit was made
	Time   time.Time
	Group  int
}

// Single-character inserts typed within this window coalesce into one
// group, so undoing after typing a word removes the whole word.
const burstWindow = 300 * time.Millisecond

type UndoStack struct {
	undos     []Operation
	redos     []Operation
	nextGroup int
}

func NewUndoStack() *UndoStack {
	return &UndoStack{}
}

// NewGroup reserves a group ID. Structural operations record all of their
// edits under one reserved group.
func (u *UndoStack) NewGroup() int {
	u.nextGroup++
	return u.nextGroup
}

// PushGrouped records an edit under the given group.
func (u *UndoStack) PushGrouped(op Operation, group int) {
	op.Time = time.Now()
	op.Group = group
	u.undos = append(u.undos, op)
	u.redos = u.redos[:0]
}

// Push records an edit, coalescing it with the previous one when it
// continues a typing burst.
func (u *UndoStack) Push(op Operation) {
	op.Time = time.Now()
	if n := len(u.undos); n > 0 && continuesBurst(&u.undos[n-1], &op) {
		if u.undos[n-1].Group == 0 {
			u.undos[n-1].Group = u.NewGroup()
		}
		op.Group = u.undos[n-1].Group
	}
	u.undos = append(u.undos, op)
	u.redos = u.redos[:0]
}

// continuesBurst reports whether op extends a run of adjacent
// single-character inserts. Whitespace ends the run.
func continuesBurst(prev, op *Operation) bool {
	if prev.Type != OpInsert || op.Type != OpInsert {
		return false
	}
	if len(prev.Text) != 1 || len(op.Text) != 1 {
		return false
	}
	if isWordBreak(prev.Text[0]) || isWordBreak(op.Text[0]) {
		return false
	}
	if op.Time.Sub(prev.Time) > burstWindow {
		return false
	}
	return op.Pos == (Cursor{Line: prev.Pos.Line, Col: prev.Pos.Col + 1})
}

func isWordBreak(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

// PopUndoGroup moves the newest operation, and everything grouped with it,
// onto the redo stack. Returned newest first, the order inversions apply in.
func (u *UndoStack) PopUndoGroup() []Operation {
	n := len(u.undos)
	if n == 0 {
		return nil
	}
	i := n - 1
	if g := u.undos[i].Group; g != 0 {
		for i > 0 && u.undos[i-1].Group == g {
			i--
		}
	}
	ops := make([]Operation, n-i)
	for j := range ops {
		ops[j] = u.undos[n-1-j]
	}
	u.redos = append(u.redos, u.undos[i:]...)
	u.undos = u.undos[:i]
	return ops
}

// PopRedoGroup moves the most recently undone group back onto the undo
// stack. Returned oldest first, the order the edits originally applied in.
func (u *UndoStack) PopRedoGroup() []Operation {
	n := len(u.redos)
	if n == 0 {
		return nil
	}
	i := n - 1
	if g := u.redos[i].Group; g != 0 {
		for i > 0 && u.redos[i-1].Group == g {
			i--
		}
	}
	ops := make([]Operation, n-i)
	copy(ops, u.redos[i:])
	u.undos = append(u.undos, u.redos[i:]...)
	u.redos = u.redos[:i]
	return ops
}
