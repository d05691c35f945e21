// Package operate runs yank, delete and change requests against a buffer
// while keeping delimiter structure intact. Whole-range operations exclude
// unmatched delimiters from the edit (the buffer keeps them, the register
// never sees them); single-character deletes splice them out instead.
package operate

import (
	"strings"

	"sexpedit/register"
	"sexpedit/safe"
)

// Kind classifies how a range's boundaries are interpreted.
type Kind int

const (
	Character Kind = iota
	Line
	Block
)

// Buffer is the host text store contract the engine mutates.
type Buffer interface {
	Len() int
	Read(begin, end int) string
	DeleteRange(begin, end int)
	InsertAt(pos int, text string)
	ByteAt(pos int) byte
	LineOf(pos int) int
	LineCount() int
	LineStart(pos int) int
	LineEnd(pos int) int
	LineStartOffset(line int) int
	FirstNonBlank(line int) int
	ColumnToOffset(line, col int) int
	OffsetToColumn(pos int) (line, col int)
	BeginGroup()
	EndGroup()
}

// Registers receives operation payloads.
type Registers interface {
	Yank(name rune, text string, h register.Handler)
	Delete(name rune, text string, h register.Handler)
}

// InsertMode is the host collaborator that change operations hand off to.
// repeat > 1 asks for the insertion to be replayed on that many rows.
type InsertMode interface {
	EnterInsert(pos int, repeat int)
}

// Options gate engine steps; they never alter the resolve/repair algorithms.
type Options struct {
	// SkipUnmatchedOnDelete keeps the backward line-join heuristic for
	// linewise deletes that leave an unmatched closer at the point.
	SkipUnmatchedOnDelete bool
}

// Request is one operation over a half-open [Begin,End) range. Register 0
// means no explicit register was named.
type Request struct {
	Begin, End int
	Kind       Kind
	Register   rune
}

// Result is what an operation produced: the safe text, the paste handler it
// was tagged with, and whether the buffer changed.
type Result struct {
	Text    string
	Handler register.Handler
	Mutated bool
}

type Engine struct {
	buf  Buffer
	syn  safe.Syntax
	regs Registers
	ins  InsertMode
	opts Options
}

func New(buf Buffer, syn safe.Syntax, regs Registers, ins InsertMode, opts Options) *Engine {
	return &Engine{buf: buf, syn: syn, regs: regs, ins: ins, opts: opts}
}

// SetSyntax swaps in a classifier for the buffer's current content. Call
// after any mutation outside the engine.
func (en *Engine) SetSyntax(syn safe.Syntax) {
	en.syn = syn
}

func (en *Engine) normalize(req Request) (begin, end int, ok bool) {
	begin, end = req.Begin, req.End
	if begin > end {
		begin, end = end, begin
	}
	return begin, end, begin < end
}

// Yank copies the safe content of the range into the registers. The buffer
// is never mutated.
func (en *Engine) Yank(req Request) Result {
	begin, end, ok := en.normalize(req)
	if !ok {
		return Result{}
	}

	var text string
	var h register.Handler
	switch req.Kind {
	case Character:
		text = safe.Text(en.buf, safe.Resolve(en.syn, begin, end))
		h = register.Char
	case Line:
		// Linewise end includes the trailing newline; content doesn't.
		text = safe.Text(en.buf, safe.Resolve(en.syn, begin, contentEnd(begin, end)))
		h = register.Line
	case Block:
		rows := en.rowRanges(begin, end)
		parts := make([]string, 0, len(rows))
		for _, r := range rows {
			parts = append(parts, safe.Text(en.buf, safe.Resolve(en.syn, r.begin, r.end)))
		}
		text = strings.Join(parts, "\n")
		h = register.Block
	}

	en.regs.Yank(req.Register, text, h)
	return Result{Text: text, Handler: h}
}

// Delete removes the requested range except for unmatched delimiters, which
// stay in the buffer untouched; only the safe content reaches the registers.
// Linewise deletes additionally repair the line that is left behind.
func (en *Engine) Delete(req Request) Result {
	begin, end, ok := en.normalize(req)
	if !ok {
		return Result{}
	}

	en.buf.BeginGroup()
	defer en.buf.EndGroup()

	var text string
	var h register.Handler
	switch req.Kind {
	case Character:
		regions := safe.Resolve(en.syn, begin, end)
		text = safe.Text(en.buf, regions)
		en.deleteRegions(regions)
		h = register.Char
	case Line:
		text = en.deleteLinewise(begin, end)
		h = register.Line
	case Block:
		text = en.deleteBlock(begin, end)
		h = register.Block
	}

	en.regs.Delete(req.Register, text, h)
	return Result{Text: text, Handler: h, Mutated: true}
}

// Change deletes and hands off to the insert-mode collaborator. Linewise
// change deletes only up to the end of line and never merges lines;
// blockwise change requests one repeated-insert slot per spanned row.
func (en *Engine) Change(req Request) Result {
	begin, end, ok := en.normalize(req)
	if !ok {
		return Result{}
	}

	switch req.Kind {
	case Character:
		res := en.Delete(Request{Begin: begin, End: end, Kind: Character, Register: req.Register})
		if en.ins != nil {
			en.ins.EnterInsert(begin, 1)
		}
		return res
	case Line:
		en.buf.BeginGroup()
		regions := safe.Resolve(en.syn, begin, contentEnd(begin, end))
		text := safe.Text(en.buf, regions)
		en.deleteRegions(regions)
		en.buf.EndGroup()
		en.regs.Delete(req.Register, text, register.Line)
		point := en.buf.FirstNonBlank(en.buf.LineOf(begin))
		if en.ins != nil {
			en.ins.EnterInsert(point, 1)
		}
		return Result{Text: text, Handler: register.Line, Mutated: true}
	case Block:
		rowCount := len(en.rowRanges(begin, end))
		res := en.Delete(Request{Begin: begin, End: end, Kind: Block, Register: req.Register})
		if en.ins != nil {
			en.ins.EnterInsert(begin, rowCount)
		}
		return res
	}
	return Result{}
}

// DeleteCharOrSplice deletes a single-character range by repair rather than
// exclusion: an unmatched delimiter under the range is spliced out, taking
// its string-quote counterpart with it where one exists.
func (en *Engine) DeleteCharOrSplice(req Request) Result {
	begin, end, ok := en.normalize(req)
	if !ok {
		return Result{}
	}

	en.buf.BeginGroup()
	defer en.buf.EndGroup()

	newEnd, _ := safe.Repair(en.buf, en.syn, begin, end)
	text := en.buf.Read(begin, newEnd)
	if text != "" {
		en.regs.Delete(req.Register, text, register.Char)
	}
	en.buf.DeleteRange(begin, newEnd)
	return Result{Text: text, Handler: register.Char, Mutated: true}
}

// deleteRegions removes the regions right to left so earlier offsets stay
// stable.
func (en *Engine) deleteRegions(regions []safe.Region) {
	for i := len(regions) - 1; i >= 0; i-- {
		en.buf.DeleteRange(regions[i].Begin, regions[i].End)
	}
}

// contentEnd strips the trailing newline a linewise range carries.
func contentEnd(begin, end int) int {
	if end-1 < begin {
		return begin
	}
	return end - 1
}

func (en *Engine) deleteLinewise(begin, end int) string {
	ce := contentEnd(begin, end)
	regions := safe.Resolve(en.syn, begin, ce)
	text := safe.Text(en.buf, regions)

	if len(regions) == 1 && regions[0].Begin == begin && regions[0].End == ce {
		// Fully balanced: plain linewise delete, newline included.
		en.buf.DeleteRange(begin, end)
		return text
	}

	// Unmatched delimiters stay behind; delete the safe content around them
	// and repair the line that remains.
	en.deleteRegions(regions)
	en.repairAfterLinewise(begin)
	return text
}

func (en *Engine) deleteBlock(begin, end int) string {
	rows := en.rowRanges(begin, end)
	regionss := make([][]safe.Region, len(rows))
	parts := make([]string, len(rows))
	for i, r := range rows {
		regionss[i] = safe.Resolve(en.syn, r.begin, r.end)
		parts[i] = safe.Text(en.buf, regionss[i])
	}
	// Mutate bottom-up: rows live on distinct lines, so deleting a lower
	// row never shifts an upper one.
	for i := len(rows) - 1; i >= 0; i-- {
		en.deleteRegions(regionss[i])
	}
	return strings.Join(parts, "\n")
}
