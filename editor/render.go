package editor

import (
	"fmt"

	"sexpedit/config"
	"sexpedit/syntax"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

func (e *Editor) theme() *config.ColorScheme {
	if t, ok := config.Themes[e.cfg.Theme]; ok {
		return t
	}
	return config.Themes["dark"]
}

func (e *Editor) render() {
	theme := e.theme()
	defaultStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Foreground)
	e.screen.SetStyle(defaultStyle)
	e.screen.Clear()

	w, h := e.screen.Size()
	textH := h - 1
	if textH < 1 {
		textH = 1
	}

	e.ensureVisible(textH)
	syn := e.cache.Get(e.buf.Text(), e.buf.Language)
	gutter := len(fmt.Sprintf("%d", e.buf.LineCount())) + 1

	for row := 0; row < textH; row++ {
		line := e.scrollY + row
		if line >= e.buf.LineCount() {
			break
		}

		numStyle := defaultStyle.Foreground(theme.LineNumber)
		if line == e.buf.Cursor.Line {
			numStyle = defaultStyle.Foreground(theme.LineNumberActive)
		}
		num := fmt.Sprintf("%*d ", gutter-1, line+1)
		for i, r := range num {
			e.screen.SetContent(i, row, r, nil, numStyle)
		}

		e.renderLine(syn, line, gutter, row, w, defaultStyle, theme)
	}

	e.renderStatus(h-1, w, theme)
	e.placeCursor(gutter, textH)
	e.screen.Show()
}

// renderLine draws one buffer line, coloring delimiters by whether the
// classifier found them a partner.
func (e *Editor) renderLine(syn *syntax.Classifier, line, x0, row, w int, base tcell.Style, theme *config.ColorScheme) {
	lineStart := e.buf.LineStartOffset(line)
	text := e.buf.Lines[line]
	inSelection := e.selectionContains(line)

	x := x0
	for i, r := range text {
		if x >= w {
			break
		}
		style := base
		if cl, ok := syn.ClassAt(lineStart + i); ok && cl != syntax.Quote {
			if _, matched := syn.MatchOf(lineStart + i); matched {
				style = style.Foreground(theme.MatchedParen)
			} else {
				style = style.Foreground(theme.UnmatchedParen)
			}
		}
		if inSelection(i) {
			style = style.Background(theme.Selection)
		}
		if r == '\t' {
			x += e.buf.TabSize - (x-x0)%e.buf.TabSize
			continue
		}
		e.screen.SetContent(x, row, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// selectionContains returns a per-column predicate for the visual
// selection on the given line.
func (e *Editor) selectionContains(line int) func(col int) bool {
	none := func(int) bool { return false }
	if e.mode != ModeVisual && e.mode != ModeVisualLine && e.mode != ModeVisualBlock {
		return none
	}
	start, end := e.visualAnchor, e.buf.Cursor
	if end.Before(start) {
		start, end = end, start
	}
	if line < start.Line || line > end.Line {
		return none
	}
	switch e.mode {
	case ModeVisualLine:
		return func(int) bool { return true }
	case ModeVisualBlock:
		lo, hi := start.Col, end.Col
		if lo > hi {
			lo, hi = hi, lo
		}
		return func(col int) bool { return col >= lo && col <= hi }
	default:
		return func(col int) bool {
			if line == start.Line && col < start.Col {
				return false
			}
			if line == end.Line && col > end.Col {
				return false
			}
			return true
		}
	}
}

func (e *Editor) renderStatus(y, w int, theme *config.ColorScheme) {
	style := tcell.StyleDefault.Background(theme.StatusBarBg).Foreground(theme.StatusBarFg)

	name := e.buf.Path
	if name == "" {
		name = "[No Name]"
	}
	dirty := ""
	if e.buf.Dirty {
		dirty = " [+]"
	}
	left := fmt.Sprintf(" %s  %s%s  %s", e.mode, name, dirty, e.status)
	right := fmt.Sprintf("%d:%d ", e.buf.Cursor.Line+1, e.buf.Cursor.Col+1)

	x := 0
	for _, r := range left {
		if x >= w {
			break
		}
		e.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < w-len(right); x++ {
		e.screen.SetContent(x, y, ' ', nil, style)
	}
	for _, r := range right {
		if x >= w {
			break
		}
		e.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (e *Editor) ensureVisible(textH int) {
	if e.buf.Cursor.Line < e.scrollY {
		e.scrollY = e.buf.Cursor.Line
	}
	if e.buf.Cursor.Line >= e.scrollY+textH {
		e.scrollY = e.buf.Cursor.Line - textH + 1
	}
	if e.scrollY < 0 {
		e.scrollY = 0
	}
}

func (e *Editor) placeCursor(x0, textH int) {
	row := e.buf.Cursor.Line - e.scrollY
	if row < 0 || row >= textH {
		e.screen.HideCursor()
		return
	}
	_, col := e.buf.OffsetToColumn(e.buf.Offset(e.buf.Cursor))
	e.screen.ShowCursor(x0+col, row)
}
