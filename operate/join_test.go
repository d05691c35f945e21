package operate

import (
	"strings"
	"testing"

	"sexpedit/buffer"
	"sexpedit/register"
	"sexpedit/syntax"
)

func TestLinewiseDeleteBalancedLine(t *testing.T) {
	en, b, regs, _ := newTestEngine("aa\n(bb)\ncc", "")

	en.Delete(Request{Begin: 3, End: 8, Kind: Line})
	if b.Text() != "aa\ncc" {
		t.Fatalf("expected aa\\ncc, got %q", b.Text())
	}
	if regs.dels[0].text != "(bb)" || regs.dels[0].h != register.Line {
		t.Fatalf("expected linewise delete of (bb), got %+v", regs.dels[0])
	}
}

func TestLinewiseDeleteLastLine(t *testing.T) {
	en, b, _, _ := newTestEngine("aa\nbb", "")

	// Past-the-end stands in for the trailing newline on the last line.
	en.Delete(Request{Begin: 3, End: b.Len() + 1, Kind: Line})
	if b.Text() != "aa\n" {
		t.Fatalf("expected aa\\n, got %q", b.Text())
	}
}

func TestLinewiseDeleteJoinsWithNext(t *testing.T) {
	en, b, regs, _ := newTestEngine("(aa\nbb)", "")

	en.Delete(Request{Begin: 0, End: 4, Kind: Line})
	if b.Text() != "(bb)" {
		t.Fatalf("expected (bb), got %q", b.Text())
	}
	if regs.dels[0].text != "aa" {
		t.Fatalf("expected register text aa, got %q", regs.dels[0].text)
	}
}

func TestLinewiseDeleteJoinsCloserWithPrevious(t *testing.T) {
	en, b, regs, _ := newTestEngine("(aa\nbb)", "")

	en.Delete(Request{Begin: 4, End: b.Len() + 1, Kind: Line})
	if b.Text() != "(aa)" {
		t.Fatalf("expected (aa), got %q", b.Text())
	}
	if regs.dels[0].text != "bb" {
		t.Fatalf("expected register text bb, got %q", regs.dels[0].text)
	}
}

func TestLinewiseDeleteCloserNotPulledOntoComment(t *testing.T) {
	en, b, _, _ := newTestEngine("; note\nx)", "scheme")

	en.Delete(Request{Begin: 7, End: b.Len() + 1, Kind: Line})
	if b.Text() != "; note\n)" {
		t.Fatalf("expected closer kept off the comment line, got %q", b.Text())
	}
}

func TestLinewiseDeleteBackwardJoinDisabled(t *testing.T) {
	content := "(aa\nbb)"
	b := buffer.NewBuffer(2)
	b.Lines = strings.Split(content, "\n")
	regs := &recordRegs{}
	en := New(b, syntax.New(content, ""), regs, nil, Options{})

	en.Delete(Request{Begin: 4, End: b.Len() + 1, Kind: Line})
	if b.Text() != "(aa\n)" {
		t.Fatalf("expected forward join only, got %q", b.Text())
	}
}

func TestLinewiseDeleteStripsStrayQuote(t *testing.T) {
	content := "aa \"\n\"x\")"
	b := buffer.NewBuffer(2)
	b.Lines = strings.Split(content, "\n")
	regs := &recordRegs{}

	// Quote at 3 opens an unterminated string; the deleted line holds a
	// complete string plus an unmatched closer.
	sx := stubEngineSyntax{
		class: map[int]syntax.Class{3: syntax.Quote, 5: syntax.Quote, 7: syntax.Quote, 8: syntax.Closing},
		match: map[int]int{5: 7, 7: 5},
	}
	en := New(b, sx, regs, nil, Options{SkipUnmatchedOnDelete: true})

	en.Delete(Request{Begin: 5, End: b.Len() + 1, Kind: Line})
	if b.Text() != "aa )" {
		t.Fatalf("expected the dangling quote stripped before the join, got %q", b.Text())
	}
	if regs.dels[0].text != "\"x\"" {
		t.Fatalf("expected register text \"x\", got %q", regs.dels[0].text)
	}
}

func TestLinewiseDeleteReindentsJoinedCloser(t *testing.T) {
	en, b, _, _ := newTestEngine("(aa\n  (bb\n  cc))", "")

	// Deleting the middle line leaves its unmatched opener behind, pulls the
	// next line up and reindents to match the line above.
	en.Delete(Request{Begin: 4, End: 10, Kind: Line})
	if b.Text() != "(aa\n(cc))" {
		t.Fatalf("expected (aa\\n(cc)), got %q", b.Text())
	}
}

type stubEngineSyntax struct {
	class map[int]syntax.Class
	match map[int]int
	ctx   map[int]syntax.Context
}

func (s stubEngineSyntax) ClassAt(pos int) (syntax.Class, bool) {
	cl, ok := s.class[pos]
	return cl, ok
}

func (s stubEngineSyntax) MatchOf(pos int) (int, bool) {
	m, ok := s.match[pos]
	return m, ok
}

func (s stubEngineSyntax) ContextOf(pos int) syntax.Context {
	return s.ctx[pos]
}
