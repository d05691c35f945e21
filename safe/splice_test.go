package safe

import (
	"testing"

	"sexpedit/syntax"
)

// stubSyntax hands out a fixed classification, letting quote scenarios be
// pinned down without depending on a lexer.
type stubSyntax struct {
	class map[int]syntax.Class
	match map[int]int
	ctx   map[int]syntax.Context
}

func (s stubSyntax) ClassAt(pos int) (syntax.Class, bool) {
	cl, ok := s.class[pos]
	return cl, ok
}

func (s stubSyntax) MatchOf(pos int) (int, bool) {
	m, ok := s.match[pos]
	return m, ok
}

func (s stubSyntax) ContextOf(pos int) syntax.Context {
	return s.ctx[pos]
}

func TestRepairBalancedRangeIsNoop(t *testing.T) {
	content := "(bar)"
	sx := syntax.New(content, "")
	b := bufFrom(content)

	newEnd, removed := Repair(b, sx, 0, 5)
	if newEnd != 5 || removed != 0 {
		t.Fatalf("expected (5, 0), got (%d, %d)", newEnd, removed)
	}
	if got := b.Text(); got != content {
		t.Fatalf("expected buffer unchanged, got %q", got)
	}
}

func TestRepairRemovesUnmatchedOpen(t *testing.T) {
	content := "ab(cd"
	sx := syntax.New(content, "")
	b := bufFrom(content)

	newEnd, removed := Repair(b, sx, 0, 5)
	if newEnd != 4 || removed != 1 {
		t.Fatalf("expected (4, 1), got (%d, %d)", newEnd, removed)
	}
	if got := b.Text(); got != "abcd" {
		t.Fatalf("expected abcd, got %q", got)
	}
}

func TestRepairOpenQuoteTakesPartner(t *testing.T) {
	// The opening quote at 2 is matched in the buffer but not in [0,4);
	// repairing removes both boundary quotes, only one inside the range.
	content := `a "bc" d`
	sx := stubSyntax{
		class: map[int]syntax.Class{2: syntax.Quote, 5: syntax.Quote},
		match: map[int]int{2: 5, 5: 2},
	}
	b := bufFrom(content)

	newEnd, removed := Repair(b, sx, 0, 4)
	if newEnd != 3 || removed != 1 {
		t.Fatalf("expected (3, 1), got (%d, %d)", newEnd, removed)
	}
	if got := b.Text(); got != "a bc d" {
		t.Fatalf("expected \"a bc d\", got %q", got)
	}
}

func TestRepairClosingQuoteAlone(t *testing.T) {
	content := `a "bc" d`
	sx := stubSyntax{
		class: map[int]syntax.Class{2: syntax.Quote, 5: syntax.Quote},
		match: map[int]int{2: 5, 5: 2},
	}
	b := bufFrom(content)

	newEnd, removed := Repair(b, sx, 4, 8)
	if newEnd != 7 || removed != 1 {
		t.Fatalf("expected (7, 1), got (%d, %d)", newEnd, removed)
	}
	if got := b.Text(); got != `a "bc d` {
		t.Fatalf("expected opening quote kept, got %q", got)
	}
}

func TestRepairUnterminatedQuoteScansForward(t *testing.T) {
	// No partner anywhere in the classification; the repairer pairs the
	// removal with the next unescaped quote, skipping the escaped one.
	content := "\"a\\\"b\" x"
	sx := stubSyntax{
		class: map[int]syntax.Class{0: syntax.Quote},
	}
	b := bufFrom(content)

	newEnd, removed := Repair(b, sx, 0, 1)
	if newEnd != 0 || removed != 1 {
		t.Fatalf("expected (0, 1), got (%d, %d)", newEnd, removed)
	}
	if got := b.Text(); got != "a\\\"b x" {
		t.Fatalf("expected both quotes gone, got %q", got)
	}
}

func TestRepairUnterminatedQuoteWithoutCloser(t *testing.T) {
	content := `x "abc`
	sx := stubSyntax{
		class: map[int]syntax.Class{2: syntax.Quote},
	}
	b := bufFrom(content)

	newEnd, removed := Repair(b, sx, 0, 6)
	if newEnd != 5 || removed != 1 {
		t.Fatalf("expected (5, 1), got (%d, %d)", newEnd, removed)
	}
	if got := b.Text(); got != "x abc" {
		t.Fatalf("expected x abc, got %q", got)
	}
}
