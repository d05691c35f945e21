package syntax

import "testing"

func TestDelimiterMatching(t *testing.T) {
	c := New("(a [b] {c})", "")

	pairs := map[int]int{0: 10, 3: 5, 7: 9}
	for open, closer := range pairs {
		if m, ok := c.MatchOf(open); !ok || m != closer {
			t.Fatalf("expected %d matched to %d, got %d %v", open, closer, m, ok)
		}
		if m, ok := c.MatchOf(closer); !ok || m != open {
			t.Fatalf("expected %d matched to %d, got %d %v", closer, open, m, ok)
		}
	}
	if cl, ok := c.ClassAt(0); !ok || cl != Opening {
		t.Fatalf("expected opening class at 0, got %v %v", cl, ok)
	}
	if cl, ok := c.ClassAt(5); !ok || cl != Closing {
		t.Fatalf("expected closing class at 5, got %v %v", cl, ok)
	}
	if _, ok := c.ClassAt(1); ok {
		t.Fatalf("expected no class on plain content")
	}
}

func TestUnmatchedDelimiters(t *testing.T) {
	c := New("a)b(", "")

	if _, ok := c.MatchOf(1); ok {
		t.Fatalf("expected closer at 1 unmatched")
	}
	if _, ok := c.MatchOf(3); ok {
		t.Fatalf("expected opener at 3 unmatched")
	}
	if cl, ok := c.ClassAt(1); !ok || cl != Closing {
		t.Fatalf("expected unmatched closer still classified, got %v %v", cl, ok)
	}
}

func TestMismatchedPairStaysUnmatched(t *testing.T) {
	c := New("(]", "")

	if _, ok := c.MatchOf(0); ok {
		t.Fatalf("expected ( unmatched against ]")
	}
	if _, ok := c.MatchOf(1); ok {
		t.Fatalf("expected ] unmatched")
	}
}

func TestSchemeContexts(t *testing.T) {
	c := New(`(define x "str") ; note`, "scheme")

	if got := c.ContextOf(1); got != InCode {
		t.Fatalf("expected code context at 1, got %v", got)
	}
	if got := c.ContextOf(12); got != InString {
		t.Fatalf("expected string context at 12, got %v", got)
	}
	if got := c.ContextOf(19); got != InComment {
		t.Fatalf("expected comment context at 19, got %v", got)
	}
	if m, ok := c.MatchOf(0); !ok || m != 15 {
		t.Fatalf("expected outer parens matched 0-15, got %d %v", m, ok)
	}
	if cl, ok := c.ClassAt(10); !ok || cl != Quote {
		t.Fatalf("expected quote class at 10, got %v %v", cl, ok)
	}
	if m, ok := c.MatchOf(10); !ok || m != 14 {
		t.Fatalf("expected quotes matched 10-14, got %d %v", m, ok)
	}
}

func TestDelimiterInsideStringIsContent(t *testing.T) {
	c := New(`(f ")")`, "scheme")

	if _, ok := c.ClassAt(4); ok {
		t.Fatalf("expected paren inside string unclassified")
	}
	if m, ok := c.MatchOf(0); !ok || m != 6 {
		t.Fatalf("expected parens matched 0-6 across the string, got %d %v", m, ok)
	}
}

func TestEscapedQuoteIsNotBoundary(t *testing.T) {
	c := New(`x = "a\"b"`, "python")

	if m, ok := c.MatchOf(4); !ok || m != 9 {
		t.Fatalf("expected quotes matched 4-9, got %d %v", m, ok)
	}
	if _, ok := c.ClassAt(7); ok {
		t.Fatalf("expected escaped quote unclassified")
	}
}

func TestUnterminatedStringLeavesQuoteUnmatched(t *testing.T) {
	c := New("(f \"abc", "scheme")

	if cl, ok := c.ClassAt(3); ok && cl == Quote {
		if _, matched := c.MatchOf(3); matched {
			t.Fatalf("expected unterminated quote unmatched")
		}
	}
}

func TestContextOutOfRange(t *testing.T) {
	c := New("ab", "")

	if got := c.ContextOf(-1); got != InCode {
		t.Fatalf("expected code context before start, got %v", got)
	}
	if got := c.ContextOf(99); got != InCode {
		t.Fatalf("expected code context past end, got %v", got)
	}
}

func TestUnknownLanguageFallsBack(t *testing.T) {
	c := New("(a)", "no-such-language")

	if m, ok := c.MatchOf(0); !ok || m != 2 {
		t.Fatalf("expected fallback lexer to still match parens, got %d %v", m, ok)
	}
}

func TestCacheReusesClassifier(t *testing.T) {
	var cache Cache

	c1 := cache.Get("(a)", "")
	c2 := cache.Get("(a)", "")
	if c1 != c2 {
		t.Fatalf("expected cached classifier reused for identical content")
	}

	c3 := cache.Get("(b)", "")
	if c3 == c1 {
		t.Fatalf("expected fresh classifier for changed content")
	}
}

func TestDetectLanguage(t *testing.T) {
	if got := DetectLanguage("init.scm"); got != "Scheme" {
		t.Fatalf("expected Scheme, got %q", got)
	}
	if got := DetectLanguage("noext"); got != "" {
		t.Fatalf("expected empty language for unknown file, got %q", got)
	}
}
