// Package syntax classifies buffer positions for structure-aware editing:
// which characters are opening/closing delimiters or string quotes, where
// their partners are, and whether a position sits in code, a string, or a
// comment. Lexical context comes from chroma; this package only layers
// delimiter pairing on top of it.
package syntax

import (
	"crypto/sha256"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

type Context int

const (
	InCode Context = iota
	InString
	InComment
)

type Class int

const (
	Opening Class = iota + 1
	Closing
	Quote
)

type Classifier struct {
	content string
	ctx     []Context
	class   []Class
	match   []int // partner offset, -1 = unmatched
}

// New lexes content and builds the position classification. When the lexer
// cannot tokenise the input the classifier fails open: every position is
// treated as code and every delimiter as unmatched rather than returning
// an error.
func New(content, lang string) *Classifier {
	c := &Classifier{
		content: content,
		ctx:     make([]Context, len(content)),
		class:   make([]Class, len(content)),
		match:   make([]int, len(content)),
	}
	for i := range c.match {
		c.match[i] = -1
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	if iter, err := lexer.Tokenise(nil, content); err == nil {
		offset := 0
		for _, tok := range iter.Tokens() {
			ctx := InCode
			switch {
			case tok.Type.InCategory(chroma.Comment):
				ctx = InComment
			case tok.Type.InSubCategory(chroma.LiteralString):
				ctx = InString
			}
			for i := 0; i < len(tok.Value) && offset+i < len(content); i++ {
				c.ctx[offset+i] = ctx
			}
			offset += len(tok.Value)
		}
	}

	c.matchDelimiters()
	c.matchStringBoundaries()
	return c
}

// Len returns the length of the classified content.
func (c *Classifier) Len() int { return len(c.content) }

// ContextOf reports the lexical context at pos. Out-of-range positions read
// as code.
func (c *Classifier) ContextOf(pos int) Context {
	if pos < 0 || pos >= len(c.ctx) {
		return InCode
	}
	return c.ctx[pos]
}

// ClassAt reports whether pos holds a delimiter or string boundary quote.
func (c *Classifier) ClassAt(pos int) (Class, bool) {
	if pos < 0 || pos >= len(c.class) || c.class[pos] == 0 {
		return 0, false
	}
	return c.class[pos], true
}

// MatchOf returns the partner position of the delimiter or quote at pos.
// ok is false when pos is not a delimiter or has no partner anywhere.
func (c *Classifier) MatchOf(pos int) (int, bool) {
	if pos < 0 || pos >= len(c.match) || c.match[pos] < 0 {
		return 0, false
	}
	return c.match[pos], true
}

func closerFor(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}

// matchDelimiters stack-matches ()[]{}. Delimiters inside strings and
// comments are content, not structure. A closer whose stack top doesn't
// pair with it stays unmatched and leaves the stack alone.
func (c *Classifier) matchDelimiters() {
	type frame struct {
		pos int
		ch  byte
	}
	var stack []frame
	for i := 0; i < len(c.content); i++ {
		if c.ctx[i] != InCode {
			continue
		}
		switch ch := c.content[i]; ch {
		case '(', '[', '{':
			c.class[i] = Opening
			stack = append(stack, frame{pos: i, ch: ch})
		case ')', ']', '}':
			c.class[i] = Closing
			if n := len(stack); n > 0 && closerFor(stack[n-1].ch) == ch {
				c.match[i] = stack[n-1].pos
				c.match[stack[n-1].pos] = i
				stack = stack[:n-1]
			}
		}
	}
}

// matchStringBoundaries pairs the quote characters delimiting each string
// token run. An unterminated string leaves its opening quote unmatched.
// Escaped quotes are never boundaries; chroma keeps them inside the run.
func (c *Classifier) matchStringBoundaries() {
	i := 0
	for i < len(c.content) {
		if c.ctx[i] != InString {
			i++
			continue
		}
		start := i
		for i < len(c.content) && c.ctx[i] == InString {
			i++
		}
		end := i // run is [start, end)

		qc := c.content[start]
		if qc != '"' && qc != '\'' && qc != '`' {
			continue
		}
		c.class[start] = Quote
		if end-1 > start && c.content[end-1] == qc && !c.escaped(end-1) {
			c.class[end-1] = Quote
			c.match[start] = end - 1
			c.match[end-1] = start
		}
	}
}

// escaped reports whether the character at pos is preceded by an odd run of
// backslashes.
func (c *Classifier) escaped(pos int) bool {
	n := 0
	for j := pos - 1; j >= 0 && c.content[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// Cache memoizes the classifier for the last seen buffer content so that a
// burst of operations on an unchanged buffer lexes once.
type Cache struct {
	key string
	c   *Classifier
}

func (h *Cache) Get(content, lang string) *Classifier {
	key := fmt.Sprintf("%s:%x", lang, sha256.Sum256([]byte(content)))
	if h.c != nil && h.key == key {
		return h.c
	}
	h.c = New(content, lang)
	h.key = key
	return h.c
}

// DetectLanguage maps a filename to a chroma lexer name.
func DetectLanguage(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}
