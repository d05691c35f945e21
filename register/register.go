// Package register implements the named-slot text store that yank and
// delete operations deposit into and paste reads from.
package register

import (
	"strings"
	"unicode"
)

// Handler tells paste how to re-insert register content.
type Handler int

const (
	// Char content is inserted at the cursor as-is.
	Char Handler = iota

	// Line content goes on its own line with a trailing newline restored.
	Line

	// Block content is split on newlines and inserted one row per line.
	Block
)

// Reserved register names.
const (
	Unnamed     = '"'
	BlackHole   = '_'
	SmallDelete = '-'
	LastYank    = '0'
	Clipboard   = '+'
	Selection   = '*'
)

type entry struct {
	text    string
	handler Handler
}

// Store holds all registers. Name 0 passed to Yank/Delete means "no
// explicit register": content lands in the unnamed register and the
// default numbered slots. The black hole register discards content and
// suppresses the default writes too.
type Store struct {
	regs     map[rune]*entry
	numbered [9]entry // 1-9, rotating delete history
	clip     ClipboardProvider
}

// ClipboardProvider abstracts the system clipboard.
type ClipboardProvider interface {
	Read() (string, error)
	Write(text string) error
}

func NewStore() *Store {
	s := &Store{regs: map[rune]*entry{}}
	s.regs[Unnamed] = &entry{}
	s.regs[LastYank] = &entry{}
	s.regs[SmallDelete] = &entry{}
	for r := 'a'; r <= 'z'; r++ {
		s.regs[r] = &entry{}
	}
	return s
}

// SetClipboard wires a system clipboard behind the + and * registers.
func (s *Store) SetClipboard(clip ClipboardProvider) {
	s.clip = clip
}

// Get returns the content and paste handler of a register. Name 0 reads
// the unnamed register.
func (s *Store) Get(name rune) (string, Handler, bool) {
	if name == 0 {
		name = Unnamed
	}
	if name == Clipboard || name == Selection {
		if s.clip == nil {
			return "", Char, false
		}
		text, err := s.clip.Read()
		if err != nil {
			return "", Char, false
		}
		return text, Char, true
	}
	if name >= '1' && name <= '9' {
		e := s.numbered[name-'1']
		return e.text, e.handler, e.text != ""
	}
	if unicode.IsUpper(name) {
		name = unicode.ToLower(name)
	}
	e, ok := s.regs[name]
	if !ok {
		return "", Char, false
	}
	return e.text, e.handler, true
}

// Yank deposits yanked text: the named register if one was given, register
// 0 and the unnamed register otherwise. The black hole register swallows
// everything including the default writes.
func (s *Store) Yank(name rune, text string, h Handler) {
	if name == BlackHole {
		return
	}
	if name != 0 {
		s.set(name, text, h)
		s.regs[Unnamed].text = text
		s.regs[Unnamed].handler = h
		return
	}
	s.regs[LastYank].text = text
	s.regs[LastYank].handler = h
	s.regs[Unnamed].text = text
	s.regs[Unnamed].handler = h
}

// Delete deposits deleted text. Small deletes (no newline, no explicit
// register) go to the - register; otherwise the numbered registers rotate
// 9 <- 8 <- ... <- 1 and the new text lands in 1.
func (s *Store) Delete(name rune, text string, h Handler) {
	if name == BlackHole {
		return
	}
	if name != 0 {
		s.set(name, text, h)
		s.regs[Unnamed].text = text
		s.regs[Unnamed].handler = h
		return
	}
	if !strings.Contains(text, "\n") {
		s.regs[SmallDelete].text = text
		s.regs[SmallDelete].handler = h
	} else {
		for i := 8; i > 0; i-- {
			s.numbered[i] = s.numbered[i-1]
		}
		s.numbered[0] = entry{text: text, handler: h}
	}
	s.regs[Unnamed].text = text
	s.regs[Unnamed].handler = h
}

func (s *Store) set(name rune, text string, h Handler) {
	if name == Clipboard || name == Selection {
		if s.clip != nil {
			_ = s.clip.Write(text)
		}
		return
	}
	// Uppercase named registers append.
	if unicode.IsUpper(name) {
		lower := unicode.ToLower(name)
		e, ok := s.regs[lower]
		if !ok {
			return
		}
		if e.handler == Line && e.text != "" {
			e.text += "\n" + text
		} else {
			e.text += text
		}
		return
	}
	e, ok := s.regs[name]
	if !ok {
		return
	}
	e.text = text
	e.handler = h
}
