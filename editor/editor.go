package editor

import (
	"fmt"

	"sexpedit/buffer"
	"sexpedit/config"
	"sexpedit/operate"
	"sexpedit/register"
	"sexpedit/syntax"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeVisual
	ModeVisualLine
	ModeVisualBlock
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "INSERT"
	case ModeVisual:
		return "VISUAL"
	case ModeVisualLine:
		return "V-LINE"
	case ModeVisualBlock:
		return "V-BLOCK"
	default:
		return "NORMAL"
	}
}

type Editor struct {
	screen tcell.Screen
	buf    *buffer.Buffer
	cfg    *config.Config
	regs   *register.Store
	cache  syntax.Cache

	mode         Mode
	pendingOp    rune // 'd', 'y' or 'c' awaiting a motion
	pendingReg   rune
	awaitingReg  bool
	count        int
	visualAnchor buffer.Cursor

	// Block-change repeat: text typed after a blockwise change is replayed
	// on the remaining rows when insert mode ends.
	insertRepeat int
	insertTyped  string

	scrollY  int
	status   string
	quit     bool
	cfgWatch *fsnotify.Watcher
}

// ConfigEvent carries a reloaded config into the tcell event loop.
type ConfigEvent struct {
	tcell.EventTime
	Cfg *config.Config
}

func New(cfg *config.Config) *Editor {
	regs := register.NewStore()
	regs.SetClipboard(register.NewSystemClipboard())
	return &Editor{
		cfg:  cfg,
		regs: regs,
		buf:  buffer.NewBuffer(cfg.TabSize),
	}
}

func (e *Editor) Run(files []string) error {
	if len(files) > 0 {
		buf, err := buffer.NewBufferFromFile(files[0], e.cfg.TabSize)
		if err != nil {
			return err
		}
		buf.Language = syntax.DetectLanguage(files[0])
		e.buf = buf
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	e.screen = screen

	if w, err := config.Watch(func(cfg *config.Config) {
		ev := &ConfigEvent{Cfg: cfg}
		ev.SetEventNow()
		_ = screen.PostEvent(ev)
	}); err == nil {
		e.cfgWatch = w
	}

	defer func() {
		if e.cfgWatch != nil {
			e.cfgWatch.Close()
		}
		screen.Fini()
	}()

	for !e.quit {
		e.render()
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			e.handleKey(ev)
		case *tcell.EventResize:
			screen.Sync()
		case *ConfigEvent:
			e.cfg = ev.Cfg
		case nil:
			return nil
		}
	}
	return nil
}

// engine builds an operation engine over the buffer's current content. The
// classifier cache makes back-to-back operations on an unchanged buffer
// lex only once.
func (e *Editor) engine() *operate.Engine {
	syn := e.cache.Get(e.buf.Text(), e.buf.Language)
	return operate.New(e.buf, syn, e.regs, e, operate.Options{
		SkipUnmatchedOnDelete: e.cfg.SkipUnmatchedOnDelete,
	})
}

// EnterInsert implements the engine's insert-mode collaborator. "emacs"
// repositions the point but stays in the current mode.
func (e *Editor) EnterInsert(pos int, repeat int) {
	if e.cfg.AfterMotion == "off" {
		return
	}
	e.buf.Cursor = e.buf.Pos(pos)
	if e.cfg.AfterMotion == "emacs" {
		return
	}
	e.mode = ModeInsert
	e.insertRepeat = repeat
	e.insertTyped = ""
}

func (e *Editor) setStatus(format string, args ...any) {
	e.status = fmt.Sprintf(format, args...)
}
