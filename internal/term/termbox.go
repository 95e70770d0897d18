// internal/term/termbox.go
//
// Full-screen backend on termbox-go.
//
// termbox has no stream semantics, so writes land in a scrollback buffer
// (screen) that understands the small ANSI subset the console service emits:
// SGR colours, erase display (J) and erase line (K). The tail of the buffer
// that fits the window is redrawn after every write. Cell advance uses
// go-runewidth so wide runes take two columns.

package term

import (
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

const maxScrollback = 500

type cell struct {
	ch rune
	fg termbox.Attribute
}

type escState uint8

const (
	escNone escState = iota
	escStart
	escCSI
)

// screen is the terminal-independent text buffer behind Termbox.
type screen struct {
	lines  [][]cell
	x      int // cursor, as an index into the last line
	cols   int
	fg     termbox.Attribute
	esc    escState
	params strings.Builder
}

func newScreen(cols int) *screen {
	return &screen{lines: [][]cell{nil}, cols: cols}
}

func (s *screen) write(text string) {
	for _, r := range text {
		switch s.esc {
		case escStart:
			if r == '[' {
				s.esc = escCSI
				s.params.Reset()
			} else {
				s.esc = escNone
			}
			continue
		case escCSI:
			if r >= 0x40 && r <= 0x7e {
				s.control(r, s.params.String())
				s.esc = escNone
			} else {
				s.params.WriteRune(r)
			}
			continue
		}

		switch r {
		case KeyEsc:
			s.esc = escStart
		case '\n':
			s.newline()
		case '\r':
			s.x = 0
		case '\b':
			if s.x > 0 {
				s.x--
			}
		case '\t':
			for n := 4 - s.width()%4; n > 0; n-- {
				s.put(' ')
			}
		default:
			s.put(r)
		}
	}
}

func (s *screen) current() []cell { return s.lines[len(s.lines)-1] }

func (s *screen) width() int {
	w := 0
	for _, c := range s.current()[:s.x] {
		w += runewidth.RuneWidth(c.ch)
	}
	return w
}

func (s *screen) put(r rune) {
	if s.cols > 0 && s.width()+runewidth.RuneWidth(r) > s.cols {
		s.newline()
	}
	line := s.current()
	c := cell{ch: r, fg: s.fg}
	if s.x < len(line) {
		line[s.x] = c
	} else {
		line = append(line, c)
	}
	s.lines[len(s.lines)-1] = line
	s.x++
}

func (s *screen) newline() {
	s.lines = append(s.lines, nil)
	s.x = 0
	if len(s.lines) > maxScrollback {
		s.lines = s.lines[len(s.lines)-maxScrollback:]
	}
}

func (s *screen) clear() {
	s.lines = [][]cell{nil}
	s.x = 0
}

func (s *screen) clearLine() {
	s.lines[len(s.lines)-1] = nil
	s.x = 0
}

func (s *screen) control(final rune, params string) {
	switch final {
	case 'm':
		s.sgr(params)
	case 'J':
		s.clear()
	case 'K':
		if params == "2" {
			s.clearLine()
			return
		}
		s.lines[len(s.lines)-1] = s.current()[:s.x]
	}
}

func (s *screen) sgr(params string) {
	if params == "" {
		params = "0"
	}
	for _, p := range strings.Split(params, ";") {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		switch {
		case n == 0:
			s.fg = termbox.ColorDefault
		case n == 1:
			s.fg |= termbox.AttrBold
		case n == 39:
			s.fg &= termbox.AttrBold
		case n >= 30 && n <= 37:
			s.fg = s.fg&termbox.AttrBold | termbox.Attribute(n-29)
		case n >= 90 && n <= 97:
			s.fg = termbox.AttrBold | termbox.Attribute(n-89)
		}
	}
}

// visible returns the last rows lines and the cursor's row and column
// within them.
func (s *screen) visible(rows int) (lines [][]cell, cx, cy int) {
	start := 0
	if rows > 0 && len(s.lines) > rows {
		start = len(s.lines) - rows
	}
	lines = s.lines[start:]
	return lines, s.width(), len(lines) - 1
}

func (s *screen) String() string {
	var b strings.Builder
	for i, line := range s.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range line {
			b.WriteRune(c.ch)
		}
	}
	return b.String()
}

// Termbox is a Terminal drawn with termbox-go.
type Termbox struct {
	mu  sync.Mutex
	scr *screen
}

// NewTermbox takes over the terminal. Close must be called to restore it.
func NewTermbox() (*Termbox, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetInputMode(termbox.InputEsc)
	cols, _ := termbox.Size()
	return &Termbox{scr: newScreen(cols)}, nil
}

func (t *Termbox) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scr.write(string(p))
	return len(p), t.redraw()
}

// redraw must be called with mu held.
func (t *Termbox) redraw() error {
	cols, rows := termbox.Size()
	t.scr.cols = cols
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	lines, cx, cy := t.scr.visible(rows)
	for y, line := range lines {
		x := 0
		for _, c := range line {
			termbox.SetCell(x, y, c.ch, c.fg, termbox.ColorDefault)
			x += runewidth.RuneWidth(c.ch)
		}
	}
	termbox.SetCursor(cx, cy)
	return termbox.Flush()
}

func (t *Termbox) Size() (int, int) { return termbox.Size() }

// LineMode is always false: termbox delivers single key events.
func (t *Termbox) LineMode() bool { return false }

func (t *Termbox) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scr.clear()
	return t.redraw()
}

func (t *Termbox) ClearLine() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scr.clearLine()
	return t.redraw()
}

func (t *Termbox) ReadKey() (rune, error) {
	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			return keyOf(ev)
		case termbox.EventError:
			return 0, ev.Err
		case termbox.EventInterrupt:
			return 0, ErrInterrupted
		case termbox.EventResize:
			t.mu.Lock()
			err := t.redraw()
			t.mu.Unlock()
			if err != nil {
				return 0, err
			}
		}
	}
}

func keyOf(ev termbox.Event) (rune, error) {
	if ev.Ch != 0 {
		return ev.Ch, nil
	}
	switch ev.Key {
	case termbox.KeyCtrlC:
		return 0, ErrInterrupted
	case termbox.KeyEsc:
		return KeyEsc, nil
	case termbox.KeyEnter:
		return KeyEnter, nil
	case termbox.KeySpace:
		return KeySpace, nil
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return KeyBackspace, nil
	}
	return 0, nil
}

// ReadLine echoes typed runes until Enter. Backspace edits; ESC is ignored.
func (t *Termbox) ReadLine() (string, error) {
	var buf []rune
	for {
		r, err := t.ReadKey()
		if err != nil {
			return "", err
		}
		switch r {
		case 0, KeyEsc:
		case KeyEnter:
			_, err := t.Write([]byte("\n"))
			return string(buf), err
		case KeyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				_, _ = t.Write([]byte("\b \b"))
			}
		default:
			buf = append(buf, r)
			_, _ = t.Write([]byte(string(r)))
		}
	}
}

func (t *Termbox) Close() error {
	termbox.Close()
	return nil
}
