// internal/term/ansi.go
//
// ANSI backend: escape sequences on a plain stream.
//   - Output goes through go-colorable so SGR sequences render on Windows
//     consoles too.
//   - When stdin is a TTY, single keys are read in raw mode (x/term).
//   - When it is not (pipes, tests), every read consumes a whole line and
//     ReadKey reports its first rune.

package term

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	xterm "golang.org/x/term"
)

const (
	defaultCols = 80
	defaultRows = 24

	seqClear     = "\x1b[2J\x1b[H"
	seqClearLine = "\r\x1b[2K"
)

// ANSI is a Terminal on a byte stream.
type ANSI struct {
	out   io.Writer
	in    *bufio.Reader
	inFd  int
	outFd int
	tty   bool

	mu  sync.Mutex
	raw *xterm.State // saved cooked state while a raw read is pending
}

// NewStdANSI binds the process's stdin and stdout.
func NewStdANSI() *ANSI {
	inFd := os.Stdin.Fd()
	return &ANSI{
		out:   colorable.NewColorableStdout(),
		in:    bufio.NewReader(os.Stdin),
		inFd:  int(inFd),
		outFd: int(os.Stdout.Fd()),
		tty:   isatty.IsTerminal(inFd) || isatty.IsCygwinTerminal(inFd),
	}
}

// NewANSI binds arbitrary streams. Input is always read line by line.
func NewANSI(in io.Reader, out io.Writer) *ANSI {
	return &ANSI{
		out:   out,
		in:    bufio.NewReader(in),
		inFd:  -1,
		outFd: -1,
	}
}

// Write sends p to the output stream unchanged.
func (a *ANSI) Write(p []byte) (int, error) { return a.out.Write(p) }

// Size reports the output window size, or 80x24 when it is not a terminal.
func (a *ANSI) Size() (int, int) {
	if a.outFd >= 0 {
		if w, h, err := xterm.GetSize(a.outFd); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return defaultCols, defaultRows
}

// Clear erases the screen and homes the cursor.
func (a *ANSI) Clear() error {
	_, err := io.WriteString(a.out, seqClear)
	return err
}

// ClearLine erases the current line.
func (a *ANSI) ClearLine() error {
	_, err := io.WriteString(a.out, seqClearLine)
	return err
}

// LineMode reports whether input is read a line at a time.
func (a *ANSI) LineMode() bool { return !a.tty }

// ReadKey reads one key. In line mode the first rune of the next line is
// the key and an empty line is Enter.
func (a *ANSI) ReadKey() (rune, error) {
	if !a.tty {
		line, err := a.ReadLine()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return KeyEnter, nil
		}
		r := []rune(line)[0]
		if r == KeyInterrupt {
			return 0, ErrInterrupted
		}
		return r, nil
	}

	if err := a.makeRaw(); err == nil {
		defer a.restore()
	}
	r, _, err := a.in.ReadRune()
	if err != nil {
		return 0, err
	}
	switch r {
	case '\r', '\n':
		return KeyEnter, nil
	case KeyInterrupt:
		return 0, ErrInterrupted
	case KeyEsc:
		if a.skipEscapeSequence() {
			return 0, nil
		}
	}
	return r, nil
}

func (a *ANSI) makeRaw() error {
	state, err := xterm.MakeRaw(a.inFd)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.raw = state
	a.mu.Unlock()
	return nil
}

func (a *ANSI) restore() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.raw != nil {
		_ = xterm.Restore(a.inFd, a.raw)
		a.raw = nil
	}
}

// skipEscapeSequence consumes a CSI/SS3 sequence (arrow and function keys)
// already sitting in the buffer. It reports whether one was consumed; a lone
// ESC leaves the buffer untouched.
func (a *ANSI) skipEscapeSequence() bool {
	if a.in.Buffered() == 0 {
		return false
	}
	next, err := a.in.Peek(1)
	if err != nil || (next[0] != '[' && next[0] != 'O') {
		return false
	}
	_, _ = a.in.ReadByte()
	for a.in.Buffered() > 0 {
		b, err := a.in.ReadByte()
		if err != nil || (b >= 0x40 && b <= 0x7e) {
			break
		}
	}
	return true
}

// ReadLine reads up to the next newline. A final line without one is
// returned as is.
func (a *ANSI) ReadLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close puts the terminal back in cooked mode if a key read was abandoned
// while raw.
func (a *ANSI) Close() error {
	a.restore()
	return nil
}
