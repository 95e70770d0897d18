// internal/term/term.go
//
// Terminal capability layer.
// Defines:
//   - Terminal: the surface the console service draws on and reads from.
//   - Key constants and the back/quit/pause key predicates.
//   - Open: backend selection by name (ansi, termbox).

package term

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const (
	KeyInterrupt rune = 3
	KeyBackspace rune = 8
	KeyEnter     rune = 13
	KeyEsc       rune = 27
	KeySpace     rune = 32
	KeyDelete    rune = 127
)

const (
	BackendANSI    = "ansi"
	BackendTermbox = "termbox"
)

// ErrInterrupted is returned by reads when the user presses Ctrl-C.
var ErrInterrupted = errors.New("term: interrupted")

// Terminal is a character terminal. Writes may contain ANSI SGR sequences;
// backends that cannot render them strip them.
type Terminal interface {
	io.Writer

	// Size reports the visible columns and rows.
	Size() (cols, rows int)

	// Clear wipes the screen and homes the cursor.
	Clear() error

	// ClearLine wipes the current line and returns the cursor to column 0.
	ClearLine() error

	// ReadKey blocks for a single key press. Enter is reported as KeyEnter.
	ReadKey() (rune, error)

	// ReadLine reads one line of input without its terminator.
	ReadLine() (string, error)

	// LineMode reports whether ReadKey is backed by whole-line reads.
	LineMode() bool

	Close() error
}

// Open returns the backend named kind. An empty kind selects ANSI.
func Open(kind string) (Terminal, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendANSI:
		return NewStdANSI(), nil
	case BackendTermbox:
		t, err := NewTermbox()
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown terminal backend %q", kind)
}

// IsBackKey reports whether r leaves a screen: ESC, Enter, Space or b.
func IsBackKey(r rune) bool {
	switch unicode.ToLower(r) {
	case KeyEsc, KeyEnter, '\n', KeySpace, 'b':
		return true
	}
	return false
}

// IsQuitKey reports whether r is ESC or q.
func IsQuitKey(r rune) bool {
	return r == KeyEsc || unicode.ToLower(r) == 'q'
}

// IsPauseKey reports whether r is ESC or p.
func IsPauseKey(r rune) bool {
	return r == KeyEsc || unicode.ToLower(r) == 'p'
}
