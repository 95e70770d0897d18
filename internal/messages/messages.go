// internal/messages/messages.go
//
// Line-indexed message catalog.
//
// Responsibilities:
//   - Load a line-oriented message file, one message per line.
//   - Look messages up by their 1-based line index.
//
// Initialization behavior (Open):
//  1. If a path is given (MESSAGES_FILE), read that file from disk.
//  2. Otherwise read the named file from the supplied fs.FS (embedded
//     assets by default).
//
// An unreadable source is a fatal FILE_NOT_READABLE error.

package messages

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/robalobadob/goosegame/internal/errs"
)

// Catalog holds messages indexed from 1.
type Catalog struct {
	lines []string
}

// Open loads the catalog from path when set, otherwise from name in fsys.
func Open(path string, fsys fs.FS, name string) (*Catalog, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errs.ErrFileNotReadable.WithData("file", path).WithCause(err)
		}
		defer f.Close()
		return Parse(f)
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errs.ErrFileNotReadable.WithData("file", name).WithCause(err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads one message per line. Blank lines are kept so indices stay
// aligned with line numbers.
func Parse(r io.Reader) (*Catalog, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, errs.ErrFileNotReadable.WithCause(err)
	}
	return &Catalog{lines: lines}, nil
}

// Len is the number of lines.
func (c *Catalog) Len() int { return len(c.lines) }

// Message returns line index (1-based).
func (c *Catalog) Message(index int) (string, bool) {
	if c == nil || index < 1 || index > len(c.lines) {
		return "", false
	}
	return c.lines[index-1], true
}

// For returns the message matching err's catalog index, falling back to the
// generic line and finally to err's own text.
func (c *Catalog) For(err error) string {
	if msg, ok := c.Message(errs.IndexOf(err)); ok && msg != "" {
		return msg
	}
	if msg, ok := c.Message(errs.IndexGeneric); ok && msg != "" {
		return msg
	}
	return fmt.Sprint(err)
}
