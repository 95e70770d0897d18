package tui

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/robalobadob/goosegame/assets"
	"github.com/robalobadob/goosegame/internal/errs"
	"github.com/robalobadob/goosegame/internal/term"
)

const maxScreenWidth = 80

// PauseChoice is the option picked in the pause menu.
type PauseChoice uint8

const (
	PauseResume PauseChoice = iota
	PauseSave
	PauseLeave
)

func (c PauseChoice) String() string {
	switch c {
	case PauseSave:
		return "save"
	case PauseLeave:
		return "leave"
	}
	return "resume"
}

func (u *UI) width() int {
	cols, _ := u.term.Size()
	if cols <= 0 || cols > maxScreenWidth {
		return maxScreenWidth
	}
	return cols
}

// NewScreen clears the terminal and draws a centered title bar and a rule.
func (u *UI) NewScreen(title string) error {
	if err := u.term.Clear(); err != nil {
		return err
	}
	w := u.width()
	u.Printf("%s%s%s\n", sgrBold, center(" "+strings.ToUpper(title)+" ", w, '='), sgrReset)
	u.Printf("%s\n\n", strings.Repeat("-", w))
	return nil
}

// PrintMenu prints the named asset file.
func (u *UI) PrintMenu(name string) error {
	b, err := fs.ReadFile(u.files, name)
	if err != nil {
		return errs.ErrFileNotReadable.WithData("file", name).WithCause(err)
	}
	u.Printf("%s", b)
	if len(b) > 0 && b[len(b)-1] != '\n' {
		u.Printf("\n")
	}
	return nil
}

// DisplayFile shows the named asset on a fresh screen and waits for a back
// key.
func (u *UI) DisplayFile(ctx context.Context, title, name string) error {
	if err := u.NewScreen(title); err != nil {
		return err
	}
	if err := u.PrintMenu(name); err != nil {
		return err
	}
	return u.waitBack(ctx)
}

func (u *UI) waitBack(ctx context.Context) error {
	u.Printf("\n")
	for {
		r, err := u.WaitKeypress(ctx, "Press ESC, ENTER, SPACE, b or q to go back")
		if err != nil {
			return err
		}
		if term.IsBackKey(r) || term.IsQuitKey(r) {
			return nil
		}
	}
}

// PauseMenu prints the pause options and reads keys until one matches.
func (u *UI) PauseMenu(ctx context.Context) (PauseChoice, error) {
	u.Printf("\n")
	if err := u.PrintMenu(assets.PauseFile); err != nil {
		return PauseResume, err
	}
	for {
		r, err := u.WaitKeypress(ctx, "Your choice")
		if err != nil {
			return PauseResume, err
		}
		switch unicode.ToLower(r) {
		case 's':
			return PauseSave, nil
		case 'l':
			return PauseLeave, nil
		}
		if term.IsBackKey(r) {
			return PauseResume, nil
		}
		u.PrintErr(errs.ErrInvalidOption.WithData("key", fmt.Sprintf("%q", r)))
	}
}

// center pads s with fill on both sides to width w, measured in terminal
// columns. Text wider than w is truncated.
func center(s string, w int, fill rune) string {
	sw := runewidth.StringWidth(s)
	if sw >= w {
		return runewidth.Truncate(s, w, "")
	}
	left := (w - sw) / 2
	right := w - sw - left
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), right)
}
