// internal/tui/tui.go
//
// Console I/O service.
// Responsibilities:
//   - Prompts: bounded integers, free-form lines, single keys with a spinner.
//   - Error reporting through the message catalog.
//   - Screens, menus and board rendering (menu.go, render.go).
//
// Recoverable input errors (not a number, out of range) are reported and the
// prompt repeats; only terminal read failures are returned to the caller.
// Every read gives up with ctx.Err() once ctx is done.

package tui

import (
	"context"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/internal/errs"
	"github.com/robalobadob/goosegame/internal/messages"
	"github.com/robalobadob/goosegame/internal/term"
)

const (
	SpinInterval     = 100 * time.Millisecond
	DefaultBoardCols = 10

	sgrReset = "\x1b[0m"
	sgrBold  = "\x1b[1m"
	sgrRed   = "\x1b[31m"
	sgrGreen = "\x1b[32m"
	sgrCyan  = "\x1b[36m"
)

var spinFrames = []rune{'|', '/', '-', '\\'}

// UI is the console service bound to one terminal.
type UI struct {
	term      term.Terminal
	catalog   *messages.Catalog
	files     fs.FS
	boardCols int
	spin      time.Duration
	log       zerolog.Logger
}

// New builds a UI. files holds the menu and rules texts; boardCols is the
// number of squares per rendered board row.
func New(t term.Terminal, catalog *messages.Catalog, files fs.FS, boardCols int, log zerolog.Logger) *UI {
	if boardCols <= 0 {
		boardCols = DefaultBoardCols
	}
	return &UI{
		term:      t,
		catalog:   catalog,
		files:     files,
		boardCols: boardCols,
		spin:      SpinInterval,
		log:       log.With().Str("component", "tui").Logger(),
	}
}

// Printf writes formatted text to the terminal.
func (u *UI) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(u.term, format, args...)
}

// PrintErr prints the catalog message for err.
func (u *UI) PrintErr(err error) {
	if err == nil {
		return
	}
	u.log.Warn().Err(err).Int("index", errs.IndexOf(err)).Msg("reported to user")
	u.Printf("%s%s%s\n", sgrRed, u.catalog.For(err), sgrReset)
}

// AskString prompts with label and returns the trimmed reply.
func (u *UI) AskString(ctx context.Context, label string) (string, error) {
	u.Printf("%s: ", label)
	line, err := u.readLine(ctx)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}

// AskNumInRange prompts until the reply is an integer in [min, max].
func (u *UI) AskNumInRange(ctx context.Context, min, max int, label string) (int, error) {
	prompt := fmt.Sprintf("%s [%d-%d]", label, min, max)
	for {
		reply, err := u.AskString(ctx, prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(reply)
		if err != nil {
			u.PrintErr(errs.ErrNotANumber.WithData("input", reply).WithCause(err))
			continue
		}
		if n < min || n > max {
			u.PrintErr(errs.ErrOutOfRange.WithData("value", n))
			continue
		}
		return n, nil
	}
}

type lineResult struct {
	line string
	err  error
}

// readLine reads on its own goroutine so a cancelled ctx does not wait for
// Enter. After cancellation the pending read is abandoned.
func (u *UI) readLine(ctx context.Context) (string, error) {
	lines := make(chan lineResult, 1)
	go func() {
		line, err := u.term.ReadLine()
		lines <- lineResult{line: line, err: err}
	}()
	select {
	case l := <-lines:
		return l.line, l.err
	case <-ctx.Done():
		u.Printf("\n")
		return "", ctx.Err()
	}
}

type keyResult struct {
	key rune
	err error
}

// WaitKeypress prints the prompt and animates a spinner next to it until a
// key arrives. The key is read on its own goroutine, which exits after
// handing back exactly one result. Terminals in line mode get no spinner.
func (u *UI) WaitKeypress(ctx context.Context, format string, args ...any) (rune, error) {
	prompt := fmt.Sprintf(format, args...)
	u.Printf("%s ", prompt)

	keys := make(chan keyResult, 1)
	go func() {
		r, err := u.term.ReadKey()
		keys <- keyResult{key: r, err: err}
	}()

	var tick <-chan time.Time
	if !u.term.LineMode() {
		ticker := time.NewTicker(u.spin)
		defer ticker.Stop()
		tick = ticker.C
	}
	for frame := 0; ; frame++ {
		select {
		case k := <-keys:
			_ = u.term.ClearLine()
			u.Printf("%s\n", prompt)
			if k.err != nil {
				return 0, fmt.Errorf("wait keypress: %w", k.err)
			}
			return k.key, nil
		case <-ctx.Done():
			u.Printf("\n")
			return 0, fmt.Errorf("wait keypress: %w", ctx.Err())
		case <-tick:
			u.Printf("\r%s %c", prompt, spinFrames[frame%len(spinFrames)])
		}
	}
}
