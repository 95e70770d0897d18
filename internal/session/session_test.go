package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/internal/board"
	"github.com/robalobadob/goosegame/internal/errs"
	"github.com/robalobadob/goosegame/internal/game"
	"github.com/robalobadob/goosegame/internal/players"
	"github.com/robalobadob/goosegame/internal/store"
	"github.com/robalobadob/goosegame/internal/tui"
)

type scriptedDice struct {
	t     *testing.T
	rolls []int
}

func (d *scriptedDice) Roll() int {
	d.t.Helper()
	if len(d.rolls) == 0 {
		d.t.Fatal("dice script exhausted")
	}
	r := d.rolls[0]
	d.rolls = d.rolls[1:]
	return r
}

type fakeUI struct {
	keys    []rune
	choices []tui.PauseChoice
	out     strings.Builder
	errs    []error
	screens []string
}

func (f *fakeUI) WaitKeypress(ctx context.Context, format string, args ...any) (rune, error) {
	fmt.Fprintf(&f.out, format+"\n", args...)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(f.keys) == 0 {
		return 0, io.EOF
	}
	r := f.keys[0]
	f.keys = f.keys[1:]
	return r, nil
}

func (f *fakeUI) Printf(format string, args ...any) { fmt.Fprintf(&f.out, format, args...) }

func (f *fakeUI) PrintErr(err error) { f.errs = append(f.errs, err) }

func (f *fakeUI) NewScreen(title string) error {
	f.screens = append(f.screens, title)
	return nil
}

func (f *fakeUI) RenderBoard(*board.Board, *players.Registry) {}

func (f *fakeUI) RenderPositions(*players.Registry) {}

func (f *fakeUI) PauseMenu(ctx context.Context) (tui.PauseChoice, error) {
	if err := ctx.Err(); err != nil {
		return tui.PauseResume, err
	}
	if len(f.choices) == 0 {
		return tui.PauseResume, io.EOF
	}
	c := f.choices[0]
	f.choices = f.choices[1:]
	return c, nil
}

type failingStore struct {
	store.Store
}

func (failingStore) Save(context.Context, *store.Snapshot) error { return errors.New("disk full") }

func keys(s string) []rune { return []rune(s) }

func newDeps(t *testing.T, ui *fakeUI, st store.Store, rolls ...int) Deps {
	t.Helper()
	return Deps{
		Engine: game.New(game.OvershootClamp, zerolog.Nop()),
		Dice:   &scriptedDice{t: t, rolls: rolls},
		UI:     ui,
		Store:  st,
		Log:    zerolog.Nop(),
	}
}

func newGame(t *testing.T, deps Deps) (*Session, *players.Registry) {
	t.Helper()
	b, err := board.New(20)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := players.Restore([]players.State{
		{ID: 0, Username: "ANNA"},
		{ID: 1, Username: "BOB"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return New(b, reg, deps), reg
}

func TestRun_NewGameToWin(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{keys: keys("rrrrrrrrrrr")}
	st := store.NewMemoryStore()
	// Ordering: ANNA 6, BOB 3. Then ANNA 6,4,3,6 -> 19; BOB 2,2,3 -> 7.
	s, reg := newGame(t, newDeps(t, ui, st, 6, 3, 6, 2, 4, 2, 3, 3, 6))

	out, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != OutcomeWon {
		t.Fatalf("outcome = %v", out)
	}
	res, ok := s.Result()
	if !ok {
		t.Fatal("no result")
	}
	if res.Winner != "ANNA" || res.Score != 190 || res.Rounds != 4 || res.BoardDim != 20 {
		t.Fatalf("result = %+v", res)
	}
	if reg.Len() != 0 {
		t.Fatal("registry not torn down")
	}
	if len(ui.keys) != 0 {
		t.Fatalf("unused keys: %q", ui.keys)
	}

	lb, err := st.Leaderboard(ctx, 0)
	if err != nil || len(lb) != 1 || lb[0].Winner != "ANNA" {
		t.Fatalf("leaderboard = %+v, %v", lb, err)
	}
	text := ui.out.String()
	for _, want := range []string{
		"Turn order: ANNA (6), BOB (3)",
		"ANNA rolled 6.",
		"ANNA reaches the last square!",
		"ANNA wins with 190 points after 4 rounds!",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if ui.screens[0] != "Who starts?" || ui.screens[1] != "Round 1" {
		t.Errorf("screens = %q", ui.screens)
	}
}

func TestRun_SaveAndLeave(t *testing.T) {
	ctx := context.Background()
	ui := &fakeUI{
		keys:    keys("rrrp"),
		choices: []tui.PauseChoice{tui.PauseSave, tui.PauseSave, tui.PauseLeave},
	}
	st := store.NewMemoryStore()
	s, reg := newGame(t, newDeps(t, ui, st, 3, 6))

	out, err := s.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if out != OutcomeLeft {
		t.Fatalf("outcome = %v", out)
	}
	if reg.Len() != 0 {
		t.Fatal("registry not torn down")
	}

	snap, err := st.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if snap.Turn != 0 || snap.Round != 1 || snap.BoardDim != 20 {
		t.Fatalf("snapshot = %+v", snap)
	}
	// BOB rolled higher and plays first.
	if strings.TrimSpace(snap.Players[0].Username) != "BOB" {
		t.Fatalf("players = %+v", snap.Players)
	}
	if strings.Count(ui.out.String(), "Game saved.") != 2 {
		t.Fatalf("expected two saves in %q", ui.out.String())
	}
	// Saving twice in one session reuses the slot.
	if _, err := st.Get(ctx, snap.ID); err != nil {
		t.Fatal(err)
	}
	lb, _ := st.Leaderboard(ctx, 0)
	if len(lb) != 0 {
		t.Fatalf("leaving must not record a result: %+v", lb)
	}
}

func TestRun_PauseResume(t *testing.T) {
	ui := &fakeUI{
		keys:    keys("rrrpxp"),
		choices: []tui.PauseChoice{tui.PauseResume, tui.PauseLeave},
	}
	s, _ := newGame(t, newDeps(t, ui, store.NewMemoryStore(), 6, 3, 6))

	out, err := s.Run(context.Background())
	if err != nil || out != OutcomeLeft {
		t.Fatalf("Run = %v, %v", out, err)
	}
	if !strings.Contains(ui.out.String(), "ANNA rolled 6.") {
		t.Fatalf("ANNA did not move after resuming: %q", ui.out.String())
	}
}

func TestRestore_ResumeAndWin(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	saved := &store.Snapshot{
		BoardDim: 20,
		Turn:     0,
		Round:    5,
		Players: []players.State{
			{ID: 1, Username: "ANNA", Position: 16, Score: 100},
			{ID: 0, Username: "BOB", Position: 7, Score: 70},
		},
	}
	if err := st.Save(ctx, saved); err != nil {
		t.Fatal(err)
	}
	snap, err := st.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}

	ui := &fakeUI{keys: keys("rr")}
	s, err := Restore(snap, newDeps(t, ui, st, 3))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	out, err := s.Run(ctx)
	if err != nil || out != OutcomeWon {
		t.Fatalf("Run = %v, %v", out, err)
	}
	res, _ := s.Result()
	if res.Winner != "ANNA" || res.Score != 130 || res.Rounds != 5 {
		t.Fatalf("result = %+v", res)
	}
	for _, title := range ui.screens {
		if title == "Who starts?" {
			t.Fatal("ordering ran for a restored game")
		}
	}
	if _, err := st.Latest(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("finished save still present: %v", err)
	}
}

func TestRestore_SkipTurnThenSave(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	ui := &fakeUI{
		keys:    keys("rrp"),
		choices: []tui.PauseChoice{tui.PauseSave, tui.PauseLeave},
	}
	s, err := Restore(&store.Snapshot{
		BoardDim: 20,
		Turn:     0,
		Round:    1,
		Players: []players.State{
			{ID: 0, Username: "ANNA", Position: 9, SkipTurns: 1},
			{ID: 1, Username: "BOB"},
		},
	}, newDeps(t, ui, st, 1))
	if err != nil {
		t.Fatal(err)
	}
	if out, err := s.Run(ctx); err != nil || out != OutcomeLeft {
		t.Fatalf("Run = %v, %v", out, err)
	}

	snap, err := st.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Turn != 0 || snap.Round != 2 {
		t.Fatalf("turn/round = %d/%d", snap.Turn, snap.Round)
	}
	anna, bob := snap.Players[0], snap.Players[1]
	if anna.Position != 9 || anna.SkipTurns != 0 || anna.Score != 0 {
		t.Fatalf("ANNA = %+v", anna)
	}
	// BOB rolls 1 onto the bridge and crosses to 3.
	if bob.Position != 3 || bob.Score != 10 {
		t.Fatalf("BOB = %+v", bob)
	}
	text := ui.out.String()
	if !strings.Contains(text, "ANNA must sit this turn out") || !strings.Contains(text, "ANNA sat out a turn.") {
		t.Fatalf("skip not reported: %q", text)
	}
	if !strings.Contains(text, "BOB crosses the bridge from square 1 to square 3.") {
		t.Fatalf("bridge not reported: %q", text)
	}
}

func TestRestore_Invalid(t *testing.T) {
	two := func(pos int) []players.State {
		return []players.State{{ID: 0, Username: "ANNA", Position: pos}, {ID: 1, Username: "BOB"}}
	}
	tests := []struct {
		name string
		snap store.Snapshot
	}{
		{"board too small", store.Snapshot{BoardDim: 5, Round: 1, Players: two(0)}},
		{"position past end", store.Snapshot{BoardDim: 20, Round: 1, Players: two(20)}},
		{"turn out of range", store.Snapshot{BoardDim: 20, Turn: 2, Round: 1, Players: two(0)}},
		{"round zero", store.Snapshot{BoardDim: 20, Players: two(0)}},
		{"one player", store.Snapshot{BoardDim: 20, Round: 1, Players: two(0)[:1]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := tt.snap
			if _, err := Restore(&snap, newDeps(t, &fakeUI{}, store.NewMemoryStore())); !errors.Is(err, errs.ErrOutOfRange) {
				t.Fatalf("err = %v, want OUT_OF_RANGE", err)
			}
		})
	}
}

func TestRun_SaveFailureIsReported(t *testing.T) {
	ui := &fakeUI{
		keys:    keys("rrrp"),
		choices: []tui.PauseChoice{tui.PauseSave, tui.PauseLeave},
	}
	s, _ := newGame(t, newDeps(t, ui, failingStore{store.NewMemoryStore()}, 6, 3))
	if out, err := s.Run(context.Background()); err != nil || out != OutcomeLeft {
		t.Fatalf("Run = %v, %v", out, err)
	}
	if len(ui.errs) != 1 || !errors.Is(ui.errs[0], errs.ErrSaveFailed) {
		t.Fatalf("errors = %v", ui.errs)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ui := &fakeUI{keys: keys("r")}
	s, err := Restore(&store.Snapshot{
		BoardDim: 20,
		Round:    1,
		Players:  []players.State{{ID: 0, Username: "ANNA"}, {ID: 1, Username: "BOB"}},
	}, newDeps(t, ui, store.NewMemoryStore()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(ui.keys) != 1 {
		t.Fatal("a key was consumed after cancellation")
	}
}

func TestRun_CancelledDuringOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ui := &fakeUI{keys: keys("rr")}
	s, reg := newGame(t, newDeps(t, ui, store.NewMemoryStore()))
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(ui.keys) != 2 {
		t.Fatal("a key was consumed after cancellation")
	}
	if reg.Len() != 0 {
		t.Fatal("registry not torn down")
	}
}

func TestNew_LogsBoard(t *testing.T) {
	var buf bytes.Buffer
	deps := newDeps(t, &fakeUI{}, store.NewMemoryStore())
	deps.Log = zerolog.New(&buf).Level(zerolog.DebugLevel)
	newGame(t, deps)
	line := buf.String()
	if !strings.Contains(line, `"message":"board ready"`) || !strings.Contains(line, `"collisions":[]`) {
		t.Fatalf("board log = %q", line)
	}
}

func TestRun_KeypressErrorEndsSession(t *testing.T) {
	ui := &fakeUI{}
	s, reg := newGame(t, newDeps(t, ui, store.NewMemoryStore()))
	if _, err := s.Run(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
	if reg.Len() != 0 {
		t.Fatal("registry not torn down")
	}
}

func TestDescribe_Capture(t *testing.T) {
	b, err := board.New(20)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := players.Restore([]players.State{
		{ID: 0, Username: "ANNA", Position: 2},
		{ID: 1, Username: "BOB", Position: 6},
	})
	if err != nil {
		t.Fatal(err)
	}
	mv := game.New(game.OvershootClamp, zerolog.Nop()).MovePlayer(reg, reg.At(0), 4, b)
	lines := describe(mv, reg)
	want := []string{
		"ANNA rolled 4.",
		"BOB was on square 6 and is sent back to square 2.",
		"ANNA is now on square 6 with 40 points.",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("describe = %q", lines)
	}
}
