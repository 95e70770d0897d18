package game

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/internal/board"
	"github.com/robalobadob/goosegame/internal/players"
)

// Layout of the 20-square board used below:
//
//	1 bridge->3, 5 inn, 8 goose, 9 well, 12 labyrinth->11,
//	15 prison, 17 goose, 18 skeleton->0, 19 win.
func newBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New(20)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func newRegistry(t *testing.T, states ...players.State) *players.Registry {
	t.Helper()
	reg, err := players.Restore(states)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestParseOvershoot(t *testing.T) {
	tests := []struct {
		in      string
		want    Overshoot
		wantErr bool
	}{
		{"", OvershootClamp, false},
		{"clamp", OvershootClamp, false},
		{" Forfeit ", OvershootForfeit, false},
		{"bounce", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOvershoot(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOvershoot(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestCheckPlayerPos(t *testing.T) {
	b := newBoard(t)
	tests := []struct {
		name      string
		policy    Overshoot
		from      int
		roll      int
		want      int
		skip      int
		forfeit   bool
		wantSteps []Effect
	}{
		{"plain", OvershootClamp, 0, 4, 4, 0, false, nil},
		{"bridge", OvershootClamp, 0, 1, 3, 0, false, []Effect{EffectBridge}},
		{"inn", OvershootClamp, 2, 3, 5, 0, false, []Effect{EffectInn}},
		{"goose into well", OvershootClamp, 6, 2, 9, WellTurns, false, []Effect{EffectGoose, EffectWell}},
		{"labyrinth", OvershootClamp, 10, 2, 11, 0, false, []Effect{EffectLabyrinth}},
		{"prison", OvershootClamp, 11, 4, 15, PrisonTurns, false, []Effect{EffectPrison}},
		{"skeleton", OvershootClamp, 14, 4, 0, 0, false, []Effect{EffectSkeleton}},
		{"goose into skeleton", OvershootClamp, 13, 4, 0, 0, false, []Effect{EffectGoose, EffectSkeleton}},
		{"exact win", OvershootClamp, 16, 3, 19, 0, false, []Effect{EffectWin}},
		{"clamp", OvershootClamp, 16, 6, 19, 0, false, []Effect{EffectClamp, EffectWin}},
		{"forfeit", OvershootForfeit, 16, 6, 16, 0, true, []Effect{EffectForfeit}},
		{"forfeit policy exact", OvershootForfeit, 13, 6, 19, 0, false, []Effect{EffectWin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.policy, zerolog.Nop())
			p := &players.Player{Username: "ANNA    ", Position: tt.from}
			res := e.CheckPlayerPos(p, b, tt.roll)
			if res.Target != tt.want {
				t.Errorf("Target = %d, want %d (steps %+v)", res.Target, tt.want, res.Steps)
			}
			if res.SkipTurns != tt.skip {
				t.Errorf("SkipTurns = %d, want %d", res.SkipTurns, tt.skip)
			}
			if res.Forfeit != tt.forfeit {
				t.Errorf("Forfeit = %v, want %v", res.Forfeit, tt.forfeit)
			}
			var got []Effect
			for _, s := range res.Steps {
				got = append(got, s.Effect)
			}
			if !reflect.DeepEqual(got, tt.wantSteps) {
				t.Errorf("steps = %v, want %v", got, tt.wantSteps)
			}
			if p.Position != tt.from {
				t.Errorf("CheckPlayerPos mutated position to %d", p.Position)
			}
		})
	}
}

func TestMovePlayer_TwoRounds(t *testing.T) {
	b := newBoard(t)
	e := New(OvershootClamp, zerolog.Nop())
	reg := newRegistry(t,
		players.State{ID: 0, Username: "ANNA"},
		players.State{ID: 1, Username: "BOB"},
	)
	anna, bob := reg.At(0), reg.At(1)

	rounds := [][2]int{{6, 3}, {2, 4}}
	wantScores := [][2]int{{60, 30}, {80, 70}}
	for r, rolls := range rounds {
		wantA := e.CheckPlayerPos(anna, b, rolls[0]).Target
		e.MovePlayer(reg, anna, rolls[0], b)
		wantB := e.CheckPlayerPos(bob, b, rolls[1]).Target
		e.MovePlayer(reg, bob, rolls[1], b)

		if anna.Position != wantA || bob.Position != wantB {
			t.Errorf("round %d: positions %d,%d want %d,%d", r+1, anna.Position, bob.Position, wantA, wantB)
		}
		if anna.Score != wantScores[r][0] || bob.Score != wantScores[r][1] {
			t.Errorf("round %d: scores %d,%d want %v", r+1, anna.Score, bob.Score, wantScores[r])
		}
	}
	// ANNA: 6, then 8 (goose) -> 9 (well). BOB: 3, then 7.
	if anna.Position != 9 || anna.SkipTurns != WellTurns {
		t.Errorf("anna = %+v, want well at 9", anna)
	}
	if bob.Position != 7 {
		t.Errorf("bob position = %d, want 7", bob.Position)
	}
	if w := FindWinner(reg, b); w != NotFound {
		t.Errorf("FindWinner = %d, want NotFound", w)
	}
}

func TestMovePlayer_Capture(t *testing.T) {
	b := newBoard(t)
	e := New(OvershootClamp, zerolog.Nop())
	reg := newRegistry(t,
		players.State{ID: 0, Username: "ANNA", Position: 4},
		players.State{ID: 1, Username: "BOB", Position: 2},
	)
	anna, bob := reg.At(0), reg.At(1)

	mv := e.MovePlayer(reg, bob, 2, b)
	if bob.Position != 4 {
		t.Errorf("mover position = %d, want 4", bob.Position)
	}
	if anna.Position != 2 {
		t.Errorf("occupant position = %d, want mover's previous square 2", anna.Position)
	}
	if !mv.Captures() || mv.Captured != 0 || mv.CapturedTo != 2 {
		t.Errorf("move = %+v", mv)
	}
	if anna.Score != 0 || bob.Score != 20 {
		t.Errorf("scores anna=%d bob=%d", anna.Score, bob.Score)
	}
}

func TestMovePlayer_CaptureAfterBridge(t *testing.T) {
	b := newBoard(t)
	e := New(OvershootClamp, zerolog.Nop())
	reg := newRegistry(t,
		players.State{ID: 0, Username: "ANNA", Position: 3},
		players.State{ID: 1, Username: "BOB", Position: 0},
	)
	mv := e.MovePlayer(reg, reg.At(1), 1, b)
	if reg.At(1).Position != 3 || reg.At(0).Position != 0 {
		t.Fatalf("positions anna=%d bob=%d", reg.At(0).Position, reg.At(1).Position)
	}
	if mv.Captured != 0 {
		t.Fatalf("captured = %d, want 0", mv.Captured)
	}
}

func TestMovePlayer_NoCaptureOnStart(t *testing.T) {
	b := newBoard(t)
	e := New(OvershootClamp, zerolog.Nop())
	reg := newRegistry(t,
		players.State{ID: 0, Username: "ANNA", Position: 0},
		players.State{ID: 1, Username: "BOB", Position: 14},
	)
	mv := e.MovePlayer(reg, reg.At(1), 4, b)
	if mv.Captures() {
		t.Fatalf("capture on start square: %+v", mv)
	}
	if reg.At(0).Position != 0 || reg.At(1).Position != 0 {
		t.Fatalf("positions %d,%d", reg.At(0).Position, reg.At(1).Position)
	}
}

func TestMovePlayer_Forfeit(t *testing.T) {
	b := newBoard(t)
	e := New(OvershootForfeit, zerolog.Nop())
	reg := newRegistry(t,
		players.State{ID: 0, Username: "ANNA", Position: 16, Score: 100},
		players.State{ID: 1, Username: "BOB"},
	)
	mv := e.MovePlayer(reg, reg.At(0), 5, b)
	if !mv.Resolution.Forfeit {
		t.Fatalf("expected forfeit: %+v", mv)
	}
	if p := reg.At(0); p.Position != 16 || p.Score != 100 {
		t.Fatalf("forfeit changed player: %+v", p)
	}
}

func TestMovePlayer_ClampWins(t *testing.T) {
	b := newBoard(t)
	e := New(OvershootClamp, zerolog.Nop())
	reg := newRegistry(t,
		players.State{ID: 0, Username: "ANNA", Position: 3},
		players.State{ID: 1, Username: "BOB", Position: 16},
	)
	if w := FindWinner(reg, b); w != NotFound {
		t.Fatalf("winner before move: %d", w)
	}
	e.MovePlayer(reg, reg.At(1), 6, b)
	if reg.At(1).Position != b.Last() {
		t.Fatalf("position = %d, want %d", reg.At(1).Position, b.Last())
	}
	if w := FindWinner(reg, b); w != 1 {
		t.Fatalf("FindWinner = %d, want 1", w)
	}
}

func TestBeginTurn(t *testing.T) {
	e := New(OvershootClamp, zerolog.Nop())
	p := &players.Player{Username: "ANNA    ", SkipTurns: 2}
	if e.BeginTurn(p) || e.BeginTurn(p) {
		t.Fatal("player with pending skips should sit out")
	}
	if !e.BeginTurn(p) {
		t.Fatal("player should play once skips are used")
	}
}

func TestFindOtherPlayerInSquare(t *testing.T) {
	reg := newRegistry(t,
		players.State{ID: 0, Username: "ANNA", Position: 5},
		players.State{ID: 1, Username: "BOB", Position: 5},
		players.State{ID: 2, Username: "CARLA", Position: 7},
	)
	if got := FindOtherPlayerInSquare(reg, reg.At(0), 5); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := FindOtherPlayerInSquare(reg, reg.At(2), 7); got != NotFound {
		t.Errorf("self matched: %d", got)
	}
	if got := FindOtherPlayerInSquare(reg, reg.At(2), 11); got != NotFound {
		t.Errorf("empty square matched: %d", got)
	}
}
