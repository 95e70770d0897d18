// internal/game/types.go
//
// Core type definitions for the turn engine.
// Defines:
//   - Overshoot: what happens when a roll passes the final square.
//   - Effect / Step: the individual square effects applied during a move.
//   - Resolution: where a roll takes a player once all effects settle.
//   - Move: a committed move, including any capture it caused.

package game

import (
	"fmt"
	"strings"
)

// Overshoot is the policy applied when position+roll passes the last square.
type Overshoot string

const (
	// OvershootClamp stops the player on the last square (a win).
	OvershootClamp Overshoot = "clamp"
	// OvershootForfeit cancels the move: the player stays and scores nothing.
	OvershootForfeit Overshoot = "forfeit"
)

// ParseOvershoot validates a policy name.
func ParseOvershoot(s string) (Overshoot, error) {
	switch o := Overshoot(strings.ToLower(strings.TrimSpace(s))); o {
	case OvershootClamp, OvershootForfeit:
		return o, nil
	case "":
		return OvershootClamp, nil
	}
	return "", fmt.Errorf("unknown overshoot policy %q", s)
}

// Effect names a single thing that happened to the moving player.
type Effect string

const (
	EffectClamp     Effect = "clamp"
	EffectForfeit   Effect = "forfeit"
	EffectGoose     Effect = "goose"
	EffectBridge    Effect = "bridge"
	EffectLabyrinth Effect = "labyrinth"
	EffectSkeleton  Effect = "skeleton"
	EffectInn       Effect = "inn"
	EffectWell      Effect = "well"
	EffectPrison    Effect = "prison"
	EffectWin       Effect = "win"
)

// Step is one effect with the squares it moved the player between.
// From == To for effects that do not move (inn, well, prison, win).
type Step struct {
	Effect Effect
	From   int
	To     int
}

// Resolution is the outcome of a roll before it is committed.
type Resolution struct {
	Start     int  // position before the roll
	Landed    int  // position+roll after the overshoot policy
	Target    int  // final position after every effect
	SkipTurns int  // turns to sit out after this move
	Forfeit   bool // the roll was cancelled by the overshoot policy
	Steps     []Step
}

// Move is a committed turn.
type Move struct {
	Player     int // registry slot of the mover
	Roll       int
	Resolution Resolution
	Captured   int // registry slot of the displaced player, or NotFound
	CapturedTo int // where the displaced player was sent
	Score      int // mover's score after the move
}

// Captures reports whether the move displaced another player.
func (m Move) Captures() bool { return m.Captured != NotFound }
