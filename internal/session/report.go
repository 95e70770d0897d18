package session

import (
	"fmt"

	"github.com/robalobadob/goosegame/internal/game"
	"github.com/robalobadob/goosegame/internal/players"
)

// describe turns a committed move into the lines shown to the players.
func describe(mv game.Move, reg *players.Registry) []string {
	name := reg.At(mv.Player).Name()
	res := mv.Resolution
	lines := []string{fmt.Sprintf("%s rolled %d.", name, mv.Roll)}

	for _, st := range res.Steps {
		var line string
		switch st.Effect {
		case game.EffectClamp:
			line = fmt.Sprintf("%s overshoots and stops on square %d.", name, st.To)
		case game.EffectForfeit:
			line = fmt.Sprintf("%s overshoots the last square: the move is cancelled.", name)
		case game.EffectGoose:
			line = fmt.Sprintf("Goose on square %d! %s flies to square %d.", st.From, name, st.To)
		case game.EffectBridge:
			line = fmt.Sprintf("%s crosses the bridge from square %d to square %d.", name, st.From, st.To)
		case game.EffectLabyrinth:
			line = fmt.Sprintf("%s is lost in the labyrinth on square %d and walks back to square %d.", name, st.From, st.To)
		case game.EffectSkeleton:
			line = fmt.Sprintf("%s meets the skeleton on square %d and goes back to the start.", name, st.From)
		case game.EffectInn:
			line = fmt.Sprintf("%s rests at the inn on square %d.", name, st.From)
		case game.EffectWell:
			line = fmt.Sprintf("%s falls into the well on square %d and skips %d turns.", name, st.From, game.WellTurns)
		case game.EffectPrison:
			line = fmt.Sprintf("%s is thrown in prison on square %d and skips %d turns.", name, st.From, game.PrisonTurns)
		case game.EffectWin:
			line = fmt.Sprintf("%s reaches the last square!", name)
		default:
			continue
		}
		lines = append(lines, line)
	}

	if mv.Captures() {
		lines = append(lines, fmt.Sprintf("%s was on square %d and is sent back to square %d.",
			reg.At(mv.Captured).Name(), res.Target, mv.CapturedTo))
	}
	if !res.Forfeit {
		lines = append(lines, fmt.Sprintf("%s is now on square %d with %d points.", name, res.Target, mv.Score))
	}
	return lines
}
