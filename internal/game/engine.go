// internal/game/engine.go
//
// Turn engine for the goose game.
// Responsibilities:
//   - Resolve a roll into a final square (overshoot policy, goose nudges,
//     bridges, labyrinth, skeleton, inn, well, prison).
//   - Apply captures: landing on a square held by another player sends that
//     player back to the mover's previous square.
//   - Track scores (roll*10 per committed move) and turns to skip.
//   - Detect the winner.
//
// Notes:
//   - Effects chain: a bridge can land on a goose, which can land on a well.
//     The chain is bounded by maxChain so a cycle in the board cannot hang
//     a turn.
//   - Square 0 never triggers a capture; everyone starts there.

package game

import (
	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/internal/board"
	"github.com/robalobadob/goosegame/internal/players"
)

const (
	NotFound = players.NotFound

	ScorePerPip = 10
	WellTurns   = 2
	PrisonTurns = 3

	maxChain = 16
)

// Engine applies the movement rules. The zero value uses the clamp policy
// and a disabled logger.
type Engine struct {
	Overshoot Overshoot
	log       zerolog.Logger
}

// New constructs an engine with the given overshoot policy.
func New(overshoot Overshoot, log zerolog.Logger) *Engine {
	if overshoot == "" {
		overshoot = OvershootClamp
	}
	return &Engine{
		Overshoot: overshoot,
		log:       log.With().Str("component", "engine").Logger(),
	}
}

// CheckPlayerPos resolves where roll takes p on b. Nothing is mutated.
func (e *Engine) CheckPlayerPos(p *players.Player, b *board.Board, roll int) Resolution {
	res := Resolution{Start: p.Position}
	raw := p.Position + roll

	if raw > b.Last() {
		if e.Overshoot == OvershootForfeit {
			res.Landed, res.Target, res.Forfeit = p.Position, p.Position, true
			res.Steps = append(res.Steps, Step{Effect: EffectForfeit, From: p.Position, To: p.Position})
			return res
		}
		res.Steps = append(res.Steps, Step{Effect: EffectClamp, From: raw, To: b.Last()})
		raw = b.Last()
	}
	res.Landed = raw

	pos := raw
chain:
	for i := 0; i < maxChain; i++ {
		if next := b.CheckSquare(pos); next != pos {
			res.Steps = append(res.Steps, Step{Effect: EffectGoose, From: pos, To: next})
			pos = next
			continue
		}
		sq := b.At(pos)
		switch sq.Tag {
		case board.Bridge, board.Labyrinth, board.Skeleton:
			if sq.Target == pos {
				break chain
			}
			res.Steps = append(res.Steps, Step{Effect: teleportEffect(sq.Tag), From: pos, To: sq.Target})
			pos = sq.Target
		case board.Inn:
			res.Steps = append(res.Steps, Step{Effect: EffectInn, From: pos, To: pos})
			break chain
		case board.Well:
			res.SkipTurns = WellTurns
			res.Steps = append(res.Steps, Step{Effect: EffectWell, From: pos, To: pos})
			break chain
		case board.Prison:
			res.SkipTurns = PrisonTurns
			res.Steps = append(res.Steps, Step{Effect: EffectPrison, From: pos, To: pos})
			break chain
		case board.Win:
			res.Steps = append(res.Steps, Step{Effect: EffectWin, From: pos, To: pos})
			break chain
		default:
			break chain
		}
	}
	res.Target = pos
	return res
}

func teleportEffect(t board.Tag) Effect {
	switch t {
	case board.Bridge:
		return EffectBridge
	case board.Labyrinth:
		return EffectLabyrinth
	}
	return EffectSkeleton
}

// UpdateScore adds roll*ScorePerPip to p's score.
func UpdateScore(p *players.Player, roll int) {
	p.Score += roll * ScorePerPip
}

// FindOtherPlayerInSquare returns the slot of the first player other than
// current standing on square, or NotFound.
func FindOtherPlayerInSquare(reg *players.Registry, current *players.Player, square int) int {
	for i, p := range reg.Players() {
		if p.ID != current.ID && p.Position == square {
			return i
		}
	}
	return NotFound
}

// MovePlayer resolves roll for p, applies any capture, commits the new
// position and updates the score. A forfeited roll changes nothing.
func (e *Engine) MovePlayer(reg *players.Registry, p *players.Player, roll int, b *board.Board) Move {
	res := e.CheckPlayerPos(p, b, roll)
	mv := Move{
		Player:     slotOf(reg, p),
		Roll:       roll,
		Resolution: res,
		Captured:   NotFound,
		CapturedTo: NotFound,
	}
	if res.Forfeit {
		mv.Score = p.Score
		e.log.Info().Str("player", p.Name()).Int("roll", roll).Int("position", p.Position).Msg("move forfeited")
		return mv
	}

	if res.Target != 0 {
		if idx := FindOtherPlayerInSquare(reg, p, res.Target); idx != NotFound {
			other := reg.At(idx)
			other.Position = res.Start
			mv.Captured, mv.CapturedTo = idx, res.Start
			e.log.Info().
				Str("player", p.Name()).
				Str("captured", other.Name()).
				Int("square", res.Target).
				Int("sent_to", res.Start).
				Msg("capture")
		}
	}

	p.Position = res.Target
	p.SkipTurns = res.SkipTurns
	UpdateScore(p, roll)
	mv.Score = p.Score

	e.log.Debug().
		Str("player", p.Name()).
		Int("roll", roll).
		Int("from", res.Start).
		Int("landed", res.Landed).
		Int("to", res.Target).
		Int("skip", res.SkipTurns).
		Int("score", p.Score).
		Msg("move")
	return mv
}

// BeginTurn consumes one pending skipped turn. It returns false when p must
// sit this turn out.
func (e *Engine) BeginTurn(p *players.Player) bool {
	if p.SkipTurns > 0 {
		p.SkipTurns--
		e.log.Debug().Str("player", p.Name()).Int("left", p.SkipTurns).Msg("turn skipped")
		return false
	}
	return true
}

// FindWinner returns the slot of the first player on the last square, or
// NotFound.
func FindWinner(reg *players.Registry, b *board.Board) int {
	for i, p := range reg.Players() {
		if p.Position == b.Last() {
			return i
		}
	}
	return NotFound
}

func slotOf(reg *players.Registry, p *players.Player) int {
	for i, q := range reg.Players() {
		if q == p {
			return i
		}
	}
	return NotFound
}
