// internal/session/session.go
//
// Game session: one game from turn ordering to a winner (or until the
// players leave).
// Responsibilities:
//   - Run the ordering protocol for new games.
//   - Drive the turn loop: render, wait for the player (the pause key opens
//     the pause menu), consume skipped turns, roll, move, report.
//   - Save snapshots on request and record the result of a finished game.
//   - Tear the registry down when the session ends, however it ends.
//
// Notes:
//   - A snapshot is taken before the current player's keypress is acted on,
//     so a restored game resumes with the same player about to play.
//   - Every prompt gives up once the context is cancelled.

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/internal/board"
	"github.com/robalobadob/goosegame/internal/errs"
	"github.com/robalobadob/goosegame/internal/game"
	"github.com/robalobadob/goosegame/internal/ordering"
	"github.com/robalobadob/goosegame/internal/players"
	"github.com/robalobadob/goosegame/internal/store"
	"github.com/robalobadob/goosegame/internal/term"
	"github.com/robalobadob/goosegame/internal/tui"
)

// Outcome is how a session ended.
type Outcome uint8

const (
	OutcomeWon Outcome = iota + 1
	OutcomeLeft
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLeft:
		return "left"
	}
	return "unknown"
}

// UI is the console surface a session draws on.
type UI interface {
	ordering.Display
	PrintErr(err error)
	NewScreen(title string) error
	RenderBoard(b *board.Board, reg *players.Registry)
	RenderPositions(reg *players.Registry)
	PauseMenu(ctx context.Context) (tui.PauseChoice, error)
}

// Deps are the collaborators shared by every session of a process.
type Deps struct {
	Engine *game.Engine
	Dice   ordering.Roller
	UI     UI
	Store  store.Store
	Log    zerolog.Logger
}

// Session owns a board and a registry for the duration of one game.
type Session struct {
	board    *board.Board
	reg      *players.Registry
	engine   *game.Engine
	dice     ordering.Roller
	ui       UI
	store    store.Store
	ordering *ordering.Protocol
	log      zerolog.Logger

	turn     int // registry slot to play next
	round    int
	restored bool
	saveID   string
	last     []string // report of the previous move, shown on the next screen
	result   *store.Result
}

// New starts a fresh game on b with the players of reg.
func New(b *board.Board, reg *players.Registry, deps Deps) *Session {
	log := deps.Log.With().Str("component", "session").Logger()
	log.Debug().Int("board_dim", b.Len()).Ints("collisions", b.Collisions()).Msg("board ready")
	return &Session{
		board:    b,
		reg:      reg,
		engine:   deps.Engine,
		dice:     deps.Dice,
		ui:       deps.UI,
		store:    deps.Store,
		ordering: ordering.New(deps.Dice, deps.UI, deps.Log),
		log:      log,
		round:    1,
	}
}

// Restore rebuilds a session from a snapshot. The ordering protocol is not
// run again.
func Restore(snap *store.Snapshot, deps Deps) (*Session, error) {
	b, err := board.New(snap.BoardDim)
	if err != nil {
		return nil, fmt.Errorf("restore board: %w", err)
	}
	reg, err := players.Restore(snap.Players)
	if err != nil {
		return nil, fmt.Errorf("restore players: %w", err)
	}
	for _, p := range reg.Players() {
		if p.Position < 0 || p.Position > b.Last() || p.SkipTurns < 0 {
			reg.Destroy()
			return nil, errs.ErrOutOfRange.WithData("player", p.Name()).WithData("position", p.Position)
		}
	}
	if snap.Turn < 0 || snap.Turn >= reg.Len() || snap.Round < 1 {
		reg.Destroy()
		return nil, errs.ErrOutOfRange.WithData("turn", snap.Turn).WithData("round", snap.Round)
	}

	s := New(b, reg, deps)
	s.turn = snap.Turn
	s.round = snap.Round
	s.restored = true
	s.saveID = snap.ID
	s.log.Info().Str("save_id", snap.ID).Int("round", snap.Round).Msg("session restored")
	return s, nil
}

// Snapshot captures the resumable state. Saving the same session twice
// reuses its save slot.
func (s *Session) Snapshot() *store.Snapshot {
	return &store.Snapshot{
		ID:       s.saveID,
		BoardDim: s.board.Len(),
		Turn:     s.turn,
		Round:    s.round,
		Players:  s.reg.States(),
	}
}

// Result returns the finished game, once Run has returned OutcomeWon.
func (s *Session) Result() (store.Result, bool) {
	if s.result == nil {
		return store.Result{}, false
	}
	return *s.result, true
}

// Run plays the game until a player wins or the players leave.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	defer s.reg.Destroy()

	if !s.restored {
		if err := s.ui.NewScreen("Who starts?"); err != nil {
			return 0, err
		}
		if _, err := s.ordering.SortPlayersByDice(ctx, s.reg); err != nil {
			return 0, fmt.Errorf("turn order: %w", err)
		}
		if _, err := s.ui.WaitKeypress(ctx, "Press any key to start"); err != nil {
			return 0, err
		}
	}
	s.log.Info().Strs("order", s.reg.Names()).Int("board_dim", s.board.Len()).Msg("game started")

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		p := s.reg.At(s.turn)
		if err := s.render(); err != nil {
			return 0, err
		}

		prompt := fmt.Sprintf("%s, press any key to roll the dice (p to pause)", p.Name())
		if p.SkipTurns > 0 {
			prompt = fmt.Sprintf("%s must sit this turn out, press any key (p to pause)", p.Name())
		}
		leave, err := s.waitTurnKey(ctx, prompt)
		if err != nil {
			return 0, err
		}
		if leave {
			s.log.Info().Int("round", s.round).Msg("players left the game")
			return OutcomeLeft, nil
		}

		if !s.engine.BeginTurn(p) {
			s.last = []string{fmt.Sprintf("%s sat out a turn.", p.Name())}
			s.advance()
			continue
		}

		roll := s.dice.Roll()
		mv := s.engine.MovePlayer(s.reg, p, roll, s.board)
		s.last = describe(mv, s.reg)

		if w := game.FindWinner(s.reg, s.board); w != game.NotFound {
			return OutcomeWon, s.finish(ctx, s.reg.At(w))
		}
		s.advance()
	}
}

func (s *Session) advance() {
	s.turn++
	if s.turn == s.reg.Len() {
		s.turn = 0
		s.round++
	}
}

func (s *Session) render() error {
	if err := s.ui.NewScreen(fmt.Sprintf("Round %d", s.round)); err != nil {
		return err
	}
	s.ui.RenderBoard(s.board, s.reg)
	s.ui.Printf("\n")
	s.ui.RenderPositions(s.reg)
	for _, line := range s.last {
		s.ui.Printf("%s\n", line)
	}
	if len(s.last) > 0 {
		s.ui.Printf("\n")
	}
	return nil
}

// waitTurnKey waits for the current player. The pause key opens the pause
// menu, which loops until the players resume or leave.
func (s *Session) waitTurnKey(ctx context.Context, prompt string) (leave bool, err error) {
	for {
		r, err := s.ui.WaitKeypress(ctx, "%s", prompt)
		if err != nil {
			return false, err
		}
		if !term.IsPauseKey(r) {
			return false, nil
		}
	menu:
		for {
			choice, err := s.ui.PauseMenu(ctx)
			if err != nil {
				return false, err
			}
			switch choice {
			case tui.PauseSave:
				s.save(ctx)
			case tui.PauseLeave:
				return true, nil
			default:
				break menu
			}
		}
	}
}

func (s *Session) save(ctx context.Context) {
	snap := s.Snapshot()
	if err := s.store.Save(ctx, snap); err != nil {
		s.log.Error().Err(err).Msg("save failed")
		s.ui.PrintErr(errs.ErrSaveFailed.WithCause(err))
		return
	}
	s.saveID = snap.ID
	s.log.Info().Str("save_id", snap.ID).Int("round", s.round).Int("turn", s.turn).Msg("game saved")
	s.ui.Printf("Game saved.\n")
}

func (s *Session) finish(ctx context.Context, winner *players.Player) error {
	s.result = &store.Result{
		Winner:   winner.Name(),
		Score:    winner.Score,
		Rounds:   s.round,
		BoardDim: s.board.Len(),
	}
	s.log.Info().Str("winner", winner.Name()).Int("score", winner.Score).Int("rounds", s.round).Msg("game won")

	if err := s.render(); err != nil {
		return err
	}
	s.ui.Printf("%s wins with %d points after %d rounds!\n\n", winner.Name(), winner.Score, s.round)

	if err := s.store.RecordResult(ctx, *s.result); err != nil {
		s.log.Error().Err(err).Msg("record result failed")
		s.ui.PrintErr(errs.ErrSaveFailed.WithCause(err))
	}
	if s.saveID != "" {
		if err := s.store.Delete(ctx, s.saveID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.log.Warn().Err(err).Str("save_id", s.saveID).Msg("delete finished save")
		}
	}

	_, err := s.ui.WaitKeypress(ctx, "Press any key to return to the menu")
	return err
}
