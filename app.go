// app.go
//
// Main menu and the glue between the menu entries and the game packages.
// Responsibilities:
//   - New game: ask for players and board size, build the registry, run a
//     session.
//   - Load: restore the latest snapshot from the store and run it.
//   - Rules and hall of fame screens.
//
// Fatal errors (errs.IsFatal, which includes terminal failures) end the menu
// loop. Anything else is reported and the menu is shown again.

package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/assets"
	"github.com/robalobadob/goosegame/internal/board"
	"github.com/robalobadob/goosegame/internal/errs"
	"github.com/robalobadob/goosegame/internal/game"
	"github.com/robalobadob/goosegame/internal/ordering"
	"github.com/robalobadob/goosegame/internal/players"
	"github.com/robalobadob/goosegame/internal/session"
	"github.com/robalobadob/goosegame/internal/store"
	"github.com/robalobadob/goosegame/internal/tui"
)

const (
	menuNewGame = iota + 1
	menuLoad
	menuRules
	menuHallOfFame
	menuQuit
)

type app struct {
	ui        *tui.UI
	store     store.Store
	dice      ordering.Roller
	overshoot game.Overshoot
	log       zerolog.Logger
}

func (a *app) deps() session.Deps {
	return session.Deps{
		Engine: game.New(a.overshoot, a.log),
		Dice:   a.dice,
		UI:     a.ui,
		Store:  a.store,
		Log:    a.log,
	}
}

func (a *app) mainMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.ui.NewScreen("The Goose Game"); err != nil {
			return err
		}
		if err := a.ui.PrintMenu(assets.MenuFile); err != nil {
			return err
		}
		choice, err := a.ui.AskNumInRange(ctx, menuNewGame, menuQuit, "Choose an option")
		if err != nil {
			return err
		}
		a.log.Debug().Int("choice", choice).Msg("main menu")

		switch choice {
		case menuNewGame:
			err = a.newGame(ctx)
		case menuLoad:
			err = a.loadGame(ctx)
		case menuRules:
			err = a.ui.DisplayFile(ctx, "Rules", assets.RulesFile)
		case menuHallOfFame:
			err = a.hallOfFame(ctx)
		case menuQuit:
			return nil
		}
		if errs.IsFatal(err) {
			return err
		}
		if err != nil {
			if err := a.report(ctx, err); err != nil {
				return err
			}
		}
	}
}

func (a *app) newGame(ctx context.Context) error {
	if err := a.ui.NewScreen("New game"); err != nil {
		return err
	}
	n, err := a.ui.AskNumInRange(ctx, players.MinPlayers, players.MaxPlayers, "How many players")
	if err != nil {
		return err
	}
	dim, err := a.ui.AskNumInRange(ctx, board.MinBoardDim, board.MaxBoardDim, "How many squares on the board")
	if err != nil {
		return err
	}
	b, err := board.New(dim)
	if err != nil {
		return err
	}
	reg, err := players.Create(ctx, n, a.ui)
	if err != nil {
		return err
	}
	a.log.Info().Int("players", n).Int("board_dim", dim).Msg("new game")
	return a.play(ctx, session.New(b, reg, a.deps()))
}

func (a *app) loadGame(ctx context.Context) error {
	snap, err := a.store.Latest(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.log.Error().Err(err).Msg("load latest save")
		}
		return a.report(ctx, errs.ErrNoSavedGame.WithCause(err))
	}
	s, err := session.Restore(snap, a.deps())
	if err != nil {
		a.log.Error().Err(err).Str("save_id", snap.ID).Msg("restore save")
		return a.report(ctx, errs.ErrNoSavedGame.WithCause(err))
	}
	return a.play(ctx, s)
}

func (a *app) play(ctx context.Context, s *session.Session) error {
	outcome, err := s.Run(ctx)
	if err != nil {
		return err
	}
	ev := a.log.Info().Stringer("outcome", outcome)
	if res, ok := s.Result(); ok {
		ev = ev.Str("winner", res.Winner).Int("score", res.Score).Int("rounds", res.Rounds)
	}
	ev.Msg("session ended")
	return nil
}

func (a *app) hallOfFame(ctx context.Context) error {
	results, err := a.store.Leaderboard(ctx, store.DefaultLeaderboardLimit)
	if err != nil {
		a.log.Error().Err(err).Msg("leaderboard")
		results = nil
	}
	return a.ui.ShowLeaderboard(ctx, results)
}

// report shows a recoverable error and waits before the menu is redrawn.
func (a *app) report(ctx context.Context, err error) error {
	a.ui.PrintErr(err)
	_, kerr := a.ui.WaitKeypress(ctx, "Press any key to continue")
	return kerr
}
