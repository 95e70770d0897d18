package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/assets"
	"github.com/robalobadob/goosegame/internal/config"
	"github.com/robalobadob/goosegame/internal/dice"
	"github.com/robalobadob/goosegame/internal/logging"
	"github.com/robalobadob/goosegame/internal/messages"
	"github.com/robalobadob/goosegame/internal/store"
	"github.com/robalobadob/goosegame/internal/term"
	"github.com/robalobadob/goosegame/internal/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log, logCloser, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logCloser.Close()

	files := assets.Dir(cfg.AssetsDir)
	catalog, err := messages.Open(cfg.MessagesFile, files, assets.ErrorsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to load message catalog")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	st, err := openStore(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to open store")
		fmt.Fprintln(os.Stderr, catalog.For(err))
		return 1
	}
	defer st.Close()

	seed := cfg.DiceSeed
	if seed == 0 {
		if seed, err = dice.NewSeed(); err != nil {
			log.Error().Err(err).Msg("failed to seed dice")
			fmt.Fprintln(os.Stderr, catalog.For(err))
			return 1
		}
	}

	t, err := term.Open(cfg.Terminal)
	if err != nil {
		log.Error().Err(err).Str("terminal", cfg.Terminal).Msg("failed to open terminal")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("terminal", cfg.Terminal).
		Str("overshoot", cfg.Overshoot).
		Bool("sqlite", cfg.DBPath != "").
		Int64("seed", seed).
		Msg("starting goose game")

	a := &app{
		ui:        tui.New(t, catalog, files, cfg.BoardCols, log),
		store:     st,
		dice:      dice.New(seed),
		overshoot: cfg.OvershootPolicy(),
		log:       log,
	}
	err = a.mainMenu(ctx)
	_ = t.Close()

	switch {
	case err == nil:
		log.Info().Msg("bye")
		return 0
	case errors.Is(err, term.ErrInterrupted), errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
		log.Info().Err(err).Msg("interrupted")
		return 130
	default:
		log.Error().Err(err).Msg("game aborted")
		fmt.Fprintln(os.Stderr, catalog.For(err))
		return 1
	}
}

// openStore picks SQLite when DB_PATH is set, memory otherwise.
func openStore(cfg config.Config, log zerolog.Logger) (store.Store, error) {
	if cfg.DBPath == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStore(cfg.DBPath, assets.FS, assets.MigrationsDir, log)
}
