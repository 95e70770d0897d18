// internal/logging/logging.go
//
// Logger construction. The terminal belongs to the game, so logs go to a
// size-rotated file (lumberjack) as zerolog JSON lines. An empty file name
// disables logging.

package logging

import (
	"io"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
)

// Options mirrors the LOG_* configuration.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the root logger and the closer for its file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if opts.File == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	w := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    max(1, opts.MaxSizeMB),
		MaxBackups: max(0, opts.MaxBackups),
		MaxAge:     max(0, opts.MaxAgeDays),
		Compress:   opts.Compress,
	}
	log := zerolog.New(w).Level(lvl).With().Timestamp().Str("app", "goosegame").Logger()
	return log, w, nil
}
