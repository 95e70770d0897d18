// internal/config/config.go
//
// Process configuration from the environment.
//
// Load reads a .env file when one exists (godotenv never overrides variables
// already set), then parses Config with caarlos0/env and validates it.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/internal/game"
	"github.com/robalobadob/goosegame/internal/term"
)

const (
	MinBoardCols = 4
	MaxBoardCols = 20
)

// Config holds every tunable of the game process.
type Config struct {
	LogLevel      string `env:"LOG_LEVEL"        envDefault:"info"`
	LogFile       string `env:"LOG_FILE"         envDefault:"goosegame.log"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"  envDefault:"10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS"  envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
	LogCompress   bool   `env:"LOG_COMPRESS"     envDefault:"false"`

	// Empty DBPath keeps saves in memory. AssetsDir and MessagesFile
	// override the embedded texts.
	DBPath       string `env:"DB_PATH"`
	AssetsDir    string `env:"ASSETS_DIR"`
	MessagesFile string `env:"MESSAGES_FILE"`

	Terminal  string `env:"TERMINAL"         envDefault:"ansi"`
	Overshoot string `env:"OVERSHOOT_POLICY" envDefault:"clamp"`
	BoardCols int    `env:"BOARD_COLS"       envDefault:"10"`

	// DiceSeed fixes the die sequence; 0 draws a random seed.
	DiceSeed int64 `env:"DICE_SEED" envDefault:"0"`
}

// Load reads the optional dotenv files (".env" when none are named) and
// parses the process environment.
func Load(dotenv ...string) (Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	return parse(env.Options{})
}

// FromMap parses cfg from vars instead of the process environment.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the env parser cannot.
func (c Config) Validate() error {
	var problems []string
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q", c.LogLevel))
	}
	if c.LogMaxSizeMB < 1 {
		problems = append(problems, "LOG_MAX_SIZE_MB must be at least 1")
	}
	if c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
		problems = append(problems, "LOG_MAX_BACKUPS and LOG_MAX_AGE_DAYS must not be negative")
	}
	switch strings.ToLower(c.Terminal) {
	case term.BackendANSI, term.BackendTermbox:
	default:
		problems = append(problems, fmt.Sprintf("TERMINAL %q (want %s or %s)", c.Terminal, term.BackendANSI, term.BackendTermbox))
	}
	if _, err := game.ParseOvershoot(c.Overshoot); err != nil {
		problems = append(problems, fmt.Sprintf("OVERSHOOT_POLICY %q", c.Overshoot))
	}
	if c.BoardCols < MinBoardCols || c.BoardCols > MaxBoardCols {
		problems = append(problems, fmt.Sprintf("BOARD_COLS %d not in [%d, %d]", c.BoardCols, MinBoardCols, MaxBoardCols))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// OvershootPolicy returns the validated overshoot policy.
func (c Config) OvershootPolicy() game.Overshoot {
	o, err := game.ParseOvershoot(c.Overshoot)
	if err != nil {
		return game.OvershootClamp
	}
	return o
}
