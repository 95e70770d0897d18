// internal/store/store.go
//
// Persistence for save slots and finished games.
// Defines:
//   - Snapshot: the minimal state needed to resume a game (the board is
//     rebuilt from its dimension).
//   - Result: one finished game, for the hall of fame.
//   - Store: the interface implemented by the memory and SQLite backends.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/goosegame/internal/players"
)

const DefaultLeaderboardLimit = 10

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("store: not found")

// Store defines the persistence interface for snapshots and results.
type Store interface {
	// Save persists or replaces a snapshot. Empty ID and CreatedAt are filled in.
	Save(ctx context.Context, s *Snapshot) error

	// Get retrieves a snapshot by ID.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Latest retrieves the most recently saved snapshot.
	Latest(ctx context.Context) (*Snapshot, error)

	// Delete removes a snapshot.
	Delete(ctx context.Context, id string) error

	// RecordResult stores a finished game.
	RecordResult(ctx context.Context, r Result) error

	// Leaderboard lists the best results, highest score first.
	Leaderboard(ctx context.Context, limit int) ([]Result, error)

	Close() error
}

// Snapshot is a resumable game.
type Snapshot struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	BoardDim  int             `json:"boardDim"`
	Turn      int             `json:"turn"`  // registry slot to play next
	Round     int             `json:"round"` // 1-based
	Players   []players.State `json:"players"`
}

func (s *Snapshot) prepare() error {
	if s.BoardDim <= 0 || len(s.Players) == 0 {
		return errors.New("store: empty snapshot")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (s *Snapshot) clone() *Snapshot {
	cp := *s
	cp.Players = append([]players.State(nil), s.Players...)
	return &cp
}

// Result is a finished game.
type Result struct {
	Winner    string    `json:"winner"`
	Score     int       `json:"score"`
	Rounds    int       `json:"rounds"`
	BoardDim  int       `json:"boardDim"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Result) prepare() {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}
