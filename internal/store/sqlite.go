// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Responsibilities:
//   - Opening the database file with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying migrations from an fs.FS (idempotent, recorded in _migrations).
//   - Save slots (saves table) and finished games (results table).
//
// Note: players are stored as a JSON column; a snapshot is small and only
// ever read back whole.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/internal/players"
)

type sqliteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLiteStore opens (creating if missing) the database at path and
// applies every *.sql file found under dir in migrations.
func NewSQLiteStore(path string, migrations fs.FS, dir string, log zerolog.Logger) (Store, error) {
	log = log.With().Str("component", "store").Logger()
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, migrations, dir, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db, log: log}, nil
}

/**
 * openDB opens (and creates if missing) a SQLite database file.
 *
 * - Ensures parent directory exists for relative paths (e.g. ./data/goose.db).
 * - Configures busy timeout and WAL journaling mode.
 * - Enforces foreign keys.
 */
func openDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// The game is single-threaded; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

/**
 * migrate applies SQL migrations found under dir in fsys.
 *
 * - Uses a _migrations table to track applied files.
 * - Executes each *.sql file in lexical order, each in its own transaction.
 * - Skips files already applied.
 */
func migrate(db *sql.DB, fsys fs.FS, dir string, log zerolog.Logger) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

/* ------------------------------ save slots ------------------------------ */

func (s *sqliteStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.prepare(); err != nil {
		return err
	}
	blob, err := json.Marshal(snap.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO saves (id, created_at, board_dim, turn, round, players)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            created_at=excluded.created_at,
            board_dim=excluded.board_dim,
            turn=excluded.turn,
            round=excluded.round,
            players=excluded.players`,
		snap.ID, snap.CreatedAt, snap.BoardDim, snap.Turn, snap.Round, string(blob),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", snap.ID, err)
	}
	s.log.Debug().Str("save_id", snap.ID).Int("round", snap.Round).Msg("snapshot saved")
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, created_at, board_dim, turn, round, players
        FROM saves WHERE id=?`, id)
	return scanSnapshot(row)
}

func (s *sqliteStore) Latest(ctx context.Context) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, created_at, board_dim, turn, round, players
        FROM saves
        ORDER BY created_at DESC, rowid DESC
        LIMIT 1`)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var (
		snap Snapshot
		blob string
	)
	err := row.Scan(&snap.ID, &snap.CreatedAt, &snap.BoardDim, &snap.Turn, &snap.Round, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var states []players.State
	if err := json.Unmarshal([]byte(blob), &states); err != nil {
		return nil, fmt.Errorf("decode players of %s: %w", snap.ID, err)
	}
	snap.Players = states
	return &snap, nil
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE id=?`, id)
	return err
}

/* -------------------------------- results -------------------------------- */

func (s *sqliteStore) RecordResult(ctx context.Context, r Result) error {
	r.prepare()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO results (winner, score, rounds, board_dim, created_at)
        VALUES (?, ?, ?, ?, ?)`,
		r.Winner, r.Score, r.Rounds, r.BoardDim, r.CreatedAt,
	)
	return err
}

/**
 * Leaderboard fetches the best finished games.
 *
 * - Ordered by score DESC, then rounds ASC, then created_at ASC.
 * - Default limit is DefaultLeaderboardLimit if not specified.
 */
func (s *sqliteStore) Leaderboard(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT winner, score, rounds, board_dim, created_at
        FROM results
        ORDER BY score DESC, rounds ASC, created_at ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Winner, &r.Score, &r.Rounds, &r.BoardDim, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
