// internal/players/players.go
//
// Player registry: identities, positions, scores.
// Responsibilities:
//   - Collect usernames through a Prompter, re-prompting on invalid or
//     duplicate names until an acceptable one is supplied.
//   - Normalize names to a fixed display width, uppercase.
//   - Keep players in turn order; only the ordering protocol reorders them.

package players

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/robalobadob/goosegame/internal/errs"
)

const (
	MinPlayers  = 2
	MaxPlayers  = 4
	UsernameLen = 8

	// NotFound is returned by lookups that find no player.
	NotFound = -1

	filler = ' '
)

// Player is a single participant.
type Player struct {
	ID        int // creation index, stable across reordering
	Username  string
	Position  int
	Score     int
	SkipTurns int
}

// Name is the username without padding.
func (p *Player) Name() string { return strings.TrimRight(p.Username, string(filler)) }

// Registry holds players in turn order.
type Registry struct {
	players []*Player
}

// Prompter is the console collaborator used while creating players.
type Prompter interface {
	AskString(ctx context.Context, label string) (string, error)
	PrintErr(err error)
}

// IsUsernameValid reports whether every rune of username is a letter.
// Digits, punctuation and whitespace are rejected, as is an empty name.
func IsUsernameValid(username string) bool {
	if strings.TrimSpace(username) == "" {
		return false
	}
	for _, r := range username {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ConformUsername truncates username to UsernameLen runes, uppercases it and
// pads it with spaces. It is idempotent.
func ConformUsername(username string) string {
	runes := []rune(strings.ToUpper(username))
	if len(runes) > UsernameLen {
		runes = runes[:UsernameLen]
	}
	s := string(runes)
	if n := utf8.RuneCountInString(s); n < UsernameLen {
		s += strings.Repeat(string(filler), UsernameLen-n)
	}
	return s
}

// FindDuplicateUsername returns the index of the player already using
// username, or NotFound. Names are compared case-insensitively.
func (r *Registry) FindDuplicateUsername(username string) int {
	for i, p := range r.players {
		if strings.EqualFold(p.Username, username) {
			return i
		}
	}
	return NotFound
}

// Create asks for n usernames and returns the resulting registry.
// Invalid and duplicate names are reported and asked again; only prompt
// failures end the loop.
func Create(ctx context.Context, n int, pr Prompter) (*Registry, error) {
	if n < MinPlayers || n > MaxPlayers {
		return nil, errs.ErrOutOfRange.
			WithData("players", n).
			WithData("min", MinPlayers).
			WithData("max", MaxPlayers)
	}
	reg := &Registry{players: make([]*Player, 0, n)}
	for slot := 0; slot < n; slot++ {
		name, err := askUsername(ctx, reg, pr, slot)
		if err != nil {
			return nil, fmt.Errorf("player %d username: %w", slot+1, err)
		}
		reg.players = append(reg.players, &Player{ID: slot, Username: name})
	}
	return reg, nil
}

func askUsername(ctx context.Context, reg *Registry, pr Prompter, slot int) (string, error) {
	label := fmt.Sprintf("Player %d, enter your username", slot+1)
	for {
		raw, err := pr.AskString(ctx, label)
		if err != nil {
			return "", err
		}
		raw = strings.TrimSpace(raw)
		if !IsUsernameValid(raw) {
			pr.PrintErr(errs.ErrInvalidUsername.WithData("input", raw))
			continue
		}
		name := ConformUsername(raw)
		if idx := reg.FindDuplicateUsername(name); idx != NotFound {
			pr.PrintErr(errs.ErrDuplicateUsername.WithData("username", strings.TrimSpace(name)))
			continue
		}
		return name, nil
	}
}

// State is the persisted form of a player.
type State struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Position  int    `json:"position"`
	Score     int    `json:"score"`
	SkipTurns int    `json:"skipTurns"`
}

// Restore rebuilds a registry from saved states, in the given order.
// IDs must be a permutation of [0, n).
func Restore(states []State) (*Registry, error) {
	if len(states) < MinPlayers || len(states) > MaxPlayers {
		return nil, errs.ErrOutOfRange.WithData("players", len(states))
	}
	reg := &Registry{players: make([]*Player, 0, len(states))}
	seen := make([]bool, len(states))
	for _, s := range states {
		name := ConformUsername(strings.TrimSpace(s.Username))
		if !IsUsernameValid(strings.TrimSpace(s.Username)) {
			return nil, errs.ErrInvalidUsername.WithData("input", s.Username)
		}
		if reg.FindDuplicateUsername(name) != NotFound {
			return nil, errs.ErrDuplicateUsername.WithData("username", s.Username)
		}
		if s.ID < 0 || s.ID >= len(states) {
			return nil, errs.ErrOutOfRange.WithData("player", s.Username).WithData("id", s.ID)
		}
		if seen[s.ID] {
			return nil, errs.ErrDuplicateID.WithData("player", s.Username).WithData("id", s.ID)
		}
		seen[s.ID] = true
		reg.players = append(reg.players, &Player{
			ID:        s.ID,
			Username:  name,
			Position:  s.Position,
			Score:     s.Score,
			SkipTurns: s.SkipTurns,
		})
	}
	return reg, nil
}

// States returns the persisted form of every player, in turn order.
func (r *Registry) States() []State {
	out := make([]State, len(r.players))
	for i, p := range r.players {
		out[i] = State{
			ID:        p.ID,
			Username:  p.Username,
			Position:  p.Position,
			Score:     p.Score,
			SkipTurns: p.SkipTurns,
		}
	}
	return out
}

// Destroy releases every player. Calling it again is a no-op.
func (r *Registry) Destroy() {
	if r == nil {
		return
	}
	for i := range r.players {
		r.players[i] = nil
	}
	r.players = nil
}

// Len is the number of players.
func (r *Registry) Len() int { return len(r.players) }

// At returns the player in turn slot i.
func (r *Registry) At(i int) *Player { return r.players[i] }

// Players returns the players in turn order. The slice is a copy; the
// players are shared.
func (r *Registry) Players() []*Player {
	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

// Swap exchanges two turn slots.
func (r *Registry) Swap(i, j int) {
	r.players[i], r.players[j] = r.players[j], r.players[i]
}

// Names lists trimmed usernames in turn order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.players))
	for i, p := range r.players {
		out[i] = p.Name()
	}
	return out
}
