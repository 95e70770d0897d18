// internal/ordering/ordering.go
//
// Pre-game ordering protocol: every player rolls the die, the registry is
// sorted by roll (highest first), and players tied with a neighbour roll
// again until no two adjacent players share a roll.
//
// State machine:
//
//	Collecting -> CheckingTies -> Rerolling -> CheckingTies -> ... -> Sorted
//
// Termination is probabilistic; with at most players.MaxPlayers (< 6)
// players a tie-free assignment always exists.

package ordering

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/goosegame/internal/players"
)

// State is the protocol's position in its state machine.
type State uint8

const (
	Collecting State = iota
	CheckingTies
	Rerolling
	Sorted
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case CheckingTies:
		return "checking_ties"
	case Rerolling:
		return "rerolling"
	case Sorted:
		return "sorted"
	}
	return "unknown"
}

// Roller draws a die roll in [1,6].
type Roller interface {
	Roll() int
}

// Display is the console collaborator: a blocking keypress prompt and a
// message sink.
type Display interface {
	WaitKeypress(ctx context.Context, format string, args ...any) (rune, error)
	Printf(format string, args ...any)
}

// Protocol runs the ordering ritual once per session.
type Protocol struct {
	dice  Roller
	ui    Display
	log   zerolog.Logger
	state State
}

// New binds the protocol to a die and a display.
func New(dice Roller, ui Display, log zerolog.Logger) *Protocol {
	return &Protocol{
		dice: dice,
		ui:   ui,
		log:  log.With().Str("component", "ordering").Logger(),
	}
}

// State reports the current protocol state.
func (p *Protocol) State() State { return p.state }

func (p *Protocol) enter(s State) {
	p.log.Debug().Stringer("from", p.state).Stringer("to", s).Msg("ordering state")
	p.state = s
}

// SortPlayersByDice rolls, sorts, rerolls ties and prints the final order.
// On success the registry order is the turn order; the final rolls are
// returned in that order.
func (p *Protocol) SortPlayersByDice(ctx context.Context, reg *players.Registry) ([]int, error) {
	rolls := make([]int, reg.Len())

	p.enter(Collecting)
	if err := p.InteractiveRoll(ctx, reg, rolls); err != nil {
		return nil, err
	}
	SelectionSortPlayers(reg, rolls)
	if err := p.InteractiveReroll(ctx, reg, rolls); err != nil {
		return nil, err
	}
	p.enter(Sorted)
	p.printPlayersList(reg, rolls)
	return rolls, nil
}

// InteractiveRoll asks every player, in registry order, to press a key and
// records their roll in rolls[slot].
func (p *Protocol) InteractiveRoll(ctx context.Context, reg *players.Registry, rolls []int) error {
	slots := make([]int, reg.Len())
	for i := range slots {
		slots[i] = i
	}
	return p.rollSlots(ctx, reg, rolls, slots)
}

func (p *Protocol) rollSlots(ctx context.Context, reg *players.Registry, rolls []int, slots []int) error {
	for _, slot := range slots {
		pl := reg.At(slot)
		if _, err := p.ui.WaitKeypress(ctx, "%s, press any key to roll the dice", pl.Name()); err != nil {
			return fmt.Errorf("roll for %s: %w", pl.Name(), err)
		}
		rolls[slot] = p.dice.Roll()
		p.ui.Printf("%s rolled %d\n", pl.Name(), rolls[slot])
		p.log.Debug().Str("player", pl.Name()).Int("roll", rolls[slot]).Msg("ordering roll")
	}
	return nil
}

// SelectionSortPlayers sorts players by roll, highest first, moving each
// roll together with its player. Among equal rolls the leftmost is picked.
func SelectionSortPlayers(reg *players.Registry, rolls []int) {
	n := reg.Len()
	for i := 0; i < n-1; i++ {
		maxIdx := i
		for j := i + 1; j < n; j++ {
			if rolls[j] > rolls[maxIdx] {
				maxIdx = j
			}
		}
		if maxIdx != i {
			reg.Swap(i, maxIdx)
			rolls[i], rolls[maxIdx] = rolls[maxIdx], rolls[i]
		}
	}
}

// TiedSlots returns, in ascending order, every slot whose roll equals the
// roll of an adjacent slot. rolls must already be sorted.
func TiedSlots(rolls []int) []int {
	var out []int
	for i := range rolls {
		left := i > 0 && rolls[i-1] == rolls[i]
		right := i < len(rolls)-1 && rolls[i+1] == rolls[i]
		if left || right {
			out = append(out, i)
		}
	}
	return out
}

// InteractiveReroll makes tied players roll again and resorts the registry
// until no adjacent players share a roll.
func (p *Protocol) InteractiveReroll(ctx context.Context, reg *players.Registry, rolls []int) error {
	for round := 1; ; round++ {
		p.enter(CheckingTies)
		tied := TiedSlots(rolls)
		if len(tied) == 0 {
			return nil
		}
		names := make([]string, len(tied))
		for i, slot := range tied {
			names[i] = reg.At(slot).Name()
		}
		p.ui.Printf("Tie between %s: roll again!\n", strings.Join(names, ", "))
		p.log.Info().Strs("players", names).Int("round", round).Msg("ordering tie")

		p.enter(Rerolling)
		if err := p.rollSlots(ctx, reg, rolls, tied); err != nil {
			return err
		}
		SelectionSortPlayers(reg, rolls)
	}
}

func (p *Protocol) printPlayersList(reg *players.Registry, rolls []int) {
	parts := make([]string, reg.Len())
	for i := range parts {
		parts[i] = fmt.Sprintf("%s (%d)", reg.At(i).Name(), rolls[i])
	}
	p.ui.Printf("Turn order: %s\n", strings.Join(parts, ", "))
	p.log.Info().Strs("order", reg.Names()).Ints("rolls", rolls).Msg("turn order fixed")
}
