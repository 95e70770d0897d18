// internal/board/board.go
//
// Board construction for the goose game.
// Responsibilities:
//   - Allocate N squares, indexed 0..N-1.
//   - Mark goose squares at a fixed spacing.
//   - Stamp special squares from a table of positions expressed on the
//     classic 64-square board and scaled to N.
//   - Resolve the goose "+1" nudge (CheckSquare), used both here and by
//     the turn engine.
//
// Notes:
//   - Square 0 is always Normal and square N-1 is always Win.
//   - Boards are deterministic for a given N, so snapshots only store N.
//   - Special placement avoids geese but not other specials: on small
//     boards two entries can scale onto the same index, the later entry
//     wins (see Collisions).

package board

import (
	"github.com/robalobadob/goosegame/internal/errs"
)

const (
	MinBoardDim  = 20
	MaxBoardDim  = 99
	GooseSpacing = 9

	// classicLast is the index of the final square on the classic board
	// the special table is expressed on.
	classicLast = 63
)

type special struct {
	rel    int
	tag    Tag
	target int // relative target, or NoTarget
	abs    bool
}

// specialTable is applied in order; later entries observe earlier stamps.
var specialTable = []special{
	{rel: 6, tag: Bridge, target: 12},
	{rel: 19, tag: Inn, target: NoTarget},
	{rel: 31, tag: Well, target: NoTarget},
	{rel: 42, tag: Labyrinth, target: 39},
	{rel: 52, tag: Prison, target: NoTarget},
	{rel: 58, tag: Skeleton, target: 0, abs: true},
}

// Board is an immutable sequence of squares.
type Board struct {
	squares    []Square
	collisions []int
}

// New builds a board of dim squares.
func New(dim int) (*Board, error) {
	if dim <= 0 {
		return nil, errs.ErrAllocation.WithData("board_dim", dim)
	}
	if dim < MinBoardDim || dim > MaxBoardDim {
		return nil, errs.ErrOutOfRange.
			WithData("board_dim", dim).
			WithData("min", MinBoardDim).
			WithData("max", MaxBoardDim)
	}

	b := &Board{squares: make([]Square, dim)}
	for i := range b.squares {
		b.squares[i] = Square{Index: i, Tag: Normal, Target: NoTarget}
	}
	b.insertGooseSquares()
	b.insertSpecialSquares()
	b.squares[dim-1].Tag = Win
	return b, nil
}

// insertGooseSquares marks every GooseSpacing-th square, never the last one.
func (b *Board) insertGooseSquares() {
	for i := GooseSpacing - 1; i < len(b.squares)-1; i += GooseSpacing {
		b.squares[i].Tag = Goose
	}
}

func (b *Board) insertSpecialSquares() {
	for _, sp := range specialTable {
		pos := b.CheckSquare(b.scale(sp.rel))
		if pos <= 0 || pos >= len(b.squares)-1 {
			continue
		}
		if b.squares[pos].Tag != Normal {
			b.collisions = append(b.collisions, pos)
		}
		target := NoTarget
		switch {
		case sp.target == NoTarget:
		case sp.abs:
			target = sp.target
		default:
			target = b.scale(sp.target)
		}
		b.squares[pos].Tag = sp.tag
		b.squares[pos].Target = target
	}
}

// scale maps a classic board index onto this board.
func (b *Board) scale(rel int) int {
	return rel * (len(b.squares) - 1) / classicLast
}

// CheckSquare returns position+1 when position is a goose square,
// position otherwise. Out of range positions are returned unchanged.
func (b *Board) CheckSquare(position int) int {
	if position < 0 || position >= len(b.squares) {
		return position
	}
	if b.squares[position].Tag == Goose {
		return position + 1
	}
	return position
}

// Len is the number of squares.
func (b *Board) Len() int { return len(b.squares) }

// Last is the index of the winning square.
func (b *Board) Last() int { return len(b.squares) - 1 }

// At returns the square at i. It panics when i is out of range.
func (b *Board) At(i int) Square { return b.squares[i] }

// Squares returns a copy of the board.
func (b *Board) Squares() []Square {
	out := make([]Square, len(b.squares))
	copy(out, b.squares)
	return out
}

// Collisions lists indices where a special square overwrote another one
// during construction.
func (b *Board) Collisions() []int {
	out := make([]int, len(b.collisions))
	copy(out, b.collisions)
	return out
}
