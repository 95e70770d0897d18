// internal/tui/render.go
//
// Board, standings and hall-of-fame rendering.
//
// Board layout: squares are drawn boardCols to a row, each row in its own
// box. Every cell is cellWidth columns wide and shows the square token; rows
// that hold players get an extra line with the initials of the players on
// each square.
//
//	┌─────┬─────┬─────┐
//	│  0  │ BRI │  2  │
//	│ AB  │     │  C  │
//	└─────┴─────┴─────┘

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robalobadob/goosegame/internal/board"
	"github.com/robalobadob/goosegame/internal/players"
	"github.com/robalobadob/goosegame/internal/store"
)

const cellWidth = 5

// RenderBoard draws b with the players of reg on it.
func (u *UI) RenderBoard(b *board.Board, reg *players.Registry) {
	u.Printf("%s", boardString(b, reg, u.boardCols))
}

func boardString(b *board.Board, reg *players.Registry, cols int) string {
	occupants := make(map[int][]rune)
	for _, p := range reg.Players() {
		name := []rune(p.Name())
		if len(name) > 0 {
			occupants[p.Position] = append(occupants[p.Position], name[0])
		}
	}

	var sb strings.Builder
	for start := 0; start < b.Len(); start += cols {
		end := start + cols
		if end > b.Len() {
			end = b.Len()
		}
		n := end - start

		sb.WriteString(rule('┌', '┬', '┐', n))
		sb.WriteString("│")
		for i := start; i < end; i++ {
			sq := b.At(i)
			cell := center(sq.Token(), cellWidth, ' ')
			if sq.Tag.Special() {
				cell = sgrCyan + cell + sgrReset
			}
			sb.WriteString(cell)
			sb.WriteString("│")
		}
		sb.WriteString("\n")

		held := false
		for i := start; i < end; i++ {
			if len(occupants[i]) > 0 {
				held = true
				break
			}
		}
		if held {
			sb.WriteString("│")
			for i := start; i < end; i++ {
				cell := center(string(occupants[i]), cellWidth, ' ')
				if len(occupants[i]) > 0 {
					cell = sgrGreen + sgrBold + cell + sgrReset
				}
				sb.WriteString(cell)
				sb.WriteString("│")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(rule('└', '┴', '┘', n))
	}
	return sb.String()
}

func rule(left, mid, right rune, cells int) string {
	seg := strings.Repeat("─", cellWidth)
	parts := make([]string, cells)
	for i := range parts {
		parts[i] = seg
	}
	return string(left) + strings.Join(parts, string(mid)) + string(right) + "\n"
}

// RenderPositions prints one line per player in turn order.
func (u *UI) RenderPositions(reg *players.Registry) {
	u.Printf("%s\n", positionsString(reg))
}

func positionsString(reg *players.Registry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %8s  %8s  %s\n",
		runewidth.FillRight("PLAYER", players.UsernameLen), "SQUARE", "SCORE", "STATUS")
	for _, p := range reg.Players() {
		status := ""
		if p.SkipTurns > 0 {
			status = fmt.Sprintf("skips %d", p.SkipTurns)
		}
		fmt.Fprintf(&sb, "%s  %8d  %8d  %s\n",
			runewidth.FillRight(p.Name(), players.UsernameLen), p.Position, p.Score, status)
	}
	return sb.String()
}

// ShowLeaderboard lists finished games and waits for a back key.
func (u *UI) ShowLeaderboard(ctx context.Context, results []store.Result) error {
	if err := u.NewScreen("Hall of fame"); err != nil {
		return err
	}
	u.Printf("%s", leaderboardString(results))
	return u.waitBack(ctx)
}

func leaderboardString(results []store.Result) string {
	if len(results) == 0 {
		return "No finished games yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%3s  %s  %6s  %6s  %5s  %s\n",
		"#", runewidth.FillRight("WINNER", players.UsernameLen), "SCORE", "ROUNDS", "BOARD", "DATE")
	for i, r := range results {
		fmt.Fprintf(&sb, "%3d  %s  %6d  %6d  %5d  %s\n",
			i+1, runewidth.FillRight(r.Winner, players.UsernameLen),
			r.Score, r.Rounds, r.BoardDim, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return sb.String()
}
