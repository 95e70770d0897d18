// internal/board/types.go
//
// Square and tag definitions for the goose board.

package board

import "strconv"

// Tag is the kind of a square.
type Tag uint8

const (
	Normal Tag = iota
	Goose
	Bridge
	Inn
	Well
	Labyrinth
	Prison
	Skeleton
	Win
)

var tagNames = [...]string{
	Normal:    "normal",
	Goose:     "goose",
	Bridge:    "bridge",
	Inn:       "inn",
	Well:      "well",
	Labyrinth: "labyrinth",
	Prison:    "prison",
	Skeleton:  "skeleton",
	Win:       "win",
}

// tokens are the short render codes used instead of the numeric index.
var tokens = [...]string{
	Goose:     "GOO",
	Bridge:    "BRI",
	Inn:       "INN",
	Well:      "WEL",
	Labyrinth: "LAB",
	Prison:    "PRI",
	Skeleton:  "SKE",
	Win:       "END",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "tag(" + strconv.Itoa(int(t)) + ")"
}

// Special reports whether t alters movement or turn flow.
func (t Tag) Special() bool { return t != Normal }

// NoTarget marks squares that do not teleport.
const NoTarget = -1

// Square is a single board cell.
type Square struct {
	Index  int
	Tag    Tag
	Target int // destination of Bridge, Labyrinth and Skeleton; NoTarget otherwise
}

// Teleports reports whether landing on s moves the player elsewhere.
func (s Square) Teleports() bool { return s.Target != NoTarget }

// Token is the render code of s: a three letter code for special squares,
// the index otherwise.
func (s Square) Token() string {
	if s.Tag != Normal && int(s.Tag) < len(tokens) {
		return tokens[s.Tag]
	}
	return strconv.Itoa(s.Index)
}
