package solver

import (
	"fmt"
	"strings"

	"github.com/domino14/tsume/move"
)

// Line is a sequence of moves in the order they are played, starting with
// an attacker move.
type Line struct {
	Moves []move.Move
}

// Clear the line.
func (l *Line) Clear() {
	l.Moves = nil
}

// Update replaces the line with m followed by the continuation rest.
func (l *Line) Update(m move.Move, rest Line) {
	moves := make([]move.Move, 0, len(rest.Moves)+1)
	moves = append(moves, m)
	moves = append(moves, rest.Moves...)
	l.Moves = moves
}

func (l Line) Len() int {
	return len(l.Moves)
}

func (l Line) String() string {
	var sb strings.Builder
	for i, m := range l.Moves {
		who := "attack"
		if i%2 == 1 {
			who = "defend"
		}
		fmt.Fprintf(&sb, "%d: %s (%s)\n", i+1, m.ShortDescription(), who)
	}
	return sb.String()
}

// NLBString has no line breaks.
func (l Line) NLBString() string {
	return move.Sequence(l.Moves)
}
