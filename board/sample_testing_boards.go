package board

// This file contains some sample positions, used solely for testing.
// The second player's king is the one being mated in all of them.

// Diagram is a board in ToDisplayText form.
type Diagram string

const (
	// GoldCheck has a gold two ranks below the king, one file over;
	// it can check from two squares.
	GoldCheck Diagram = `
  9   8   7   6   5   4   3   2   1  
+------------------------------------+
| ..  ..  ..  .. v玉  ..  ..  ..  .. |a
| ..  ..  ..  ..  ..  ..  ..  ..  .. |b
| ..  ..  ..  ..  ..  金  ..  ..  .. |c
| ..  ..  ..  ..  ..  ..  ..  ..  .. |d
| ..  ..  ..  ..  ..  ..  ..  ..  .. |e
| ..  ..  ..  ..  ..  ..  ..  ..  .. |f
| ..  ..  ..  ..  ..  ..  ..  ..  .. |g
| ..  ..  ..  ..  ..  ..  ..  ..  .. |h
| ..  ..  ..  ..  ..  ..  ..  ..  .. |i
+------------------------------------+
first hand: -
second hand: -
`
	// LanceCheck has a lance on the far rank of the king's neighbouring file.
	LanceCheck Diagram = `
  9   8   7   6   5   4   3   2   1  
+------------------------------------+
| ..  ..  ..  ..  ..  ..  ..  ..  .. |a
| .. v玉  ..  ..  ..  ..  ..  ..  .. |b
| ..  ..  ..  ..  ..  ..  ..  ..  .. |c
| ..  ..  ..  ..  ..  ..  ..  ..  .. |d
| ..  ..  ..  ..  ..  ..  ..  ..  .. |e
| ..  ..  ..  ..  ..  ..  ..  ..  .. |f
| ..  ..  ..  ..  ..  ..  ..  ..  .. |g
| ..  ..  ..  ..  ..  ..  ..  ..  .. |h
| 香  ..  ..  ..  ..  ..  ..  ..  .. |i
+------------------------------------+
first hand: -
second hand: -
`
	// BishopCheck has a bishop on the king's file, six ranks below it.
	BishopCheck Diagram = `
  9   8   7   6   5   4   3   2   1  
+------------------------------------+
| ..  ..  ..  ..  ..  ..  ..  ..  .. |a
| ..  ..  ..  ..  ..  ..  ..  ..  .. |b
| ..  .. v玉  ..  ..  ..  ..  ..  .. |c
| ..  ..  ..  ..  ..  ..  ..  ..  .. |d
| ..  ..  ..  ..  ..  ..  ..  ..  .. |e
| ..  ..  ..  ..  ..  ..  ..  ..  .. |f
| ..  ..  ..  ..  ..  ..  ..  ..  .. |g
| ..  ..  ..  ..  ..  ..  ..  ..  .. |h
| ..  ..  角  ..  ..  ..  ..  ..  .. |i
+------------------------------------+
first hand: -
second hand: -
`
	// RookSilverMate3 is mate in three: the rook drops down with promotion,
	// the king steps to the edge and the dragon follows.
	RookSilverMate3 Diagram = `
  9   8   7   6   5   4   3   2   1  
+------------------------------------+
| ..  飛  ..  ..  ..  ..  ..  ..  .. |a
| ..  ..  ..  ..  ..  ..  ..  ..  .. |b
| ..  ..  ..  ..  ..  ..  ..  ..  .. |c
| ..  ..  ..  ..  ..  ..  ..  ..  .. |d
| ..  ..  ..  ..  ..  ..  ..  ..  .. |e
| ..  ..  ..  ..  ..  ..  ..  ..  .. |f
| ..  ..  ..  ..  ..  ..  ..  ..  .. |g
|v玉  ..  銀  ..  ..  ..  ..  ..  .. |h
| ..  ..  ..  ..  ..  ..  ..  ..  .. |i
+------------------------------------+
first hand: -
second hand: -
`
	// RookKnightNoMate is RookSilverMate3 with a knight instead of the
	// silver. There is no mate.
	RookKnightNoMate Diagram = `
  9   8   7   6   5   4   3   2   1  
+------------------------------------+
| ..  飛  ..  ..  ..  ..  ..  ..  .. |a
| ..  ..  ..  ..  ..  ..  ..  ..  .. |b
| ..  ..  ..  ..  ..  ..  ..  ..  .. |c
| ..  ..  ..  ..  ..  ..  ..  ..  .. |d
| ..  ..  ..  ..  ..  ..  ..  ..  .. |e
| ..  ..  ..  ..  ..  ..  ..  ..  .. |f
| ..  ..  ..  ..  ..  ..  ..  ..  .. |g
|v玉  ..  桂  ..  ..  ..  ..  ..  .. |h
| ..  ..  ..  ..  ..  ..  ..  ..  .. |i
+------------------------------------+
first hand: -
second hand: -
`
	// KnightMate1: the king is boxed in by its own pieces and a knight jump
	// mates.
	KnightMate1 Diagram = `
  9   8   7   6   5   4   3   2   1  
+------------------------------------+
| ..  ..  .. v歩 v玉 v歩  ..  ..  .. |a
| ..  ..  .. v桂 v桂 v桂  ..  ..  .. |b
| ..  ..  ..  ..  ..  ..  ..  ..  .. |c
| ..  ..  ..  ..  ..  ..  ..  ..  .. |d
| ..  ..  ..  ..  ..  ..  桂  ..  .. |e
| ..  ..  ..  ..  ..  ..  ..  ..  .. |f
| ..  ..  ..  ..  ..  ..  ..  ..  .. |g
| ..  ..  ..  ..  ..  ..  ..  ..  .. |h
| ..  ..  ..  ..  ..  ..  ..  ..  .. |i
+------------------------------------+
first hand: -
second hand: -
`
	// TwoGoldsMate3 is a corner mate in three with two golds.
	TwoGoldsMate3 Diagram = `
  9   8   7   6   5   4   3   2   1  
+------------------------------------+
| ..  ..  ..  ..  ..  ..  .. v玉  .. |a
| ..  ..  ..  ..  ..  金  ..  ..  .. |b
| ..  ..  ..  ..  ..  ..  ..  金  .. |c
| ..  ..  ..  ..  ..  ..  ..  ..  .. |d
| ..  ..  ..  ..  ..  ..  ..  ..  .. |e
| ..  ..  ..  ..  ..  ..  ..  ..  .. |f
| ..  ..  ..  ..  ..  ..  ..  ..  .. |g
| ..  ..  ..  ..  ..  ..  ..  ..  .. |h
| ..  ..  ..  ..  ..  ..  ..  ..  .. |i
+------------------------------------+
first hand: -
second hand: -
`
	// HeadGoldMate1 is the textbook gold drop on the king's head, backed by
	// a pawn.
	HeadGoldMate1 Diagram = `
  9   8   7   6   5   4   3   2   1  
+------------------------------------+
| ..  ..  ..  .. v玉  ..  ..  ..  .. |a
| ..  ..  ..  ..  ..  ..  ..  ..  .. |b
| ..  ..  ..  ..  歩  ..  ..  ..  .. |c
| ..  ..  ..  ..  ..  ..  ..  ..  .. |d
| ..  ..  ..  ..  ..  ..  ..  ..  .. |e
| ..  ..  ..  ..  ..  ..  ..  ..  .. |f
| ..  ..  ..  ..  ..  ..  ..  ..  .. |g
| ..  ..  ..  ..  ..  ..  ..  ..  .. |h
| ..  ..  ..  ..  ..  ..  ..  ..  .. |i
+------------------------------------+
first hand: 金
second hand: -
`
)

// Load builds the board of a sample diagram. It panics on a malformed
// diagram, since these are fixed test inputs.
func Load(d Diagram) *Board {
	b, err := FromDisplayText(string(d))
	if err != nil {
		panic(err)
	}
	return b
}
