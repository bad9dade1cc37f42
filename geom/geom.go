// Package geom holds board coordinates and displacement vectors.
//
// Pos{Row, Col} addresses a cell with row 0 at the top of the board (the
// second player's back rank) and column 0 at the left (file 9 in shogi
// notation). Dir is an offset between positions; move tables are written
// from the first player's point of view and flipped for the second player.
package geom

import "fmt"

const (
	// BoardSize is the number of rows and columns.
	BoardSize = 9
	// BoardCells is the total number of squares.
	BoardCells = BoardSize * BoardSize
)

type Pos struct {
	Row int
	Col int
}

type Dir struct {
	DRow int
	DCol int
}

// Zero is the sentinel terminating a step table.
var Zero = Dir{}

func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

func D(drow, dcol int) Dir {
	return Dir{DRow: drow, DCol: dcol}
}

// PosFromIndex is the inverse of Pos.Index.
func PosFromIndex(idx int) Pos {
	return Pos{Row: idx / BoardSize, Col: idx % BoardSize}
}

func (p Pos) Add(d Dir) Pos {
	return Pos{Row: p.Row + d.DRow, Col: p.Col + d.DCol}
}

func (p Pos) Sub(d Dir) Pos {
	return Pos{Row: p.Row - d.DRow, Col: p.Col - d.DCol}
}

// Diff returns the displacement that takes q to p.
func (p Pos) Diff(q Pos) Dir {
	return Dir{DRow: p.Row - q.Row, DCol: p.Col - q.Col}
}

// Inside reports whether the position lies on the 9x9 board.
func (p Pos) Inside() bool {
	return 0 <= p.Row && p.Row < BoardSize && 0 <= p.Col && p.Col < BoardSize
}

// Index is the row-major cell index. It panics for positions off the board.
func (p Pos) Index() int {
	if !p.Inside() {
		panic(fmt.Sprintf("position %v is outside the board", p))
	}
	return p.Row*BoardSize + p.Col
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Flip mirrors the offset vertically, turning a first-player step into the
// corresponding second-player step.
func (d Dir) Flip() Dir {
	return Dir{DRow: -d.DRow, DCol: d.DCol}
}

func (d Dir) FlipIf(cond bool) Dir {
	if cond {
		return d.Flip()
	}
	return d
}

func (d Dir) Add(e Dir) Dir {
	return Dir{DRow: d.DRow + e.DRow, DCol: d.DCol + e.DCol}
}

func (d Dir) Sub(e Dir) Dir {
	return Dir{DRow: d.DRow - e.DRow, DCol: d.DCol - e.DCol}
}

func (d Dir) Mul(n int) Dir {
	return Dir{DRow: d.DRow * n, DCol: d.DCol * n}
}

func (d Dir) IsZero() bool {
	return d == Zero
}
