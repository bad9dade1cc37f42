package board

import (
	"fmt"

	"github.com/domino14/tsume/geom"
	"github.com/domino14/tsume/move"
	"github.com/domino14/tsume/piece"
	"github.com/domino14/tsume/zobrist"
)

// MaxHand is the largest count a hand slot holds.
const MaxHand = 127

// Board is a shogi position: 81 cells and a hand per side. It is a plain
// value; Copy returns a fully independent board.
type Board struct {
	cells [geom.BoardCells]piece.SidedPiece
	hands [2][piece.NumHandKinds]int8
}

// New returns an empty board with empty hands.
func New() *Board {
	b := &Board{}
	for i := range b.cells {
		b.cells[i] = piece.Empty
	}
	return b
}

func (b *Board) Copy() *Board {
	c := *b
	return &c
}

func (b *Board) Equals(o *Board) bool {
	return b.cells == o.cells && b.hands == o.hands
}

func (b *Board) IsInside(p geom.Pos) bool {
	return p.Inside()
}

func (b *Board) SidedPiece(p geom.Pos) piece.SidedPiece {
	return b.cells[p.Index()]
}

func (b *Board) SetSidedPiece(p geom.Pos, sp piece.SidedPiece) {
	b.cells[p.Index()] = sp
}

// Hand returns how many pieces of kind p the side holds. King is not a
// hand kind and panics, as does a promoted identity.
func (b *Board) Hand(side piece.Side, p piece.Piece) int {
	checkHandKind(p)
	return int(b.hands[side][p])
}

func (b *Board) SetHand(side piece.Side, p piece.Piece, n int) {
	checkHandKind(p)
	if n < 0 || n > MaxHand {
		panic(fmt.Sprintf("hand count %d out of range", n))
	}
	b.hands[side][p] = int8(n)
}

func checkHandKind(p piece.Piece) {
	if p >= piece.NumHandKinds {
		panic(fmt.Sprintf("%v is not a hand kind", p))
	}
}

// HasSecondKing reports whether the defending king is on the board.
func (b *Board) HasSecondKing() bool {
	for _, sp := range b.cells {
		if sp == piece.SecondKing {
			return true
		}
	}
	return false
}

// LocateSecondKing returns the position of the defending king. A board
// without one cannot be searched, so this panics.
func (b *Board) LocateSecondKing() geom.Pos {
	for i, sp := range b.cells {
		if sp == piece.SecondKing {
			return geom.PosFromIndex(i)
		}
	}
	panic("no second player king on the board")
}

// IsCheck reports whether the second player's king is attacked by a first
// player piece. Instead of generating every attacker move it looks outward
// from the king: once per identity for the step attackers, and along the
// nine ranging lines for lances, bishops and rooks.
func (b *Board) IsCheck() bool {
	k := b.LocateSecondKing()
	for id := piece.Piece(0); id < piece.NumIdentities; id++ {
		attacker := id.AsFirst()
		for _, st := range id.Steps() {
			q := k.Add(st.Flip())
			if q.Inside() && b.SidedPiece(q) == attacker {
				return true
			}
		}
	}
	for _, id := range []piece.Piece{piece.Lance, piece.Bishop, piece.Rook} {
		for _, d := range id.Slides() {
			sp := b.firstOccupied(k, d.Flip())
			if sp.IsFirst() && sp.Piece().Capture() == id {
				// a promoted lance no longer ranges
				if id == piece.Lance && sp.Piece().IsPromoted() {
					continue
				}
				return true
			}
		}
	}
	return false
}

// firstOccupied walks from p in direction d and returns the first non-empty
// cell, or piece.Empty when the edge is reached.
func (b *Board) firstOccupied(p geom.Pos, d geom.Dir) piece.SidedPiece {
	for q := p.Add(d); q.Inside(); q = q.Add(d) {
		if sp := b.SidedPiece(q); !sp.IsEmpty() {
			return sp
		}
	}
	return piece.Empty
}

// IsPromotionZone: the far three ranks, rows 0-2 for the first player and
// rows 6-8 for the second.
func IsPromotionZone(p geom.Pos, side piece.Side) bool {
	if side == piece.First {
		return p.Row <= 2
	}
	return p.Row >= geom.BoardSize-3
}

// HasFurtherMove reports whether an unpromoted p standing on dst could
// still move later. Pawns and lances on the last rank and knights on the
// last two ranks cannot, so they must promote.
func HasFurtherMove(p piece.Piece, dst geom.Pos, side piece.Side) bool {
	rank := dst.Row
	if side == piece.Second {
		rank = geom.BoardSize - 1 - rank
	}
	switch p {
	case piece.Pawn, piece.Lance:
		return rank > 0
	case piece.Knight:
		return rank > 1
	}
	return true
}

// EnumerateMoves lists the board moves of the piece at from: step moves
// first, then ranging moves. For every destination the promoting variant
// comes before the plain one. An empty cell yields nothing.
func (b *Board) EnumerateMoves(from geom.Pos) []move.Move {
	sp := b.SidedPiece(from)
	if sp.IsEmpty() {
		return nil
	}
	side := sp.Side()
	id := sp.Piece()
	second := side == piece.Second
	var moves []move.Move

	add := func(to geom.Pos) {
		if id.HasPromotion() && (IsPromotionZone(from, side) || IsPromotionZone(to, side)) {
			moves = append(moves, move.NewPromotion(from, to))
		}
		if HasFurtherMove(id, to, side) {
			moves = append(moves, move.NewNoPromotion(from, to))
		}
	}

	for _, st := range id.Steps() {
		to := from.Add(st.FlipIf(second))
		if !to.Inside() || b.SidedPiece(to).BelongsTo(side) {
			continue
		}
		add(to)
	}
	for _, d := range id.Slides() {
		d = d.FlipIf(second)
		for to := from.Add(d); to.Inside(); to = to.Add(d) {
			dst := b.SidedPiece(to)
			if dst.BelongsTo(side) {
				break
			}
			add(to)
			if !dst.IsEmpty() {
				break
			}
		}
	}
	return moves
}

// ApplyMove mutates the board. A relocation simply overwrites the
// destination; captured pieces are not credited to any hand.
func (b *Board) ApplyMove(m move.Move) {
	switch m.Action() {
	case move.MoveTypeNoPromotion, move.MoveTypePromotion:
		sp := b.SidedPiece(m.From())
		if sp.IsEmpty() {
			panic(fmt.Sprintf("no piece to move at %v", m.From()))
		}
		if m.Action() == move.MoveTypePromotion {
			sp = sp.Promote()
		}
		b.SetSidedPiece(m.To(), sp)
		b.SetSidedPiece(m.From(), piece.Empty)
	case move.MoveTypeDrop:
		sp := m.Piece()
		side, id := sp.Side(), sp.Piece()
		n := b.Hand(side, id)
		if n == 0 {
			panic(fmt.Sprintf("no %v in %v hand to drop", id, side))
		}
		b.hands[side][id] = int8(n - 1)
		b.SetSidedPiece(m.To(), sp)
	default:
		panic(fmt.Sprintf("unhandled move type %d", m.Action()))
	}
}

// movesGiving collects the board moves of side's pieces whose result
// satisfies keep.
func (b *Board) movesGiving(side piece.Side, keep func(*Board) bool) []move.Move {
	var out []move.Move
	for i, sp := range b.cells {
		if !sp.BelongsTo(side) {
			continue
		}
		for _, m := range b.EnumerateMoves(geom.PosFromIndex(i)) {
			nb := b.Copy()
			nb.ApplyMove(m)
			if keep(nb) {
				out = append(out, m)
			}
		}
	}
	return out
}

// EnumerateCheck lists every first player move that leaves the second
// player's king in check: board moves in cell order, then drops next to
// the king, then drops onto the open lines leading to it.
func (b *Board) EnumerateCheck() []move.Move {
	moves := b.movesGiving(piece.First, (*Board).IsCheck)

	k := b.LocateSecondKing()
	for id := piece.Piece(0); id < piece.NumHandKinds; id++ {
		if b.hands[piece.First][id] == 0 {
			continue
		}
		for _, st := range id.Steps() {
			q := k.Add(st.Flip())
			if q.Inside() && b.SidedPiece(q).IsEmpty() {
				moves = append(moves, move.NewDrop(q, id.AsFirst()))
			}
		}
	}
	for _, id := range []piece.Piece{piece.Lance, piece.Bishop, piece.Rook} {
		if b.hands[piece.First][id] == 0 {
			continue
		}
		for _, d := range id.Slides() {
			d = d.Flip()
			for q := k.Add(d); q.Inside() && b.SidedPiece(q).IsEmpty(); q = q.Add(d) {
				moves = append(moves, move.NewDrop(q, id.AsFirst()))
			}
		}
	}
	return moves
}

// EnumerateCheckAvoidance lists every second player board move after which
// the king is no longer in check. Drops are not considered.
func (b *Board) EnumerateCheckAvoidance() []move.Move {
	return b.movesGiving(piece.Second, func(nb *Board) bool { return !nb.IsCheck() })
}

func (b *Board) IsCheckmate() bool {
	return len(b.EnumerateCheckAvoidance()) == 0
}

// Hash is the zobrist hash of cells and hands.
func (b *Board) Hash() uint64 {
	return zobrist.Default.Hash(&b.cells, &b.hands)
}
