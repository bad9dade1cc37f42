package move

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/tsume/geom"
	"github.com/domino14/tsume/piece"
)

// MoveType is a type of move: a relocation with or without promotion, or
// a drop from hand.
type MoveType uint8

const (
	MoveTypeNoPromotion MoveType = iota
	MoveTypePromotion
	MoveTypeDrop
)

var (
	ErrBadSquare = errors.New("bad usi square")
	ErrBadMove   = errors.New("bad usi move")
)

// Move is a value type; two moves are the same move iff they compare equal
// with ==. Moves carry no captured-piece information.
type Move struct {
	action MoveType
	from   geom.Pos
	to     geom.Pos
	// piece is only set for drops.
	piece piece.SidedPiece
}

func NewNoPromotion(from, to geom.Pos) Move {
	return Move{action: MoveTypeNoPromotion, from: from, to: to, piece: piece.Empty}
}

func NewPromotion(from, to geom.Pos) Move {
	return Move{action: MoveTypePromotion, from: from, to: to, piece: piece.Empty}
}

// NewDrop places a side-tagged hand piece on to.
func NewDrop(to geom.Pos, p piece.SidedPiece) Move {
	return Move{action: MoveTypeDrop, to: to, piece: p}
}

func (m Move) Action() MoveType {
	return m.action
}

// From is meaningless for drops.
func (m Move) From() geom.Pos {
	return m.from
}

func (m Move) To() geom.Pos {
	return m.to
}

// Piece is the dropped piece, or piece.Empty for relocations.
func (m Move) Piece() piece.SidedPiece {
	return m.piece
}

func (m Move) IsDrop() bool {
	return m.action == MoveTypeDrop
}

// Equal lets go-cmp compare moves despite the unexported fields.
func (m Move) Equal(o Move) bool {
	return m == o
}

// ShortDescription renders the move in USI notation, e.g. 7g7f, 8h2b+, G*5b.
func (m Move) ShortDescription() string {
	switch m.action {
	case MoveTypeNoPromotion:
		return ToUSISquare(m.from) + ToUSISquare(m.to)
	case MoveTypePromotion:
		return ToUSISquare(m.from) + ToUSISquare(m.to) + "+"
	case MoveTypeDrop:
		return m.piece.Piece().Letter() + "*" + ToUSISquare(m.to)
	}
	return "UNHANDLED"
}

// String provides a string just for debugging purposes.
func (m Move) String() string {
	switch m.action {
	case MoveTypeNoPromotion:
		return fmt.Sprintf("<move %v -> %v>", m.from, m.to)
	case MoveTypePromotion:
		return fmt.Sprintf("<move %v -> %v promote>", m.from, m.to)
	case MoveTypeDrop:
		return fmt.Sprintf("<drop %v at %v>", m.piece, m.to)
	}
	return "<Unhandled move>"
}

// ToUSISquare converts a board position into USI square notation. Column 0
// is file 9 and row 0 is rank a.
func ToUSISquare(p geom.Pos) string {
	return fmt.Sprintf("%d%c", geom.BoardSize-p.Col, 'a'+p.Row)
}

// FromUSISquare is the inverse of ToUSISquare.
func FromUSISquare(sq string) (geom.Pos, error) {
	if len(sq) != 2 {
		return geom.Pos{}, fmt.Errorf("%w: %q", ErrBadSquare, sq)
	}
	file := int(sq[0] - '0')
	row := int(sq[1]) - 'a'
	p := geom.P(row, geom.BoardSize-file)
	if file < 1 || file > geom.BoardSize || !p.Inside() {
		return geom.Pos{}, fmt.Errorf("%w: %q", ErrBadSquare, sq)
	}
	return p, nil
}

// ParseUSI parses a USI move for the given side. The side is needed to tag
// the piece of a drop.
func ParseUSI(s string, side piece.Side) (Move, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "*") {
		parts := strings.SplitN(s, "*", 2)
		if len(parts[0]) != 1 {
			return Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
		}
		p, ok := piece.ParseLetter(rune(strings.ToUpper(parts[0])[0]))
		if !ok || p == piece.King {
			return Move{}, fmt.Errorf("%w: cannot drop %q", ErrBadMove, parts[0])
		}
		to, err := FromUSISquare(parts[1])
		if err != nil {
			return Move{}, err
		}
		return NewDrop(to, p.As(side)), nil
	}
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	from, err := FromUSISquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := FromUSISquare(s[2:4])
	if err != nil {
		return Move{}, err
	}
	if len(s) == 5 {
		if s[4] != '+' {
			return Move{}, fmt.Errorf("%w: bad promotion marker in %q", ErrBadMove, s)
		}
		return NewPromotion(from, to), nil
	}
	return NewNoPromotion(from, to), nil
}

// Sequence renders moves as a space-separated USI line.
func Sequence(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.ShortDescription()
	}
	return strings.Join(parts, " ")
}
