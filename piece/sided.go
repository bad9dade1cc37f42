package piece

// Side is one of the two players. The first player is the attacker in a
// mate problem and moves toward row 0.
type Side uint8

const (
	First Side = iota
	Second
)

func (s Side) Opponent() Side {
	return 1 - s
}

func (s Side) String() string {
	if s == First {
		return "first"
	}
	return "second"
}

// SidedPiece packs identity and owner into one signed byte. First-player
// codes equal the identity (0..15); second-player codes are the bitwise
// complement of the first-player code (-1..-16).
type SidedPiece int8

// Empty marks a vacant cell. It is outside both code ranges.
const Empty SidedPiece = 16

// SecondKing is the piece a mate problem is solved against.
var SecondKing = King.AsSecond()

func (sp SidedPiece) Piece() Piece {
	if sp >= 0 {
		return Piece(sp)
	}
	return Piece(^sp)
}

// Promote keeps the side and promotes the identity.
func (sp SidedPiece) Promote() SidedPiece {
	if sp >= 0 {
		return sp.Piece().Promote().AsFirst()
	}
	return sp.Piece().Promote().AsSecond()
}

func (sp SidedPiece) IsEmpty() bool {
	return sp == Empty
}

func (sp SidedPiece) IsFirst() bool {
	return 0 <= sp && sp < NumIdentities
}

func (sp SidedPiece) IsSecond() bool {
	return sp < 0
}

// Side panics on an empty cell.
func (sp SidedPiece) Side() Side {
	switch {
	case sp.IsFirst():
		return First
	case sp.IsSecond():
		return Second
	}
	panic("empty cell has no side")
}

// BelongsTo reports whether the cell holds a piece of side s.
func (sp SidedPiece) BelongsTo(s Side) bool {
	if s == First {
		return sp.IsFirst()
	}
	return sp.IsSecond()
}

// String renders the SFEN form: upper case for the first player, lower
// case for the second, "+" for promoted pieces.
func (sp SidedPiece) String() string {
	if sp.IsEmpty() {
		return "."
	}
	l := sp.Piece().Letter()
	if sp.IsSecond() {
		b := []byte(l)
		b[len(b)-1] += 'a' - 'A'
		return string(b)
	}
	return l
}
