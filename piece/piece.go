// Package piece is the static catalog of shogi pieces: their identities,
// step tables, sliding directions and promotion rules.
package piece

import (
	"fmt"

	"github.com/domino14/tsume/geom"
)

// Piece is a side-less piece identity. The eight base kinds are numbered
// 0 through 7; the promoted form of a base kind k is k+8.
type Piece uint8

const (
	Pawn Piece = iota
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	PromotedPawn
	PromotedLance
	PromotedKnight
	PromotedSilver
	_ // gold does not promote
	PromotedBishop
	PromotedRook
	_ // king does not promote
)

const (
	// NumBaseKinds is the number of unpromoted identities.
	NumBaseKinds = 8
	// NumIdentities covers base and promoted identities.
	NumIdentities = NumBaseKinds * 2
	// NumHandKinds is the number of kinds that can be held in hand (king excluded).
	NumHandKinds = 7
	// MaxSteps is the length of a step table row.
	MaxSteps = 8

	promotionOffset = 8
)

// FullSet is how many pieces of each hand kind a complete set contains.
var FullSet = [NumHandKinds]int{18, 4, 4, 4, 4, 2, 2}

var names = [NumIdentities]rune{
	'歩', '香', '桂', '銀', '金', '角', '飛', '玉',
	'と', '杏', '圭', '全', ' ', '馬', '龍', ' ',
}

var letters = [NumBaseKinds]byte{'P', 'L', 'N', 'S', 'G', 'B', 'R', 'K'}

var goldSteps = [MaxSteps]geom.Dir{
	geom.D(-1, -1), geom.D(-1, 0), geom.D(-1, 1), geom.D(0, -1), geom.D(0, 1), geom.D(1, 0),
}

// Steps holds the non-ranging moves of every identity from the first
// player's point of view. Each row is terminated by geom.Zero.
var Steps = [NumIdentities][MaxSteps]geom.Dir{
	Pawn:   {geom.D(-1, 0)},
	Lance:  {},
	Knight: {geom.D(-2, -1), geom.D(-2, 1)},
	Silver: {geom.D(-1, -1), geom.D(-1, 0), geom.D(-1, 1), geom.D(1, -1), geom.D(1, 1)},
	Gold:   goldSteps,
	Bishop: {},
	Rook:   {},
	King: {
		geom.D(-1, -1), geom.D(-1, 0), geom.D(-1, 1), geom.D(0, -1),
		geom.D(0, 1), geom.D(1, -1), geom.D(1, 0), geom.D(1, 1),
	},
	PromotedPawn:   goldSteps,
	PromotedLance:  goldSteps,
	PromotedKnight: goldSteps,
	PromotedSilver: goldSteps,
	Gold + promotionOffset: {},
	PromotedBishop:         {geom.D(-1, 0), geom.D(0, -1), geom.D(0, 1), geom.D(1, 0)},
	PromotedRook:           {geom.D(-1, -1), geom.D(-1, 1), geom.D(1, -1), geom.D(1, 1)},
	King + promotionOffset: {},
}

var (
	lanceSlides    = []geom.Dir{geom.D(-1, 0)}
	diagonalSlides = []geom.Dir{geom.D(-1, -1), geom.D(-1, 1), geom.D(1, -1), geom.D(1, 1)}
	straightSlides = []geom.Dir{geom.D(-1, 0), geom.D(0, -1), geom.D(0, 1), geom.D(1, 0)}
)

// Steps returns the step offsets of p up to the zero sentinel.
func (p Piece) Steps() []geom.Dir {
	row := &Steps[p]
	for i, d := range row {
		if d.IsZero() {
			return row[:i]
		}
	}
	return row[:]
}

// Slides returns the ranging directions of p, first-player orientation.
// Only an unpromoted lance ranges forward; bishops and rooks range whether
// promoted or not.
func (p Piece) Slides() []geom.Dir {
	switch {
	case p == Lance:
		return lanceSlides
	case p.Capture() == Bishop:
		return diagonalSlides
	case p.Capture() == Rook:
		return straightSlides
	}
	return nil
}

func (p Piece) HasPromotion() bool {
	return p != Gold && p < King
}

// Promote returns the promoted identity. Promoting a piece that cannot
// promote is a programming error.
func (p Piece) Promote() Piece {
	if !p.HasPromotion() {
		panic(fmt.Sprintf("piece %d cannot promote", p))
	}
	return p + promotionOffset
}

// Capture strips promotion, yielding the base kind.
func (p Piece) Capture() Piece {
	return p & (NumBaseKinds - 1)
}

func (p Piece) IsPromoted() bool {
	return p >= promotionOffset
}

func (p Piece) AsFirst() SidedPiece {
	return SidedPiece(p)
}

func (p Piece) AsSecond() SidedPiece {
	return SidedPiece(^int8(p))
}

// As tags p with the given side.
func (p Piece) As(s Side) SidedPiece {
	if s == Second {
		return p.AsSecond()
	}
	return p.AsFirst()
}

// Name is the kanji glyph used on diagrams.
func (p Piece) Name() rune {
	return names[p]
}

// Letter is the SFEN/USI letter of the base kind, upper case.
func (p Piece) Letter() string {
	l := string(letters[p.Capture()])
	if p.IsPromoted() {
		return "+" + l
	}
	return l
}

func (p Piece) String() string {
	return p.Letter()
}

// ParseLetter maps an upper-case SFEN letter to its base kind.
func ParseLetter(r rune) (Piece, bool) {
	for i, l := range letters {
		if rune(l) == r {
			return Piece(i), true
		}
	}
	return 0, false
}

// ParseName maps a kanji glyph to its identity. 王 and 竜 are accepted as
// alternate spellings of the king and the dragon.
func ParseName(r rune) (Piece, bool) {
	switch r {
	case '王':
		return King, true
	case '竜':
		return PromotedRook, true
	case ' ':
		return 0, false
	}
	for i, n := range names {
		if n == r {
			return Piece(i), true
		}
	}
	return 0, false
}
