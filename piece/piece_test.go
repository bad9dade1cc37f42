package piece

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tsume/geom"
)

func TestPromotion(t *testing.T) {
	is := is.New(t)
	for p := Pawn; p <= King; p++ {
		is.Equal(p.HasPromotion(), p != Gold && p != King)
	}
	is.Equal(Pawn.Promote(), PromotedPawn)
	is.Equal(Bishop.Promote(), PromotedBishop)
	is.Equal(Rook.Promote(), PromotedRook)
	is.Equal(PromotedRook.Capture(), Rook)
	is.Equal(PromotedSilver.Capture(), Silver)
	is.True(!PromotedPawn.HasPromotion())
}

func TestPromoteGoldPanics(t *testing.T) {
	is := is.New(t)
	defer func() {
		is.True(recover() != nil)
	}()
	Gold.Promote()
}

func TestSteps(t *testing.T) {
	is := is.New(t)
	is.Equal(len(Pawn.Steps()), 1)
	is.Equal(len(Lance.Steps()), 0)
	is.Equal(len(Knight.Steps()), 2)
	is.Equal(len(Silver.Steps()), 5)
	is.Equal(len(Gold.Steps()), 6)
	is.Equal(len(King.Steps()), 8)
	is.Equal(len(PromotedKnight.Steps()), 6)
	is.Equal(len(PromotedBishop.Steps()), 4)
	is.Equal(len(PromotedRook.Steps()), 4)
	is.Equal(len(Piece(12).Steps()), 0)
	is.Equal(Pawn.Steps()[0], geom.D(-1, 0))
}

func TestSlides(t *testing.T) {
	is := is.New(t)
	is.Equal(Lance.Slides(), []geom.Dir{geom.D(-1, 0)})
	is.Equal(len(Bishop.Slides()), 4)
	is.Equal(len(PromotedBishop.Slides()), 4)
	is.Equal(len(PromotedRook.Slides()), 4)
	is.Equal(len(PromotedLance.Slides()), 0)
	is.Equal(len(Gold.Slides()), 0)
}

func TestSidedEncoding(t *testing.T) {
	is := is.New(t)
	for p := Piece(0); p < NumIdentities; p++ {
		f, s := p.AsFirst(), p.AsSecond()
		is.True(f.IsFirst())
		is.True(!f.IsSecond())
		is.True(s.IsSecond())
		is.True(!s.IsFirst())
		is.Equal(f.Piece(), p)
		is.Equal(s.Piece(), p)
		is.True(f != Empty && s != Empty)
	}
	is.Equal(King.AsSecond(), SidedPiece(-8))
	is.Equal(SecondKing.Side(), Second)
	is.Equal(Silver.AsSecond().Promote(), PromotedSilver.AsSecond())
	is.Equal(Silver.AsFirst().Promote(), PromotedSilver.AsFirst())
	is.True(!Empty.IsFirst() && !Empty.IsSecond() && Empty.IsEmpty())
}

func TestSidedString(t *testing.T) {
	is := is.New(t)
	is.Equal(Rook.AsFirst().String(), "R")
	is.Equal(PromotedRook.AsSecond().String(), "+r")
	is.Equal(Pawn.AsSecond().String(), "p")
	is.Equal(Empty.String(), ".")
	p, ok := ParseLetter('N')
	is.True(ok)
	is.Equal(p, Knight)
	_, ok = ParseLetter('X')
	is.True(!ok)
}
