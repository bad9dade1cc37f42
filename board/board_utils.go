package board

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/domino14/tsume/geom"
	"github.com/domino14/tsume/piece"
)

var ErrBadDiagram = errors.New("bad board diagram")

var boardPlaintextRegex = regexp.MustCompile(`\|(.+)\|`)
var handRegex = regexp.MustCompile(`(?m)^(first|second) hand:(.*)$`)

// handOrder is the conventional order pieces in hand are listed in.
var handOrder = []piece.Piece{
	piece.Rook, piece.Bishop, piece.Gold, piece.Silver, piece.Knight, piece.Lance, piece.Pawn,
}

func cellText(sp piece.SidedPiece) string {
	switch {
	case sp.IsEmpty():
		return " .. "
	case sp.IsSecond():
		return "v" + string(sp.Piece().Name()) + " "
	}
	return " " + string(sp.Piece().Name()) + " "
}

// ToDisplayText draws the board with file numbers on top and rank letters
// on the right, followed by both hands. Glyphs are double width, so every
// cell takes four terminal columns.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString(" ")
	for c := 0; c < geom.BoardSize; c++ {
		fmt.Fprintf(&sb, " %d  ", geom.BoardSize-c)
	}
	sb.WriteString("\n")
	border := "+" + strings.Repeat("-", geom.BoardSize*4) + "+\n"
	sb.WriteString(border)
	for r := 0; r < geom.BoardSize; r++ {
		sb.WriteString("|")
		for c := 0; c < geom.BoardSize; c++ {
			sb.WriteString(cellText(b.SidedPiece(geom.P(r, c))))
		}
		fmt.Fprintf(&sb, "|%c\n", 'a'+r)
	}
	sb.WriteString(border)
	sb.WriteString("first hand: " + b.handText(piece.First) + "\n")
	sb.WriteString("second hand: " + b.handText(piece.Second) + "\n")
	return sb.String()
}

func (b *Board) String() string {
	return b.ToDisplayText()
}

func (b *Board) handText(side piece.Side) string {
	var parts []string
	for _, p := range handOrder {
		n := b.Hand(side, p)
		switch {
		case n == 1:
			parts = append(parts, string(p.Name()))
		case n > 1:
			parts = append(parts, fmt.Sprintf("%c%d", p.Name(), n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// FromDisplayText is the inverse of ToDisplayText. Only the nine `|...|`
// rows and the hand lines are read; everything else is ignored.
func FromDisplayText(text string) (*Board, error) {
	rows := boardPlaintextRegex.FindAllStringSubmatch(text, -1)
	if len(rows) != geom.BoardSize {
		return nil, fmt.Errorf("%w: found %d rows", ErrBadDiagram, len(rows))
	}
	b := New()
	for r, row := range rows {
		cells, err := parseRow(row[1])
		if err != nil {
			return nil, fmt.Errorf("%w: row %c: %v", ErrBadDiagram, 'a'+r, err)
		}
		for c, sp := range cells {
			b.SetSidedPiece(geom.P(r, c), sp)
		}
	}
	for _, m := range handRegex.FindAllStringSubmatch(text, -1) {
		side := piece.First
		if m[1] == "second" {
			side = piece.Second
		}
		if err := b.parseHand(side, m[2]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func parseRow(s string) ([]piece.SidedPiece, error) {
	var cells []piece.SidedPiece
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		i += w
		switch r {
		case ' ':
			continue
		case '.':
			if i < len(s) && s[i] == '.' {
				i++
			}
			cells = append(cells, piece.Empty)
			continue
		}
		second := false
		if r == 'v' {
			second = true
			r, w = utf8.DecodeRuneInString(s[i:])
			i += w
		}
		p, ok := piece.ParseName(r)
		if !ok {
			return nil, fmt.Errorf("unknown glyph %q", r)
		}
		if second {
			cells = append(cells, p.AsSecond())
		} else {
			cells = append(cells, p.AsFirst())
		}
	}
	if len(cells) != geom.BoardSize {
		return nil, fmt.Errorf("%d cells", len(cells))
	}
	return cells, nil
}

func (b *Board) parseHand(side piece.Side, s string) error {
	for _, tok := range strings.Fields(s) {
		if tok == "-" {
			continue
		}
		r, w := utf8.DecodeRuneInString(tok)
		p, ok := piece.ParseName(r)
		if !ok || p >= piece.NumHandKinds {
			return fmt.Errorf("%w: bad hand piece %q", ErrBadDiagram, tok)
		}
		n := 1
		if w < len(tok) {
			var err error
			n, err = strconv.Atoi(tok[w:])
			if err != nil || n < 0 || n > MaxHand {
				return fmt.Errorf("%w: bad hand count %q", ErrBadDiagram, tok)
			}
		}
		b.SetHand(side, p, n)
	}
	return nil
}
