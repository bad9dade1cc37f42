// Package sfen reads and writes positions in SFEN, the position notation of
// the USI protocol. Upper-case letters are first player (attacker) pieces
// and lower-case letters are second player pieces.
package sfen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/tsume/board"
	"github.com/domino14/tsume/geom"
	"github.com/domino14/tsume/piece"
)

var (
	ErrMalformed = errors.New("malformed sfen")
	// ErrNoKing is returned for positions without a second player king,
	// which cannot be solved.
	ErrNoKing = errors.New("sfen has no second player king")
)

// handOrder is the order pieces in hand are written in.
var handOrder = []piece.Piece{
	piece.Rook, piece.Bishop, piece.Gold, piece.Silver, piece.Knight, piece.Lance, piece.Pawn,
}

// Parse returns a board from an SFEN string: board, side to move, hands and
// an optional move number. The side to move is checked but not kept; the
// first player always moves first in a mate problem.
func Parse(s string) (*board.Board, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "sfen "))
	fields := strings.Fields(s)
	if len(fields) < 3 || len(fields) > 4 {
		return nil, fmt.Errorf("%w: must have 3 or 4 space-separated fields", ErrMalformed)
	}
	if fields[1] != "b" && fields[1] != "w" {
		return nil, fmt.Errorf("%w: bad side to move %q", ErrMalformed, fields[1])
	}
	if len(fields) == 4 {
		if _, err := strconv.Atoi(fields[3]); err != nil {
			return nil, fmt.Errorf("%w: bad move number %q", ErrMalformed, fields[3])
		}
	}
	b := board.New()
	if err := parseBoard(fields[0], b); err != nil {
		return nil, err
	}
	if err := parseHands(fields[2], b); err != nil {
		return nil, err
	}
	if !b.HasSecondKing() {
		return nil, ErrNoKing
	}
	return b, nil
}

func parseBoard(s string, b *board.Board) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != geom.BoardSize {
		return fmt.Errorf("%w: %d ranks", ErrMalformed, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		promoted := false
		for _, r := range rank {
			switch {
			case r >= '1' && r <= '9':
				if promoted {
					return fmt.Errorf("%w: dangling promotion marker in rank %d", ErrMalformed, row+1)
				}
				col += int(r - '0')
				continue
			case r == '+':
				promoted = true
				continue
			}
			p, ok := piece.ParseLetter(toUpper(r))
			if !ok {
				return fmt.Errorf("%w: unknown piece %q", ErrMalformed, r)
			}
			if promoted {
				if !p.HasPromotion() {
					return fmt.Errorf("%w: %q cannot be promoted", ErrMalformed, r)
				}
				p = p.Promote()
				promoted = false
			}
			if col >= geom.BoardSize {
				return fmt.Errorf("%w: too many files in rank %d", ErrMalformed, row+1)
			}
			if isLower(r) {
				b.SetSidedPiece(geom.P(row, col), p.AsSecond())
			} else {
				b.SetSidedPiece(geom.P(row, col), p.AsFirst())
			}
			col++
		}
		if promoted || col != geom.BoardSize {
			return fmt.Errorf("%w: rank %d does not have 9 files", ErrMalformed, row+1)
		}
	}
	return nil
}

func parseHands(s string, b *board.Board) error {
	if s == "-" {
		return nil
	}
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count = count*10 + int(r-'0')
			if count > board.MaxHand {
				return fmt.Errorf("%w: hand count too large", ErrMalformed)
			}
			continue
		}
		if count == 0 {
			count = 1
		}
		p, ok := piece.ParseLetter(toUpper(r))
		if !ok || p == piece.King {
			return fmt.Errorf("%w: unknown hand piece %q", ErrMalformed, r)
		}
		side := piece.First
		if isLower(r) {
			side = piece.Second
		}
		n := b.Hand(side, p) + count
		if n > board.MaxHand {
			return fmt.Errorf("%w: hand count too large", ErrMalformed)
		}
		b.SetHand(side, p, n)
		count = 0
	}
	if count != 0 {
		return fmt.Errorf("%w: trailing hand count", ErrMalformed)
	}
	return nil
}

// Format writes b as SFEN with the first player to move and move number 1.
func Format(b *board.Board) string {
	rows := make([]string, geom.BoardSize)
	for row := range rows {
		var sb strings.Builder
		empty := 0
		for col := 0; col < geom.BoardSize; col++ {
			sp := b.SidedPiece(geom.P(row, col))
			if sp.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(sp.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		rows[row] = sb.String()
	}
	return fmt.Sprintf("%s b %s 1", strings.Join(rows, "/"), formatHands(b))
}

func formatHands(b *board.Board) string {
	var sb strings.Builder
	for _, side := range []piece.Side{piece.First, piece.Second} {
		for _, p := range handOrder {
			n := b.Hand(side, p)
			if n == 0 {
				continue
			}
			if n > 1 {
				sb.WriteString(strconv.Itoa(n))
			}
			sb.WriteString(p.As(side).String())
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func toUpper(r rune) rune {
	if isLower(r) {
		return r - 'a' + 'A'
	}
	return r
}
