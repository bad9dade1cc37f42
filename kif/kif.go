// Package kif reads board diagrams (BOD) as found in KIF files and
// published tsume collections. Shift-JIS files are decoded transparently.
package kif

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/domino14/tsume/board"
	"github.com/domino14/tsume/geom"
	"github.com/domino14/tsume/piece"
)

var (
	ErrMalformed = errors.New("malformed kif diagram")
	// ErrNoKing is returned for diagrams without a second player king.
	ErrNoKing = errors.New("kif diagram has no second player king")
)

var boardRowRegex = regexp.MustCompile(`^\s*\|(.*)\|`)

// ParseFile reads a diagram from a file.
func ParseFile(path string) (*board.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse reads the nine board rows and the hand lines of a diagram. Both
// 先手/後手 and the handicap 下手/上手 hand lines are understood; the
// first player is 先手 (下手).
func Parse(data []byte) (*board.Board, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	b := board.New()
	row := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trim := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trim, "先手の持駒"), strings.HasPrefix(trim, "下手の持駒"):
			if err := parseHand(trim, piece.First, b); err != nil {
				return nil, err
			}
		case strings.HasPrefix(trim, "後手の持駒"), strings.HasPrefix(trim, "上手の持駒"):
			if err := parseHand(trim, piece.Second, b); err != nil {
				return nil, err
			}
		default:
			m := boardRowRegex.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if row >= geom.BoardSize {
				return nil, fmt.Errorf("%w: more than 9 rows", ErrMalformed)
			}
			cells, err := parseRow(m[1])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrMalformed, row+1, err)
			}
			for col, sp := range cells {
				b.SetSidedPiece(geom.P(row, col), sp)
			}
			row++
		}
	}
	if row != geom.BoardSize {
		return nil, fmt.Errorf("%w: found %d rows", ErrMalformed, row)
	}
	if !b.HasSecondKing() {
		return nil, ErrNoKing
	}
	return b, nil
}

func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	r := transform.NewReader(bytes.NewReader(data), japanese.ShiftJIS.NewDecoder())
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(decoded) {
		return "", errors.New("failed to decode Shift-JIS KIF")
	}
	return string(decoded), nil
}

func parseRow(s string) ([]piece.SidedPiece, error) {
	runes := []rune(s)
	var cells []piece.SidedPiece
	for i := 0; i < len(runes); {
		r := runes[i]
		switch r {
		case ' ', '\t', '　':
			i++
			continue
		case '・':
			cells = append(cells, piece.Empty)
			i++
			continue
		}
		second := false
		if r == 'v' || r == 'V' {
			second = true
			i++
			if i >= len(runes) {
				return nil, errors.New("dangling gote marker")
			}
		}
		p, n, err := parsePiece(runes[i:])
		if err != nil {
			return nil, err
		}
		i += n
		if second {
			cells = append(cells, p.AsSecond())
		} else {
			cells = append(cells, p.AsFirst())
		}
	}
	if len(cells) != geom.BoardSize {
		return nil, fmt.Errorf("expected 9 cells, got %d", len(cells))
	}
	return cells, nil
}

// parsePiece reads one piece glyph, or 成 followed by a base glyph, and
// returns how many runes it used.
func parsePiece(runes []rune) (piece.Piece, int, error) {
	if runes[0] == '成' {
		if len(runes) < 2 {
			return 0, 0, errors.New("missing promoted piece")
		}
		p, ok := piece.ParseName(runes[1])
		if !ok || !p.HasPromotion() {
			return 0, 0, fmt.Errorf("unknown promoted piece %c", runes[1])
		}
		return p.Promote(), 2, nil
	}
	p, ok := piece.ParseName(runes[0])
	if !ok {
		return 0, 0, fmt.Errorf("unknown piece %c", runes[0])
	}
	return p, 1, nil
}

func parseHand(line string, side piece.Side, b *board.Board) error {
	parts := strings.SplitN(line, "：", 2)
	if len(parts) != 2 {
		parts = strings.SplitN(line, ":", 2)
	}
	if len(parts) != 2 {
		return fmt.Errorf("%w: invalid hand line %q", ErrMalformed, line)
	}
	text := strings.TrimSpace(parts[1])
	if text == "なし" || text == "" {
		return nil
	}
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool { return r == ' ' || r == '　' }) {
		runes := []rune(tok)
		p, ok := piece.ParseName(runes[0])
		if !ok || p >= piece.NumHandKinds {
			return fmt.Errorf("%w: unknown hand piece %q", ErrMalformed, tok)
		}
		n := 1
		if len(runes) > 1 {
			var err error
			n, err = parseCount(runes[1:])
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
		n += b.Hand(side, p)
		if n > board.MaxHand {
			return fmt.Errorf("%w: too many %s in hand", ErrMalformed, p)
		}
		b.SetHand(side, p, n)
	}
	return nil
}

var kanjiDigits = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// parseCount reads arabic digits or a kanji numeral up to 99 (十八, 二十).
func parseCount(runes []rune) (int, error) {
	n := 0
	arabic := true
	for _, r := range runes {
		if r < '0' || r > '9' {
			arabic = false
			break
		}
		n = n*10 + int(r-'0')
		if n > board.MaxHand {
			return 0, fmt.Errorf("count %q too large", string(runes))
		}
	}
	if arabic {
		return n, nil
	}
	n = 0
	unit := 0
	for _, r := range runes {
		if r == '十' {
			if unit == 0 {
				unit = 1
			}
			n += unit * 10
			unit = 0
			continue
		}
		d, ok := kanjiDigits[r]
		if !ok {
			return 0, fmt.Errorf("bad count %q", string(runes))
		}
		unit = d
	}
	return n + unit, nil
}
