package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/tsume/geom"
	"github.com/domino14/tsume/piece"
)

const bignum = 1<<63 - 2

// numCodes covers every side-tagged code, -16 through 15.
const numCodes = 2 * piece.NumIdentities

// MaxHand is the largest hand count that hashes distinctly.
const MaxHand = 18

// generate a zobrist hash for a shogi position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable  [geom.BoardCells][numCodes]uint64
	handTable [2][piece.NumHandKinds][MaxHand + 1]uint64
}

// defaultSeed keeps hashes stable across runs so they can be stored.
var defaultSeed = []byte("tsume zobrist tables, version 1")

// Default is shared by every board.
var Default = New(defaultSeed)

// New builds tables from a 32-byte seed. Any seed length is accepted; it
// is padded or truncated.
func New(seed []byte) *Zobrist {
	z := &Zobrist{}
	z.Initialize(seed)
	return z
}

func (z *Zobrist) Initialize(seed []byte) {
	var s [32]byte
	copy(s[:], seed)
	rng := frand.NewCustom(s[:], 1024, 12)
	for i := range z.posTable {
		for j := range z.posTable[i] {
			z.posTable[i][j] = rng.Uint64n(bignum) + 1
		}
	}
	for side := range z.handTable {
		for k := range z.handTable[side] {
			for c := range z.handTable[side][k] {
				z.handTable[side][k][c] = rng.Uint64n(bignum) + 1
			}
		}
	}
}

func code(sp piece.SidedPiece) int {
	return int(sp) + piece.NumIdentities
}

// Hash hashes the cells and both hands. Side to move is not hashed: a mate
// problem always starts with the first player to move.
func (z *Zobrist) Hash(cells *[geom.BoardCells]piece.SidedPiece,
	hands *[2][piece.NumHandKinds]int8) uint64 {

	key := uint64(0)
	for i, sp := range cells {
		if sp.IsEmpty() {
			continue
		}
		key ^= z.posTable[i][code(sp)]
	}
	for side := range hands {
		for k, ct := range hands[side] {
			key ^= z.handTable[side][k][clamp(ct)]
		}
	}
	return key
}

func clamp(ct int8) int8 {
	if ct > MaxHand {
		return MaxHand
	}
	if ct < 0 {
		return 0
	}
	return ct
}
