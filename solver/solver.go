// Package solver searches for forced mates (tsume). The attacker, the first
// player, must give check on every move; the defender tries every escape.
// The search is exhaustive: it finds the shortest mate the attacker can
// force against the defence that delays it longest.
package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tsume/board"
	"github.com/domino14/tsume/geom"
	"github.com/domino14/tsume/move"
	"github.com/domino14/tsume/piece"
)

var (
	ErrNoMateFound = errors.New("no forced mate found")
)

type Solver struct {
	board *board.Board

	bootstrapHand bool
	nodes         atomic.Uint64

	logStream io.Writer
}

// Init takes a private copy of b; the caller's board is never touched.
func (s *Solver) Init(b *board.Board) {
	s.board = b.Copy()
	s.bootstrapHand = true
}

// SetBootstrapDefenderHand controls whether Solve fills in the defender's
// hand from the pieces that are unaccounted for. It is on by default.
func (s *Solver) SetBootstrapDefenderHand(v bool) {
	s.bootstrapHand = v
}

// SetLogStream makes the search write a YAML tree of every move it tries.
// It gets very large beyond a few plies.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

func (s *Solver) Board() *board.Board {
	return s.board
}

// BootstrapDefenderHand assigns to the second player's hand every piece of
// a full set that is neither on the board nor in the first player's hand.
// Promoted pieces count as their base kind.
func BootstrapDefenderHand(b *board.Board) {
	var used [piece.NumHandKinds]int
	for i := 0; i < geom.BoardCells; i++ {
		sp := b.SidedPiece(geom.PosFromIndex(i))
		if sp.IsEmpty() {
			continue
		}
		if k := sp.Piece().Capture(); k < piece.NumHandKinds {
			used[k]++
		}
	}
	for k := range used {
		kind := piece.Piece(k)
		n := piece.FullSet[k] - b.Hand(piece.First, kind) - used[k]
		if n < 0 {
			log.Warn().Str("piece", kind.Letter()).Int("excess", -n).Msg("more-pieces-than-a-full-set")
			n = 0
		}
		b.SetHand(piece.Second, kind, n)
	}
}

// Solve looks for a mate in at most maxDepth plies, counting both sides'
// moves. maxDepth must be odd and positive since a mate always ends on an
// attacker move. The returned moves are in playing order. When there is no
// forced mate within maxDepth, Solve returns ErrNoMateFound. A cancelled
// context aborts the search with the context's error.
func (s *Solver) Solve(ctx context.Context, maxDepth int) ([]move.Move, error) {
	if maxDepth <= 0 || maxDepth%2 == 0 {
		panic(fmt.Sprintf("max depth must be odd and positive, got %d", maxDepth))
	}
	b := s.board.Copy()
	if s.bootstrapHand {
		BootstrapDefenderHand(b)
	}
	log.Debug().Int("max-depth", maxDepth).Bool("bootstrap-hand", s.bootstrapHand).
		Msg("tsume-solve-config")

	tstart := time.Now()
	s.nodes.Store(0)

	g := &errgroup.Group{}
	done := make(chan struct{})

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	var line Line
	var found bool
	g.Go(func() error {
		defer close(done)
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "- max-depth: %d\n", maxDepth)
		}
		var err error
		line, found, err = s.solveFirst(ctx, b, maxDepth, 0)
		return err
	})

	err := g.Wait()
	log.Info().
		Int("max-depth", maxDepth).
		Bool("found", found).
		Str("line", line.NLBString()).
		Uint64("nodes", s.nodes.Load()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")

	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoMateFound
	}
	return line.Moves, nil
}

func (s *Solver) logf(indent int, format string, args ...any) {
	if s.logStream == nil {
		return
	}
	fmt.Fprintf(s.logStream, "  %v"+format+"\n", append([]any{strings.Repeat(" ", indent)}, args...)...)
}

// solveFirst tries every checking move and keeps the one leading to the
// shortest forced mate. Ties keep the earliest move.
func (s *Solver) solveFirst(ctx context.Context, b *board.Board, depth, indent int) (Line, bool, error) {
	if err := ctx.Err(); err != nil {
		return Line{}, false, err
	}
	s.nodes.Add(1)

	var best Line
	found := false
	checks := b.EnumerateCheck()
	s.logf(indent, "checks:")
	for _, m := range checks {
		s.logf(indent, "- move: %v", m.ShortDescription())
		nb := b.Copy()
		nb.ApplyMove(m)
		rest, ok, err := s.solveSecond(ctx, nb, depth-1, indent+4)
		if err != nil {
			return Line{}, false, err
		}
		if !ok {
			s.logf(indent, "  mate: false")
			continue
		}
		s.logf(indent, "  mate: %d", rest.Len()+1)
		if !found || rest.Len()+1 < best.Len() {
			best.Update(m, rest)
			found = true
		}
	}
	return best, found, nil
}

// solveSecond tries every escape and keeps the one that delays mate the
// longest. One escape that avoids mate altogether refutes the check.
func (s *Solver) solveSecond(ctx context.Context, b *board.Board, depth, indent int) (Line, bool, error) {
	if err := ctx.Err(); err != nil {
		return Line{}, false, err
	}
	s.nodes.Add(1)

	escapes := b.EnumerateCheckAvoidance()
	if len(escapes) == 0 {
		return Line{}, true, nil
	}
	if depth == 0 {
		return Line{}, false, nil
	}

	var longest Line
	s.logf(indent, "escapes:")
	for _, m := range escapes {
		s.logf(indent, "- move: %v", m.ShortDescription())
		nb := b.Copy()
		nb.ApplyMove(m)
		rest, ok, err := s.solveFirst(ctx, nb, depth-1, indent+4)
		if err != nil {
			return Line{}, false, err
		}
		if !ok {
			s.logf(indent, "  refutes: true")
			return Line{}, false, nil
		}
		if longest.Len() < rest.Len()+1 {
			longest.Update(m, rest)
		}
	}
	return longest, true, nil
}

// Replay plays moves from b and returns every position along the way. The
// first element is a copy of b itself.
func Replay(b *board.Board, moves []move.Move) []*board.Board {
	boards := make([]*board.Board, 0, len(moves)+1)
	cur := b.Copy()
	boards = append(boards, cur)
	for _, m := range moves {
		cur = cur.Copy()
		cur.ApplyMove(m)
		boards = append(boards, cur)
	}
	return boards
}
