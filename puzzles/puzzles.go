// Package puzzles loads sets of mate problems from YAML and solves them in
// parallel. Each problem gets its own board and solver; only whole problems
// run concurrently, never parts of one search.
package puzzles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tsume/board"
	"github.com/domino14/tsume/kif"
	"github.com/domino14/tsume/move"
	"github.com/domino14/tsume/sfen"
	"github.com/domino14/tsume/solver"
	"github.com/domino14/tsume/store"
)

var ErrNoPosition = errors.New("problem has neither sfen nor kif")

// Problem is one entry of a problem file. Exactly one of SFEN and KIF
// should be set; KIF is a path relative to the problem file. Expect is the
// expected mate length in plies, 0 meaning no mate within Depth.
type Problem struct {
	Name   string `yaml:"name"`
	SFEN   string `yaml:"sfen,omitempty"`
	KIF    string `yaml:"kif,omitempty"`
	Depth  int    `yaml:"depth"`
	Expect int    `yaml:"expect"`
}

type problemFile struct {
	Problems []Problem `yaml:"problems"`
}

type Result struct {
	Name        string   `yaml:"name"`
	Depth       int      `yaml:"depth"`
	Found       bool     `yaml:"found"`
	Moves       []string `yaml:"moves,omitempty,flow"`
	Nodes       uint64   `yaml:"nodes"`
	ElapsedSec  float64  `yaml:"elapsed_sec"`
	Err         string   `yaml:"error,omitempty"`
	Matched     bool     `yaml:"matched"`
	DuplicateOf string   `yaml:"duplicate_of,omitempty"`
	Cached      bool     `yaml:"cached,omitempty"`
}

// LoadProblems reads a problem file. Relative KIF paths are resolved
// against the file's directory.
func LoadProblems(path string) ([]Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf problemFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range pf.Problems {
		p := &pf.Problems[i]
		if p.KIF != "" && !filepath.IsAbs(p.KIF) {
			p.KIF = filepath.Join(dir, p.KIF)
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("#%d", i+1)
		}
	}
	return pf.Problems, nil
}

// Board builds the problem's starting position.
func (p Problem) Board() (*board.Board, error) {
	switch {
	case p.SFEN != "":
		return sfen.Parse(p.SFEN)
	case p.KIF != "":
		return kif.ParseFile(p.KIF)
	}
	return nil, ErrNoPosition
}

type options struct {
	store     *store.Store
	bootstrap bool
}

type Option func(*options)

// WithStore consults st before solving and saves fresh solutions to it.
func WithStore(st *store.Store) Option {
	return func(o *options) { o.store = st }
}

// WithBootstrapDefenderHand sets solver.Solver's hand bootstrapping.
func WithBootstrapDefenderHand(v bool) Option {
	return func(o *options) { o.bootstrap = v }
}

type job struct {
	idx   int
	board *board.Board
}

// SolveAll solves problems with up to threads searches at a time. Results
// come back in problem order. Problems whose position and depth repeat an
// earlier problem are solved once and share its result. A problem that
// cannot be read only fails its own result; SolveAll itself fails only if
// ctx is done.
func SolveAll(ctx context.Context, problems []Problem, threads int, opts ...Option) ([]Result, error) {
	o := &options{bootstrap: true}
	for _, opt := range opts {
		opt(o)
	}
	if threads < 1 {
		threads = 1
	}

	type posKey struct {
		hash  uint64
		depth int
	}
	results := make([]Result, len(problems))
	first := map[posKey]int{}
	dupes := map[int]int{}
	var jobs []job

	for i, p := range problems {
		results[i] = Result{Name: p.Name, Depth: p.Depth}
		b, err := p.Board()
		if err != nil {
			results[i].Err = err.Error()
			continue
		}
		if p.Depth <= 0 || p.Depth%2 == 0 {
			results[i].Err = fmt.Sprintf("depth must be odd and positive, got %d", p.Depth)
			continue
		}
		k := posKey{b.Hash(), p.Depth}
		if j, ok := first[k]; ok {
			dupes[i] = j
			continue
		}
		first[k] = i
		jobs = append(jobs, job{idx: i, board: b})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			return solveOne(gctx, o, j.board, &results[j.idx])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, j := range dupes {
		name := results[i].Name
		results[i] = results[j]
		results[i].Name = name
		results[i].DuplicateOf = results[j].Name
	}
	for i := range results {
		if results[i].Err == "" {
			results[i].Matched = len(results[i].Moves) == problems[i].Expect
		}
	}
	log.Info().Int("problems", len(problems)).Int("searched", len(jobs)).
		Int("matched", lo.CountBy(results, func(r Result) bool { return r.Matched })).
		Msg("solve-all-returning")
	return results, nil
}

func solveOne(ctx context.Context, o *options, b *board.Board, res *Result) error {
	key := sfen.Format(b)
	if o.store != nil {
		sol, err := o.store.Lookup(ctx, key, res.Depth)
		if err == nil {
			res.Found, res.Moves, res.Nodes, res.Cached = sol.Found, sol.Moves, sol.Nodes, true
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Err(err).Str("problem", res.Name).Msg("store-lookup-failed")
		}
	}

	s := &solver.Solver{}
	s.Init(b)
	s.SetBootstrapDefenderHand(o.bootstrap)
	tstart := time.Now()
	moves, err := s.Solve(ctx, res.Depth)
	res.ElapsedSec = time.Since(tstart).Seconds()
	res.Nodes = s.Nodes()
	switch {
	case errors.Is(err, solver.ErrNoMateFound):
	case err != nil:
		return err
	default:
		res.Found = true
		res.Moves = lo.Map(moves, func(m move.Move, _ int) string { return m.ShortDescription() })
	}

	if o.store != nil {
		err := o.store.Save(ctx, store.Solution{
			SFEN: key, Depth: res.Depth, Found: res.Found, Moves: res.Moves, Nodes: res.Nodes,
		})
		if err != nil {
			log.Err(err).Str("problem", res.Name).Msg("store-save-failed")
		}
	}
	return nil
}

// WriteResults writes results as a YAML document.
func WriteResults(w io.Writer, results []Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]Result{"results": results}); err != nil {
		return err
	}
	return enc.Close()
}

// WriteResultsFile is WriteResults to a new file at path.
func WriteResultsFile(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteResults(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
