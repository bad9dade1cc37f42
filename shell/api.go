package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/tsume/board"
	"github.com/domino14/tsume/config"
	"github.com/domino14/tsume/kif"
	"github.com/domino14/tsume/move"
	"github.com/domino14/tsume/piece"
	"github.com/domino14/tsume/puzzles"
	"github.com/domino14/tsume/sfen"
	"github.com/domino14/tsume/solver"
	"github.com/domino14/tsume/store"
)

type Response struct {
	message string
}

func (r *Response) Message() string {
	return r.message
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func (c CmdOptions) StringArray(key string) []string {
	return c[key]
}

func msg(message string) *Response {
	return &Response{message: message}
}

// sideToMove alternates from the attacker, counting moves played in the
// shell since the position was loaded.
func (sc *ShellController) sideToMove() piece.Side {
	if len(sc.played)%2 == 0 {
		return piece.First
	}
	return piece.Second
}

func (sc *ShellController) setBoard(b *board.Board) {
	sc.board = b
	sc.history = nil
	sc.played = nil
	sc.solution = nil
}

func (sc *ShellController) getStore() (*store.Store, error) {
	if sc.store != nil {
		return sc.store, nil
	}
	path := sc.config.GetString(config.ConfigDBPath)
	if path == "" {
		return nil, nil
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	sc.store = st
	return st, nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb)
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if sc.solving.Load() {
		return nil, errSolving
	}
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: load sfen <sfen> | load kif <path>")
	}
	var b *board.Board
	var err error
	switch cmd.args[0] {
	case "sfen":
		b, err = sfen.Parse(strings.Join(cmd.args[1:], " "))
	case "kif":
		b, err = kif.ParseFile(cmd.args[1])
	default:
		return nil, fmt.Errorf("cannot load from %q; use sfen or kif", cmd.args[0])
	}
	if err != nil {
		return nil, err
	}
	sc.setBoard(b)
	return msg(b.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoPosition
	}
	var sb strings.Builder
	sb.WriteString(sc.board.ToDisplayText())
	fmt.Fprintf(&sb, "sfen: %s\n", sfen.Format(sc.board))
	fmt.Fprintf(&sb, "hash: %016x\n", sc.board.Hash())
	fmt.Fprintf(&sb, "to move: %s\n", sc.sideToMove())
	if len(sc.played) > 0 {
		fmt.Fprintf(&sb, "played: %s\n", move.Sequence(sc.played))
	}
	if sc.board.IsCheck() {
		if sc.board.IsCheckmate() {
			sb.WriteString("checkmate\n")
		} else {
			sb.WriteString("check\n")
		}
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) sfen(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoPosition
	}
	return msg(sfen.Format(sc.board)), nil
}

func moveList(moves []move.Move) string {
	if len(moves) == 0 {
		return "none"
	}
	return fmt.Sprintf("%d: %s", len(moves), move.Sequence(moves))
}

func (sc *ShellController) checks(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoPosition
	}
	return msg(moveList(sc.board.EnumerateCheck())), nil
}

func (sc *ShellController) escapes(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoPosition
	}
	return msg(moveList(sc.board.EnumerateCheckAvoidance())), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoPosition
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: moves <square>")
	}
	from, err := move.FromUSISquare(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if sc.board.SidedPiece(from).IsEmpty() {
		return nil, fmt.Errorf("no piece on %s", cmd.args[0])
	}
	return msg(moveList(sc.board.EnumerateMoves(from))), nil
}

// legal accepts a board move that the piece can make and that does not
// take the defending king, or a drop of a held
// piece onto an empty square from which it can still move.
func (sc *ShellController) legal(m move.Move, side piece.Side) error {
	b := sc.board
	if m.IsDrop() {
		p := m.Piece().Piece()
		if b.Hand(side, p) == 0 {
			return fmt.Errorf("no %s in hand", p)
		}
		if !b.SidedPiece(m.To()).IsEmpty() {
			return fmt.Errorf("%s is occupied", move.ToUSISquare(m.To()))
		}
		if !board.HasFurtherMove(p, m.To(), side) {
			return fmt.Errorf("%s dropped on %s could never move", p, move.ToUSISquare(m.To()))
		}
		return nil
	}
	sp := b.SidedPiece(m.From())
	if !sp.BelongsTo(side) {
		return fmt.Errorf("no %s piece on %s", side, move.ToUSISquare(m.From()))
	}
	if !lo.ContainsBy(b.EnumerateMoves(m.From()), m.Equal) {
		return fmt.Errorf("%s cannot play %s", sp, m.ShortDescription())
	}
	if b.SidedPiece(m.To()) == piece.SecondKing {
		return errors.New("the second player king cannot be captured")
	}
	return nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoPosition
	}
	if sc.solving.Load() {
		return nil, errSolving
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <usi-move>")
	}
	side := sc.sideToMove()
	m, err := move.ParseUSI(cmd.args[0], side)
	if err != nil {
		return nil, err
	}
	if err := sc.legal(m, side); err != nil {
		return nil, err
	}
	sc.history = append(sc.history, sc.board)
	sc.played = append(sc.played, m)
	sc.board = sc.board.Copy()
	sc.board.ApplyMove(m)
	sc.solution = nil
	return sc.show(cmd)
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.solving.Load() {
		return nil, errSolving
	}
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	n := len(sc.history) - 1
	sc.board = sc.history[n]
	sc.history = sc.history[:n]
	sc.played = sc.played[:n]
	sc.solution = nil
	return sc.show(cmd)
}

// parseLine turns a stored USI line back into moves, attacker first.
func parseLine(usi []string) ([]move.Move, error) {
	moves := make([]move.Move, len(usi))
	for i, s := range usi {
		side := piece.First
		if i%2 == 1 {
			side = piece.Second
		}
		m, err := move.ParseUSI(s, side)
		if err != nil {
			return nil, err
		}
		moves[i] = m
	}
	return moves, nil
}

func solutionText(moves []move.Move) string {
	line := solver.Line{Moves: moves}
	return fmt.Sprintf("mate in %d: %s\n%s", line.Len(), line.NLBString(), line.String())
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoPosition
	}
	if sc.sideToMove() != piece.First {
		return nil, errors.New("the attacker must be on move to solve")
	}
	depth, err := cmd.options.IntDefault("depth", sc.config.GetInt(config.ConfigDefaultDepth))
	if err != nil {
		return nil, err
	}
	if depth <= 0 || depth%2 == 0 {
		return nil, fmt.Errorf("depth must be odd and positive, got %d", depth)
	}
	if !sc.solving.CompareAndSwap(false, true) {
		return nil, errSolving
	}
	defer sc.solving.Store(false)

	ctx := context.Background()
	key := sfen.Format(sc.board)
	st, err := sc.getStore()
	if err != nil {
		return nil, err
	}
	if st != nil {
		sol, err := st.Lookup(ctx, key, depth)
		switch {
		case err == nil && !sol.Found:
			return msg(fmt.Sprintf("no mate within %d plies (stored)", depth)), nil
		case err == nil:
			moves, err := parseLine(sol.Moves)
			if err != nil {
				return nil, err
			}
			sc.solution = moves
			return msg(solutionText(moves) + "(stored)"), nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}

	s := &solver.Solver{}
	s.Init(sc.board)
	s.SetBootstrapDefenderHand(sc.config.GetBool(config.ConfigBootstrapDefenderHand))
	if logfile := cmd.options.String("log"); logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		s.SetLogStream(f)
	}

	moves, err := s.Solve(ctx, depth)
	if err != nil && !errors.Is(err, solver.ErrNoMateFound) {
		return nil, err
	}
	if st != nil {
		serr := st.Save(ctx, store.Solution{
			SFEN:      key,
			Depth:     depth,
			Found:     err == nil,
			Moves:     lo.Map(moves, func(m move.Move, _ int) string { return m.ShortDescription() }),
			Nodes:     s.Nodes(),
			CreatedAt: time.Now(),
		})
		if serr != nil {
			log.Err(serr).Msg("could-not-save-solution")
		}
	}
	if err != nil {
		return msg(fmt.Sprintf("no mate within %d plies (%d nodes)", depth, s.Nodes())), nil
	}
	sc.solution = moves
	return msg(solutionText(moves) + fmt.Sprintf("(%d nodes)", s.Nodes())), nil
}

func (sc *ShellController) replay(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoPosition
	}
	if len(sc.solution) == 0 {
		return nil, errors.New("no solution to replay; run solve first")
	}
	var sb strings.Builder
	for i, b := range solver.Replay(sc.board, sc.solution) {
		if i > 0 {
			fmt.Fprintf(&sb, "%d. %s\n", i, sc.solution[i-1].ShortDescription())
		}
		sb.WriteString(b.ToDisplayText())
	}
	return msg(sb.String()), nil
}

// problemPath falls back to the configured problems directory for
// relative names that do not exist as given.
func (sc *ShellController) problemPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(sc.config.GetString(config.ConfigProblemsPath), name)
}

func (sc *ShellController) puzzles(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: puzzles <file> [-threads N] [-out file]")
	}
	threads, err := cmd.options.IntDefault("threads", runtime.NumCPU())
	if err != nil {
		return nil, err
	}
	problems, err := puzzles.LoadProblems(sc.problemPath(cmd.args[0]))
	if err != nil {
		return nil, err
	}
	if !sc.solving.CompareAndSwap(false, true) {
		return nil, errSolving
	}
	defer sc.solving.Store(false)

	opts := []puzzles.Option{
		puzzles.WithBootstrapDefenderHand(sc.config.GetBool(config.ConfigBootstrapDefenderHand)),
	}
	st, err := sc.getStore()
	if err != nil {
		return nil, err
	}
	if st != nil {
		opts = append(opts, puzzles.WithStore(st))
	}
	results, err := puzzles.SolveAll(context.Background(), problems, threads, opts...)
	if err != nil {
		return nil, err
	}
	if out := cmd.options.String("out"); out != "" {
		if err := puzzles.WriteResultsFile(out, results); err != nil {
			return nil, err
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-20s %5s %-7s %s\n", "name", "depth", "status", "moves")
	for _, r := range results {
		status := "ok"
		switch {
		case r.Err != "":
			status = "error"
		case !r.Matched:
			status = "WRONG"
		}
		fmt.Fprintf(&sb, "%-20s %5d %-7s %s\n", r.Name, r.Depth, status, strings.Join(r.Moves, " "))
	}
	fmt.Fprintf(&sb, "%d/%d matched", lo.CountBy(results, func(r puzzles.Result) bool { return r.Matched }), len(results))
	return msg(sb.String()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		settings := sc.config.SanitizedSettings()
		keys := lo.Keys(settings)
		sort.Strings(keys)
		lines := lo.Map(keys, func(k string, _ int) string {
			return fmt.Sprintf("%s: %v", k, settings[k])
		})
		return msg(strings.Join(lines, "\n")), nil
	}
	key := cmd.args[0]
	if !lo.Contains(sc.config.AllKeys(), key) {
		return nil, fmt.Errorf("unknown setting %q", key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	if key == config.ConfigDBPath && sc.store != nil {
		if err := sc.store.Close(); err != nil {
			return nil, err
		}
		sc.store = nil
	}
	sc.config.Set(key, cmd.args[1])
	return msg("set " + key + " to " + cmd.args[1]), nil
}
