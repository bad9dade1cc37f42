package shell

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/tsume/geom"
	"github.com/domino14/tsume/move"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"load": {
		Args: []string{"sfen", "kif"},
	},
	"solve": {
		Options: []string{"-depth", "-log"},
	},
	"puzzles": {
		Options: []string{"-threads", "-out"},
	},
	"help": {
		Args: []string{"load", "play", "solve", "puzzles", "set"},
	},
}

var commandNames = []string{
	"help", "load", "show", "sfen", "checks", "escapes", "moves", "play",
	"undo", "solve", "replay", "puzzles", "set", "exit",
}

var depthValues = []string{"1", "3", "5", "7", "9", "11"}

// occupiedSquares lists the squares of the current position holding a
// piece, in USI notation.
func (c *ShellCompleter) occupiedSquares() []string {
	if c.sc.board == nil {
		return nil
	}
	var sqs []string
	for i := 0; i < geom.BoardCells; i++ {
		p := geom.PosFromIndex(i)
		if !c.sc.board.SidedPiece(p).IsEmpty() {
			sqs = append(sqs, move.ToUSISquare(p))
		}
	}
	sort.Strings(sqs)
	return sqs
}

// playableMoves lists every board move of the side to move.
func (c *ShellCompleter) playableMoves() []string {
	if c.sc.board == nil {
		return nil
	}
	side := c.sc.sideToMove()
	var moves []move.Move
	for i := 0; i < geom.BoardCells; i++ {
		p := geom.PosFromIndex(i)
		if c.sc.board.SidedPiece(p).BelongsTo(side) {
			moves = append(moves, c.sc.board.EnumerateMoves(p)...)
		}
	}
	return lo.Uniq(lo.Map(moves, func(m move.Move, _ int) string { return m.ShortDescription() }))
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}

	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]

		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-depth":
			completions = depthValues
		case cmdName == "set" && lastCompleteField == "set" && c.sc.config != nil:
			completions = c.sc.config.AllKeys()
			sort.Strings(completions)
		case cmdName == "moves":
			completions = c.occupiedSquares()
		case cmdName == "play":
			completions = c.playableMoves()
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}

	return matches, len(prefix)
}
