package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kballard/go-shellquote"
	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/tsume/config"
)

const headGoldSFEN = "4k4/9/4P4/9/9/9/9/9/9 b G 1"

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func newTestController() *ShellController {
	return &ShellController{config: config.DefaultConfig()}
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"solve -log /path/to/log.yaml",
			&shellcmd{"solve", nil, CmdOptions{"log": {"/path/to/log.yaml"}}},
			nil},
		{"show",
			&shellcmd{"show", nil, CmdOptions{}},
			nil},
		{"puzzles set.yaml -threads 4 -out res.yaml ",
			&shellcmd{"puzzles",
				[]string{"set.yaml"},
				CmdOptions{"threads": {"4"}, "out": {"res.yaml"}}},
			nil,
		},
		{"load sfen 4k4/9/9/9/9/9/9/9/9 b - 1",
			&shellcmd{"load",
				[]string{"sfen", "4k4/9/9/9/9/9/9/9/9", "b", "-", "1"},
				CmdOptions{}},
			nil,
		},
		{"solve -depth",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestCommandsNeedPosition(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	for _, line := range []string{"show", "sfen", "checks", "escapes", "moves 5a", "play 5c5b", "solve", "replay"} {
		_, err := sc.Execute(line)
		is.Equal(err, errNoPosition)
	}
}

func TestUnknownCommand(t *testing.T) {
	is := is.New(t)
	_, err := newTestController().Execute("gen")
	is.True(err != nil)
	_, err = newTestController().Execute("exit")
	is.Equal(err, errQuit)
}

func TestLoadAndShow(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	_, err := sc.Execute("load sfen " + headGoldSFEN)
	is.NoErr(err)

	resp, err := sc.Execute("show")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "first hand: 金"))
	is.True(strings.Contains(resp.message, "sfen: "+headGoldSFEN))
	is.True(strings.Contains(resp.message, "to move: first"))
	is.True(strings.Contains(resp.message, "hash: "))

	resp, err = sc.Execute("sfen")
	is.NoErr(err)
	is.Equal(resp.message, headGoldSFEN)

	_, err = sc.Execute("load fen 4k4")
	is.True(err != nil)
	_, err = sc.Execute("load sfen 9/9/9/9/9/9/9/9/9 b - 1")
	is.True(err != nil)
}

func TestLoadKIF(t *testing.T) {
	is := is.New(t)
	bod := `後手の持駒：なし
  ９ ８ ７ ６ ５ ４ ３ ２ １
+---------------------------+
| ・ ・ ・ ・v玉 ・ ・ ・ ・|一
| ・ ・ ・ ・ ・ ・ ・ ・ ・|二
| ・ ・ ・ ・ 歩 ・ ・ ・ ・|三
| ・ ・ ・ ・ ・ ・ ・ ・ ・|四
| ・ ・ ・ ・ ・ ・ ・ ・ ・|五
| ・ ・ ・ ・ ・ ・ ・ ・ ・|六
| ・ ・ ・ ・ ・ ・ ・ ・ ・|七
| ・ ・ ・ ・ ・ ・ ・ ・ ・|八
| ・ ・ ・ ・ ・ ・ ・ ・ ・|九
+---------------------------+
先手の持駒：金
`
	path := filepath.Join(t.TempDir(), "head.kif")
	is.NoErr(os.WriteFile(path, []byte(bod), 0o644))

	sc := newTestController()
	_, err := sc.Execute("load kif " + shellquote.Join(path))
	is.NoErr(err)
	resp, err := sc.Execute("sfen")
	is.NoErr(err)
	is.Equal(resp.message, headGoldSFEN)
}

func TestChecksMovesEscapes(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	_, err := sc.Execute("load sfen " + headGoldSFEN)
	is.NoErr(err)

	resp, err := sc.Execute("checks")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "7: 5c5b+ 5c5b "))
	is.True(strings.Contains(resp.message, "G*5b"))

	resp, err = sc.Execute("moves 5c")
	is.NoErr(err)
	is.Equal(resp.message, "2: 5c5b+ 5c5b")

	_, err = sc.Execute("moves 1a")
	is.True(err != nil)
	_, err = sc.Execute("moves 0z")
	is.True(err != nil)

	// the king may go anywhere but 5b, which the pawn covers
	resp, err = sc.Execute("escapes")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "4: "))
}

func TestPlayAndUndo(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	_, err := sc.Execute("load sfen " + headGoldSFEN)
	is.NoErr(err)

	_, err = sc.Execute("play 5c5d")
	is.True(err != nil)
	_, err = sc.Execute("play S*5b")
	is.True(err != nil)
	_, err = sc.Execute("play G*5a")
	is.True(err != nil)

	resp, err := sc.Execute("play G*5b")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "checkmate"))
	is.True(strings.Contains(resp.message, "to move: second"))
	is.True(strings.Contains(resp.message, "played: G*5b"))

	_, err = sc.Execute("solve -depth 1")
	is.True(err != nil)

	resp, err = sc.Execute("undo")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "sfen: "+headGoldSFEN))
	_, err = sc.Execute("undo")
	is.True(err != nil)

	resp, err = sc.Execute("play 5c5b+")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "check\n"))
	resp, err = sc.Execute("play 5a5b")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "to move: first"))
	is.True(strings.Contains(resp.message, "played: 5c5b+ 5a5b"))
}

func TestPlayCannotTakeKing(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	_, err := sc.Execute("load sfen 4k4/9/9/9/9/9/9/9/4R4 b - 1")
	is.NoErr(err)

	_, err = sc.Execute("play 5i5a+")
	is.True(err != nil)
	_, err = sc.Execute("play 5i5a")
	is.True(err != nil)

	resp, err := sc.Execute("show")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "check\n"))
	_, err = sc.Execute("escapes")
	is.NoErr(err)
	_, err = sc.Execute("undo")
	is.True(err != nil)
}

func TestLoadKIFWithoutKing(t *testing.T) {
	is := is.New(t)
	bod := `  ９ ８ ７ ６ ５ ４ ３ ２ １
+---------------------------+
| ・ ・ ・ ・ ・ ・ ・ ・ ・|一
| ・ ・ ・ ・ ・ ・ ・ ・ ・|二
| ・ ・ ・ ・ 歩 ・ ・ ・ ・|三
| ・ ・ ・ ・ ・ ・ ・ ・ ・|四
| ・ ・ ・ ・ ・ ・ ・ ・ ・|五
| ・ ・ ・ ・ ・ ・ ・ ・ ・|六
| ・ ・ ・ ・ ・ ・ ・ ・ ・|七
| ・ ・ ・ ・ ・ ・ ・ ・ ・|八
| ・ ・ ・ ・ ・ ・ ・ ・ ・|九
+---------------------------+
先手の持駒：金
`
	path := filepath.Join(t.TempDir(), "kingless.kif")
	is.NoErr(os.WriteFile(path, []byte(bod), 0o644))

	sc := newTestController()
	_, err := sc.Execute("load kif " + shellquote.Join(path))
	is.True(err != nil)
	_, err = sc.Execute("show")
	is.Equal(err, errNoPosition)
}

func TestSolveAndReplay(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	_, err := sc.Execute("replay")
	is.Equal(err, errNoPosition)

	_, err = sc.Execute("load sfen " + headGoldSFEN)
	is.NoErr(err)
	_, err = sc.Execute("replay")
	is.True(err != nil)

	_, err = sc.Execute("solve -depth 2")
	is.True(err != nil)

	logfile := filepath.Join(t.TempDir(), "search.yaml")
	resp, err := sc.Execute("solve -depth 1 -log " + shellquote.Join(logfile))
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "mate in 1: G*5b\n"))
	is.True(strings.Contains(resp.message, "1: G*5b (attack)"))

	data, err := os.ReadFile(logfile)
	is.NoErr(err)
	is.True(strings.HasPrefix(string(data), "- max-depth: 1\n"))

	resp, err = sc.Execute("replay")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "1. G*5b"))
	is.Equal(strings.Count(resp.message, "first hand:"), 2)
}

func TestSolveNoMate(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	_, err := sc.Execute("load sfen 4k4/9/9/9/9/9/9/9/9 b - 1")
	is.NoErr(err)
	resp, err := sc.Execute("solve -depth 3")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "no mate within 3 plies"))
}

func TestSolveUsesStore(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	defer sc.Close()
	db := filepath.Join(t.TempDir(), "tsume.db")
	_, err := sc.Execute("set db-path " + shellquote.Join(db))
	is.NoErr(err)
	_, err = sc.Execute("load sfen " + headGoldSFEN)
	is.NoErr(err)

	resp, err := sc.Execute("solve -depth 1")
	is.NoErr(err)
	is.True(!strings.Contains(resp.message, "(stored)"))

	resp, err = sc.Execute("solve -depth 1")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "mate in 1: G*5b\n"))
	is.True(strings.HasSuffix(resp.message, "(stored)"))

	resp, err = sc.Execute("replay")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "1. G*5b"))
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc := newTestController()

	resp, err := sc.Execute("set")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "default-depth: 5"))
	is.True(strings.Contains(resp.message, "nats-url: ********"))

	_, err = sc.Execute("set default-depth 1")
	is.NoErr(err)
	resp, err = sc.Execute("set default-depth")
	is.NoErr(err)
	is.Equal(resp.message, "default-depth: 1")

	_, err = sc.Execute("set lexicon CSW21")
	is.True(err != nil)

	_, err = sc.Execute("load sfen " + headGoldSFEN)
	is.NoErr(err)
	resp, err = sc.Execute("solve")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "mate in 1: G*5b\n"))
}

func TestPuzzles(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	problems := `problems:
  - name: head-gold
    sfen: "4k4/9/4P4/9/9/9/9/9/9 b G 1"
    depth: 1
    expect: 1
  - name: bare-king
    sfen: "4k4/9/9/9/9/9/9/9/9 b - 1"
    depth: 3
    expect: 0
`
	is.NoErr(os.WriteFile(filepath.Join(dir, "set.yaml"), []byte(problems), 0o644))

	sc := newTestController()
	sc.config.Set(config.ConfigProblemsPath, dir)
	out := filepath.Join(dir, "results.yaml")
	resp, err := sc.Execute("puzzles set.yaml -threads 2 -out " + shellquote.Join(out))
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "head-gold"))
	is.True(strings.HasSuffix(resp.message, "2/2 matched"))

	data, err := os.ReadFile(out)
	is.NoErr(err)
	is.True(strings.Contains(string(data), "moves: [G*5b]"))

	_, err = sc.Execute("puzzles missing.yaml")
	is.True(err != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	resp, err := sc.Execute("help")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Usage:"))

	resp, err = sc.Execute("help solve")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "-depth N"))

	resp, err = sc.Execute("help sim")
	is.NoErr(err)
	is.Equal(resp.message, "There is no help text for the topic sim\n")
}

func complete(c *ShellCompleter, text string) []string {
	matches, _ := c.Do([]rune(text), len([]rune(text)))
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(m)
	}
	return out
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	c := NewShellCompleter(sc)

	is.Equal(complete(c, "so"), []string{"lve"})
	is.Equal(complete(c, "load "), []string{"sfen", "kif"})
	is.Equal(complete(c, "solve -d"), []string{"epth"})
	is.Equal(complete(c, "solve -depth "), depthValues)
	is.Equal(len(complete(c, "moves ")), 0)

	_, err := sc.Execute("load sfen " + headGoldSFEN)
	is.NoErr(err)
	is.Equal(complete(c, "moves "), []string{"5a", "5c"})
	is.Equal(complete(c, "play 5c"), []string{"5b+", "5b"})
}
