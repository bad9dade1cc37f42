package puzzles

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tsume/store"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

const headGoldKIF = `後手の持駒：なし
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

const problemSet = `problems:
  - name: knight
    sfen: 3pkp3/3nnn3/9/9/6N2/9/9/9/9 b - 1
    depth: 1
    expect: 1
  - name: two-golds
    sfen: 7k1/5G3/7G1/9/9/9/9/9/9 b - 1
    depth: 3
    expect: 3
  - name: rook-knight
    sfen: 1R7/9/9/9/9/9/9/k1N6/9 b - 1
    depth: 3
    expect: 0
  - name: head-gold
    kif: head_gold.kif
    depth: 1
    expect: 1
  - name: knight-again
    sfen: 3pkp3/3nnn3/9/9/6N2/9/9/9/9 b - 1
    depth: 1
    expect: 1
  - name: broken
    sfen: not an sfen
    depth: 1
  - depth: 1
`

func writeProblems(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "head_gold.kif"), []byte(headGoldKIF), 0o644))
	path := filepath.Join(dir, "set.yaml")
	require.NoError(t, os.WriteFile(path, []byte(problemSet), 0o644))
	return path
}

func TestLoadProblems(t *testing.T) {
	path := writeProblems(t)
	problems, err := LoadProblems(path)
	require.NoError(t, err)
	require.Len(t, problems, 7)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "head_gold.kif"), problems[3].KIF)
	assert.Equal(t, "#7", problems[6].Name)

	_, err = problems[6].Board()
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestSolveAll(t *testing.T) {
	problems, err := LoadProblems(writeProblems(t))
	require.NoError(t, err)

	results, err := SolveAll(context.Background(), problems, 3)
	require.NoError(t, err)
	require.Len(t, results, len(problems))

	assert.Equal(t, []string{"3e4c"}, results[0].Moves)
	assert.True(t, results[0].Matched)
	assert.Equal(t, []string{"4b3b", "2a1a", "3b2b"}, results[1].Moves)
	assert.True(t, results[1].Matched)
	assert.False(t, results[2].Found)
	assert.True(t, results[2].Matched)
	assert.Equal(t, []string{"G*5b"}, results[3].Moves)

	assert.Equal(t, "knight", results[4].DuplicateOf)
	assert.Equal(t, "knight-again", results[4].Name)
	assert.Equal(t, results[0].Moves, results[4].Moves)

	assert.NotEmpty(t, results[5].Err)
	assert.False(t, results[5].Matched)
	assert.NotEmpty(t, results[6].Err)
}

func TestSolveAllUsesStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	defer st.Close()

	problems := []Problem{{Name: "knight", SFEN: "3pkp3/3nnn3/9/9/6N2/9/9/9/9 b - 1", Depth: 1, Expect: 1}}
	results, err := SolveAll(context.Background(), problems, 1, WithStore(st))
	require.NoError(t, err)
	assert.False(t, results[0].Cached)

	results, err = SolveAll(context.Background(), problems, 1, WithStore(st))
	require.NoError(t, err)
	assert.True(t, results[0].Cached)
	assert.Equal(t, []string{"3e4c"}, results[0].Moves)
	assert.True(t, results[0].Matched)
}

func TestSolveAllCancelled(t *testing.T) {
	problems := []Problem{{Name: "two-golds", SFEN: "7k1/5G3/7G1/9/9/9/9/9/9 b - 1", Depth: 3}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SolveAll(ctx, problems, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	results := []Result{{Name: "knight", Depth: 1, Found: true, Moves: []string{"3e4c"}, Matched: true}}
	require.NoError(t, WriteResults(&buf, results))

	var back map[string][]Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, results, back["results"])
	assert.Contains(t, buf.String(), "moves: [3e4c]")

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteResultsFile(path, results))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}
