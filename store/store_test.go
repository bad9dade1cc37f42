package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knightSFEN = "3pkp3/3nnn3/9/9/6N2/9/9/9/9 b - 1"

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "solutions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLookup(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, err := s.Lookup(ctx, knightSFEN, 1)
	assert.True(t, errors.Is(err, ErrNotFound))

	created := time.Unix(1700000000, 0)
	require.NoError(t, s.Save(ctx, Solution{
		SFEN: knightSFEN, Depth: 1, Found: true, Moves: []string{"3e4c"}, Nodes: 12, CreatedAt: created,
	}))
	sol, err := s.Lookup(ctx, knightSFEN, 1)
	require.NoError(t, err)
	assert.True(t, sol.Found)
	assert.Equal(t, []string{"3e4c"}, sol.Moves)
	assert.Equal(t, uint64(12), sol.Nodes)
	assert.Equal(t, created, sol.CreatedAt)

	// other depths are separate entries
	_, err = s.Lookup(ctx, knightSFEN, 3)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveNoMateAndReplace(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Solution{SFEN: knightSFEN, Depth: 3, Found: false}))
	sol, err := s.Lookup(ctx, knightSFEN, 3)
	require.NoError(t, err)
	assert.False(t, sol.Found)
	assert.Nil(t, sol.Moves)

	require.NoError(t, s.Save(ctx, Solution{SFEN: knightSFEN, Depth: 3, Found: true, Moves: []string{"3e4c"}}))
	sol, err = s.Lookup(ctx, knightSFEN, 3)
	require.NoError(t, err)
	assert.True(t, sol.Found)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solutions.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), Solution{SFEN: knightSFEN, Depth: 1, Found: true, Moves: []string{"3e4c"}}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	sol, err := s.Lookup(context.Background(), knightSFEN, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"3e4c"}, sol.Moves)
}

func TestKeyDependsOnDepth(t *testing.T) {
	assert.NotEqual(t, Key(knightSFEN, 1), Key(knightSFEN, 3))
	assert.Equal(t, Key(knightSFEN, 1), Key(knightSFEN, 1))
}
