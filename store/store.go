// Package store keeps solved problems in a SQLite database so a position
// is never searched twice at the same depth.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("solution not found")

const schema = `
CREATE TABLE IF NOT EXISTS solutions (
	key        INTEGER PRIMARY KEY,
	sfen       TEXT NOT NULL,
	depth      INTEGER NOT NULL,
	found      INTEGER NOT NULL,
	moves      TEXT NOT NULL,
	nodes      INTEGER NOT NULL,
	created_at INTEGER NOT NULL
)`

// Solution is the outcome of one search. Moves are in USI notation and are
// empty when no mate was found.
type Solution struct {
	SFEN      string
	Depth     int
	Found     bool
	Moves     []string
	Nodes     uint64
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the database file at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened-solution-store")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Key identifies a position and depth. sfen should be canonical, as
// produced by sfen.Format.
func Key(sfen string, depth int) int64 {
	return int64(xxhash.Sum64String(fmt.Sprintf("%s|%d", sfen, depth)))
}

// Lookup returns ErrNotFound if the position was never solved at depth.
func (s *Store) Lookup(ctx context.Context, sfen string, depth int) (*Solution, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT sfen, found, moves, nodes, created_at FROM solutions WHERE key = ?`,
		Key(sfen, depth))
	var (
		stored  string
		found   bool
		moves   string
		nodes   int64
		created int64
	)
	err := row.Scan(&stored, &found, &moves, &nodes, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if stored != sfen {
		log.Warn().Str("sfen", sfen).Str("stored", stored).Msg("solution-key-collision")
		return nil, ErrNotFound
	}
	sol := &Solution{
		SFEN:      stored,
		Depth:     depth,
		Found:     found,
		Nodes:     uint64(nodes),
		CreatedAt: time.Unix(created, 0),
	}
	if moves != "" {
		sol.Moves = strings.Fields(moves)
	}
	return sol, nil
}

// Save inserts or replaces a solution.
func (s *Store) Save(ctx context.Context, sol Solution) error {
	created := sol.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO solutions (key, sfen, depth, found, moves, nodes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		Key(sol.SFEN, sol.Depth), sol.SFEN, sol.Depth, sol.Found,
		strings.Join(sol.Moves, " "), int64(sol.Nodes), created.Unix())
	return err
}
