// Package bot answers mate problems sent over NATS. Requests and replies
// are JSON; each request is solved on its own and stored when a solution
// store is configured.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/tsume/config"
	"github.com/domino14/tsume/move"
	"github.com/domino14/tsume/sfen"
	"github.com/domino14/tsume/solver"
	"github.com/domino14/tsume/store"
)

const (
	// MaxDepth bounds what a remote caller may ask for.
	MaxDepth = 15
	// HardTimeLimit is the longest a single request may search.
	HardTimeLimit = 120 * time.Second
)

// Request asks for a mate in the given SFEN position. Depth 0 means the
// configured default depth.
type Request struct {
	SFEN  string `json:"sfen"`
	Depth int    `json:"depth,omitempty"`
}

type Response struct {
	Found bool     `json:"found"`
	Moves []string `json:"moves,omitempty"`
	Nodes uint64   `json:"nodes,omitempty"`
	Error string   `json:"error,omitempty"`
}

// LambdaEvent is a Request delivered through AWS Lambda. The result is
// also published on ReplyChannel when it is set.
type LambdaEvent struct {
	Request
	RequestID    string `json:"request_id"`
	ReplyChannel string `json:"reply_channel,omitempty"`
}

type Bot struct {
	config *config.Config
	store  *store.Store
}

// NewBot creates a bot. st may be nil.
func NewBot(cfg *config.Config, st *store.Store) *Bot {
	return &Bot{config: cfg, store: st}
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}

// Solve answers one request. Failures are reported inside the response.
func (bot *Bot) Solve(ctx context.Context, req Request) *Response {
	depth := req.Depth
	if depth == 0 {
		depth = bot.config.GetInt(config.ConfigDefaultDepth)
	}
	if depth <= 0 || depth%2 == 0 || depth > MaxDepth {
		return errorResponse("Bad depth", fmt.Errorf("want an odd depth from 1 to %d, got %d", MaxDepth, depth))
	}
	b, err := sfen.Parse(req.SFEN)
	if err != nil {
		return errorResponse("Could not parse position", err)
	}
	key := sfen.Format(b)

	if bot.store != nil {
		sol, err := bot.store.Lookup(ctx, key, depth)
		if err == nil {
			log.Debug().Str("sfen", key).Int("depth", depth).Msg("bot-store-hit")
			return &Response{Found: sol.Found, Moves: sol.Moves, Nodes: sol.Nodes}
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Err(err).Msg("bot-store-lookup-failed")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, HardTimeLimit)
	defer cancel()
	s := &solver.Solver{}
	s.Init(b)
	s.SetBootstrapDefenderHand(bot.config.GetBool(config.ConfigBootstrapDefenderHand))
	moves, err := s.Solve(ctx, depth)
	if err != nil && !errors.Is(err, solver.ErrNoMateFound) {
		return errorResponse("Search aborted", err)
	}
	resp := &Response{
		Found: err == nil,
		Moves: lo.Map(moves, func(m move.Move, _ int) string { return m.ShortDescription() }),
		Nodes: s.Nodes(),
	}
	if bot.store != nil {
		serr := bot.store.Save(ctx, store.Solution{
			SFEN: key, Depth: depth, Found: resp.Found, Moves: resp.Moves,
			Nodes: resp.Nodes, CreatedAt: time.Now(),
		})
		if serr != nil {
			log.Err(serr).Msg("bot-store-save-failed")
		}
	}
	return resp
}

func (bot *Bot) handle(ctx context.Context, data []byte) *Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("Could not parse request", err)
	}
	return bot.Solve(ctx, req)
}

// Connect dials NATS, retrying with backoff until ctx is done.
func Connect(ctx context.Context, url string) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(10),
		retry.OnRetry(func(n uint, err error) {
			log.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-retrying")
		}),
	)
	return nc, err
}

// Main serves requests on subject until ctx is cancelled.
func Main(ctx context.Context, subject string, bot *Bot) error {
	nc, err := Connect(ctx, bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()

	_, err = nc.Subscribe(subject, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		resp := bot.handle(ctx, m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			m.Respond([]byte(err.Error()))
			return
		}
		if err := m.Respond(data); err != nil {
			log.Err(err).Msg("bot-respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	log.Info().Msgf("Listening on [%s]", subject)

	<-ctx.Done()
	return nc.Drain()
}
