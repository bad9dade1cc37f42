package bot

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

type Client struct {
	nc      *nats.Conn
	subject string
}

func NewClient(nc *nats.Conn, subject string) *Client {
	return &Client{nc: nc, subject: subject}
}

func MakeRequest(sfen string, depth int) ([]byte, error) {
	return json.Marshal(Request{SFEN: sfen, Depth: depth})
}

// ParseResponse decodes a bot reply. An error reported by the bot is
// returned as an error.
func ParseResponse(data []byte) (*Response, error) {
	resp := &Response{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("Bot returned: " + resp.Error)
	}
	return resp, nil
}

// RequestSolution sends a position to the bot and waits for its answer.
func (c *Client) RequestSolution(ctx context.Context, sfen string, depth int) (*Response, error) {
	data, err := MakeRequest(sfen, depth)
	if err != nil {
		return nil, err
	}
	res, err := c.nc.RequestWithContext(ctx, c.subject, data)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Error().Msgf("%v for request", err)
		return nil, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))
	return ParseResponse(res.Data)
}
