package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tsume/bot"
	"github.com/domino14/tsume/config"
)

var cfg *config.Config
var nc *nats.Conn

func HandleRequest(ctx context.Context, evt bot.LambdaEvent) (string, error) {
	logger := log.With().
		Str("requestID", evt.RequestID).
		Logger()

	b := bot.NewBot(cfg, nil)
	resp := b.Solve(ctx, evt.Request)
	logger.Info().Str("sfen", evt.SFEN).Int("depth", evt.Depth).
		Bool("found", resp.Found).Uint64("nodes", resp.Nodes).Msg("solved")

	if evt.ReplyChannel != "" {
		if nc == nil {
			return "", errors.New("reply channel given but no nats connection")
		}
		data, err := json.Marshal(resp)
		if err != nil {
			return "", err
		}
		logger.Info().Msg("result-sending-via-nats")
		err = retry.Do(
			func() error {
				// We're just waiting for an acknowledgement. The actual
				// data doesn't matter.
				_, err := nc.Request(evt.ReplyChannel, data, 3*time.Second)
				return err
			},
			retry.Context(ctx),
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				logger.Err(err).Uint("n", n).
					Msg("did-not-receive-ack-try-again")
				return retry.BackOffDelay(n, err, config)
			}),
		)
		if err != nil {
			logger.Err(err).Msg("reply-failed")
		}
	}
	logger.Info().Msg("exiting-fn")

	if resp.Error != "" {
		return "", errors.New(resp.Error)
	}
	if !resp.Found {
		return "", fmt.Errorf("no mate within %d plies", evt.Depth)
	}
	return strings.Join(resp.Moves, " "), nil
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg = &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-arguments")
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")
	cfg.AdjustRelativePaths(exPath)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	nc, err = bot.Connect(context.Background(), cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}

	lambda.Start(HandleRequest)
}
