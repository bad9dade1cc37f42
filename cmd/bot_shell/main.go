// bot_shell sends positions to a running bot and prints its answers. Each
// input line is an SFEN, optionally followed by "@ depth".
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tsume/bot"
	"github.com/domino14/tsume/config"
)

const requestTimeout = 3 * time.Minute

// parseLine splits "<sfen> @ <depth>"; depth 0 asks for the bot's default.
func parseLine(line string) (string, int, error) {
	pos, depthStr, ok := strings.Cut(line, "@")
	if !ok {
		return strings.TrimSpace(line), 0, nil
	}
	depth, err := strconv.Atoi(strings.TrimSpace(depthStr))
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(pos), depth, nil
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx := context.Background()
	nc, err := bot.Connect(ctx, cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-connect")
	}
	defer nc.Close()
	client := bot.NewClient(nc, cfg.GetString(config.ConfigNatsSubject))

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mbot>\033[0m ",
		HistoryFile:     "/tmp/tsume_bot_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		pos, depth, err := parseLine(line)
		if err != nil {
			fmt.Fprintln(l.Stderr(), "Error: "+err.Error())
			continue
		}
		rctx, cancel := context.WithTimeout(ctx, requestTimeout)
		resp, err := client.RequestSolution(rctx, pos, depth)
		cancel()
		if err != nil {
			fmt.Fprintln(l.Stderr(), "Error: "+err.Error())
			continue
		}
		if !resp.Found {
			fmt.Fprintf(l.Stdout(), "no mate (%d nodes)\n", resp.Nodes)
			continue
		}
		fmt.Fprintf(l.Stdout(), "mate in %d: %s (%d nodes)\n",
			len(resp.Moves), strings.Join(resp.Moves, " "), resp.Nodes)
	}
}
