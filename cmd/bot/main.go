package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tsume/bot"
	"github.com/domino14/tsume/config"
	"github.com/domino14/tsume/store"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(exPath)
	log.Info().Interface("config", cfg.SanitizedSettings()).Str("exPath", exPath).Msg("loaded-config")

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var st *store.Store
	if path := cfg.GetString(config.ConfigDBPath); path != "" {
		st, err = store.Open(path)
		if err != nil {
			log.Fatal().Err(err).Msg("could-not-open-store")
		}
		defer st.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bot.NewBot(cfg, st)
	if err := bot.Main(ctx, cfg.GetString(config.ConfigNatsSubject), b); err != nil {
		log.Err(err).Msg("bot-exited")
		return
	}
	log.Info().Msg("server gracefully shutting down")
}
