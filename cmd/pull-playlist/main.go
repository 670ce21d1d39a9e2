package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lpfcatalog/internal/playlist"
	"lpfcatalog/internal/rehost"
	"lpfcatalog/pkg/logger"
	"lpfcatalog/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $LPF_CONFIG)")
		out        = flag.String("out", "output.json", "output JSON file")
		noRehost   = flag.Bool("no-rehost", false, "keep the original thumbnail URLs")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <playlist-url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := utils.Load(*configPath)
	log := logger.New(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rh playlist.Rehoster
	if !*noRehost {
		rh = rehost.NewCatbox(cfg.Rehost.Endpoint, cfg.Rehost.Timeout)
	}
	p := playlist.NewPuller(playlist.NewYtDlp(cfg.YtDlp.Binary), rh, logger.Component(log, "playlist"))

	entries, err := p.Pull(ctx, flag.Arg(0))
	if errors.Is(err, playlist.ErrNoEntries) {
		log.Fatal().Str("url", flag.Arg(0)).Msg("no videos found in playlist")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("pull playlist")
	}

	if err := utils.WriteJSON(*out, entries); err != nil {
		log.Fatal().Err(err).Msg("write output")
	}
	log.Info().Int("videos", len(entries)).Str("out", *out).Msg("playlist saved")
}
