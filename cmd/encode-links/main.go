package main

import (
	"flag"

	"lpfcatalog/internal/linkenc"
	"lpfcatalog/pkg/logger"
)

func main() {
	var (
		in       = flag.String("in", "data.json", "input JSON list")
		out      = flag.String("out", "updated_data.json", "output JSON list")
		links    = flag.String("links", "", "optional text file; line i becomes record i's embed_link before encoding")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log := logger.New(logger.Config{Level: *logLevel})

	records, err := linkenc.LoadRecords(*in)
	if err != nil {
		log.Fatal().Err(err).Msg("load records")
	}

	if *links != "" {
		lines, err := linkenc.ReadLines(*links)
		if err != nil {
			log.Fatal().Err(err).Msg("read links")
		}
		attached, leftover, err := linkenc.AttachLinks(records, lines)
		if err != nil {
			log.Fatal().Err(err).Msg("attach links")
		}
		if leftover > 0 {
			log.Warn().Int("leftover", leftover).Msg("more links than records")
		}
		log.Info().Int("attached", attached).Msg("links attached")
	}

	n, err := linkenc.EncodeRecords(records)
	if err != nil {
		log.Fatal().Err(err).Msg("encode links")
	}
	if err := linkenc.SaveRecords(*out, records); err != nil {
		log.Fatal().Err(err).Msg("save records")
	}
	log.Info().Int("encoded", n).Int("records", len(records)).Str("out", *out).Msg("links updated")
}
