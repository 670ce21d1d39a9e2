package main

import (
	"flag"

	"lpfcatalog/internal/textclean"
	"lpfcatalog/pkg/logger"
)

func main() {
	var (
		in       = flag.String("in", "data.txt", "input text file")
		out      = flag.String("out", "cleaned_data.txt", "output text file")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log := logger.New(logger.Config{Level: *logLevel})

	n, err := textclean.CleanFile(*in, *out)
	if err != nil {
		log.Fatal().Err(err).Str("in", *in).Msg("clean lines")
	}
	log.Info().Int("lines", n).Str("out", *out).Msg("cleaned data saved")
}
