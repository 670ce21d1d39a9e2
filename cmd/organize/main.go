package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"lpfcatalog/internal/organizer"
	"lpfcatalog/internal/store"
	"lpfcatalog/pkg/database"
	"lpfcatalog/pkg/logger"
	"lpfcatalog/pkg/utils"
)

type options struct {
	dataDir string
	persist bool
	dbPath  string
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $LPF_CONFIG)")
		opts       options
	)
	flag.StringVar(&opts.dataDir, "data", "", "data directory (overrides config)")
	flag.BoolVar(&opts.persist, "db", false, "also store the catalog in the sqlite database")
	flag.StringVar(&opts.dbPath, "db-path", "", "sqlite path (overrides config)")
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	log := logger.New(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, opts, log)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("organize failed")
	}
}

// run does the whole job so deferred cleanup happens before main exits.
func run(ctx context.Context, cfg utils.Config, opts options, log zerolog.Logger) error {
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}

	org := organizer.New(cfg.DataDir, logger.Component(log, "organizer"))
	res, err := org.Run(ctx)
	if err != nil {
		return err
	}

	if opts.persist {
		dbCfg := database.DefaultConfig()
		if cfg.Database.Path != "" {
			dbCfg = database.ConfigFor(cfg.Database.Path)
		}
		db, err := database.Open(dbCfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
		saved, err := store.NewRepo(db).SaveCatalog(ctx, res.Catalog, len(res.ValidationErrors))
		if err != nil {
			return fmt.Errorf("persist catalog: %w", err)
		}
		log.Info().Str("run_id", saved.ID).Str("db", dbCfg.Path).Msg("catalog stored")
	}

	log.Info().
		Str("catalog", organizer.CatalogFile).
		Str("summary", organizer.SummaryFile).
		Int("series", res.Summary.SeriesCount).
		Msg("done")
	return nil
}
