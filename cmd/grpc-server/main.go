package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"lpfcatalog/internal/grpcserver"
	"lpfcatalog/internal/store"
	"lpfcatalog/pkg/database"
	"lpfcatalog/pkg/logger"
	"lpfcatalog/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (default $LPF_CONFIG)")
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	log := logger.New(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger.Component(log, "grpc"))
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("grpc server stopped")
	}
}

func run(ctx context.Context, cfg utils.Config, log zerolog.Logger) error {
	db, err := database.Open(database.ConfigFor(cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	grpcServer := grpc.NewServer()
	grpcserver.RegisterCatalogServiceServer(grpcServer, grpcserver.NewServer(store.NewRepo(db)))

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		grpcServer.GracefulStop()
	}()

	log.Info().Str("addr", listener.Addr().String()).Msg("gRPC server listening")
	return grpcServer.Serve(listener)
}
