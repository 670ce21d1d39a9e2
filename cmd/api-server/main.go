package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"lpfcatalog/internal/auth"
	"lpfcatalog/internal/catalog"
	"lpfcatalog/internal/organizer"
	"lpfcatalog/internal/store"
	synchub "lpfcatalog/internal/sync"
	"lpfcatalog/internal/watch"
	"lpfcatalog/pkg/database"
	"lpfcatalog/pkg/logger"
	"lpfcatalog/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (default $LPF_CONFIG)")
	organizeOnStart := flag.Bool("organize", false, "run one organize pass before serving")
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	log := logger.New(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	dbCfg := database.DefaultConfig()
	if cfg.Database.Path != "" {
		dbCfg = database.ConfigFor(cfg.Database.Path)
	}
	db, err := database.Open(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Str("db", dbCfg.Path).Msg("open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start TCP sync first so binding errors show up early.
	hub := synchub.NewHub(logger.Component(log, "sync"))
	router.GET("/ws", synchub.WSHandler(hub, cfg.Server.WSOrigins...))
	tcpSrv := synchub.NewServer(cfg.Server.TCPAddr, hub, logger.Component(log, "tcp"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path, "data_dir": cfg.DataDir})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	repo := store.NewRepo(db)
	org := organizer.New(cfg.DataDir, logger.Component(log, "organizer"))
	svc := catalog.NewService(org, repo, hub, logger.Component(log, "catalog"))

	catHandler := catalog.NewHandler(repo, cfg.DataDir, svc)
	catHandler.RegisterRoutes(router.Group("/catalog"))
	catHandler.RegisterDataRoutes(router.Group("/data"))

	// Auth
	authCfg := utils.LoadAuthConfigFrom(cfg.Auth)
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	if authCfg.AdminPasswordHash == "" {
		log.Warn().Msg("no admin password hash configured, admin login disabled")
	}
	auth.NewHandler(tokenSvc, authCfg.AdminPasswordHash).RegisterRoutes(router.Group("/auth"))

	// Admin (protected)
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(tokenSvc, auth.RoleAdmin))
	catHandler.RegisterAdminRoutes(admin)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *organizeOnStart {
		if _, err := svc.Organize(ctx, "startup"); err != nil {
			log.Error().Err(err).Msg("startup organize failed")
		}
	}

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", cfg.Server.Addr).Msg("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.Server.Watch {
		w := watch.New(cfg.DataDir, cfg.Server.Debounce, func(ctx context.Context) error {
			_, err := svc.Organize(ctx, "watch")
			return err
		}, logger.Component(log, "watch"))

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}
	stop()

	log.Info().Msg("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	if err := tcpSrv.Close(); err != nil {
		log.Error().Err(err).Msg("tcp shutdown error")
	}
	hub.CloseAll()

	wg.Wait()
	log.Info().Msg("servers stopped")
}
