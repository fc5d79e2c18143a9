package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nyckye/keyshop/internal/app"
	"github.com/nyckye/keyshop/internal/clock"
	"github.com/nyckye/keyshop/internal/config"
	"github.com/nyckye/keyshop/internal/storage/postgres"
	transporthttp "github.com/nyckye/keyshop/internal/transport/http"
	"github.com/nyckye/keyshop/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	clk := clock.NewSystem()
	lockOpt := postgres.WithLockTimeout(cfg.LockWait)

	catalogSvc := app.NewCatalogService(postgres.NewCatalogRepository(pool, lockOpt), clk)
	inventorySvc := app.NewInventoryService(postgres.NewInventoryRepository(pool, lockOpt), clk)
	purchaseSvc := app.NewPurchaseService(postgres.NewPurchaseRepository(pool, lockOpt), clk)
	userSvc := app.NewUserService(postgres.NewUserRepository(pool), clk)
	statsSvc := app.NewStatsService(postgres.NewStatsRepository(pool))

	router := transporthttp.NewRouter(transporthttp.Services{
		Catalog:   catalogSvc,
		Inventory: inventorySvc,
		Purchases: purchaseSvc,
		Users:     userSvc,
		Stats:     statsSvc,
	}, logger)

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, router), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info("api listening", slog.String("port", cfg.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
