package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"regi/m/internal/api"
	"regi/m/internal/catalog"
	"regi/m/internal/checkout"
	"regi/m/internal/config"
	"regi/m/internal/database"
	"regi/m/internal/logging"
	"regi/m/internal/migrations"
	"regi/m/internal/saleslog"
	"regi/m/internal/seed"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = seed.LoadCatalog(cfg.CatalogPath, logger)
		if err != nil {
			logger.Fatal("failed to load catalog", zap.Error(err))
		}
	}

	opts := saleslog.Options{
		Driver:       cfg.SalesStore,
		DetailedPath: cfg.DetailedLogPath,
		SummaryPath:  cfg.SummaryLogPath,
	}
	if cfg.SalesStore == saleslog.DriverSQLite {
		db, err := database.Connect(cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("failed to open sales database", zap.Error(err))
		}
		if err := migrations.Run(db); err != nil {
			logger.Fatal("failed to migrate sales database", zap.Error(err))
		}
		opts.DB = db
	}
	store, err := saleslog.Open(opts)
	if err != nil {
		logger.Fatal("failed to open sales store", zap.Error(err))
	}
	defer store.Close()

	register := checkout.NewRegister(cat, store, logger)
	handler := api.New(register, cat, store, logger, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("register server starting",
			zap.String("port", cfg.HTTPPort),
			zap.String("sales_store", cfg.SalesStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down register server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
