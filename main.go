package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yacinebz/go-crud-soft-delete/cache"
	"github.com/yacinebz/go-crud-soft-delete/config"
	"github.com/yacinebz/go-crud-soft-delete/internal/database"
	"github.com/yacinebz/go-crud-soft-delete/search"
	"github.com/yacinebz/go-crud-soft-delete/web"
	"github.com/yacinebz/go-crud-soft-delete/web/handlers"
)

func main() {
	_ = godotenv.Load() // Load .env file if present

	cfg, err := config.New()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan

		logger.Info("received signal, shutting down")

		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("service exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	client, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	db, err := database.New(client, logger)
	if err != nil {
		return err
	}

	cacheClient, err := cache.NewClient(&cache.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer func() { _ = cacheClient.Close() }()

	searchSvc, err := search.New(&search.Config{URL: cfg.ElasticsearchURL})
	if err != nil {
		return err
	}

	return web.Start(ctx, web.Config{
		Addr: cfg.Addr,
		Deps: handlers.Dependencies{
			Logger:   logger,
			DB:       db,
			Cache:    cacheClient,
			Search:   searchSvc,
			CacheTTL: cfg.CacheTTL,
		},
	})
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
