package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"aifinder/internal/config"
	apphttp "aifinder/internal/http"
	applog "aifinder/internal/log"
	"aifinder/internal/metrics"
	"aifinder/internal/repos"
)

func main() {
	cfg := config.Load()
	applog.Init("aifinder", cfg.IsDevelopment(), cfg.LogLevel)
	logger := applog.Logger
	logger.Info().
		Str("port", cfg.Port).
		Bool("postgres", cfg.IsPostgres()).
		Dur("db_timeout", cfg.DBTimeout).
		Str("environment", cfg.Environment).
		Bool("seed_demo", cfg.SeedDemo).
		Msg("config loaded")

	db, err := repos.OpenDB(cfg.DatabaseURL, cfg.SeedDemo)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	app, err := apphttp.NewApp(cfg, db, metrics.New())
	if err != nil {
		logger.Fatal().Err(err).Msg("build app")
	}

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Bool("postgres", cfg.IsPostgres()).Msg("aifinder starting")
		if err := app.Listen(addr); err != nil {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("aifinder stopped")
}
