package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/FalconsSky/penguins/internal/archive"
	"github.com/FalconsSky/penguins/internal/config"
	"github.com/FalconsSky/penguins/internal/server"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("load configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	logger := log.With().Str("service", "penguins-server").Logger()
	logger.Info().Str("config", configPath).Msg("starting match server")

	var store *archive.Store
	if cfg.Archive.Path != "" {
		store, err = archive.Open(cfg.Archive.Path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Archive.Path).Msg("open archive")
		}
		defer store.Close()
		logger.Info().Str("path", cfg.Archive.Path).Msg("archive open")
	}

	srv, err := server.New(cfg, logger, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialize server")
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Server.Addr()); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Fatal().Err(err).Msg("server error")
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	if err := srv.Shutdown(); err != nil {
		logger.Warn().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("server stopped")
}
