package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/config"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/dataset"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/logging"
)

func main() {
	// load configuration
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.Development())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storageSystem, err := InitStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize asset storage")
	}

	// the dataset is read once and never changes while the process runs
	ds, err := dataset.Load(ctx, storageSystem)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load prayer dataset")
	}

	tmpl, err := LoadTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse shell templates")
	}

	publisher, closePublisher, err := InitPublisher(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize push publisher")
	}
	defer closePublisher()

	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware())
	RegisterRoutes(r, cfg, ds, storageSystem, publisher, tmpl)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("origin server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down origin server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
