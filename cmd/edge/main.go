package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/config"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/edge"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/logging"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/offline"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/push"
	redisclient "github.com/Nixie-Tech-LLC/panduan-shalat/internal/redis"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/signal"
)

// installRetryInterval spaces install attempts while the origin is unreachable.
const installRetryInterval = 15 * time.Second

func main() {
	cfg, err := config.LoadEdge()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.Development())

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheStorage, err := initCacheStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache storage")
	}

	connectivity := signal.NewConnectivity()
	prompt := signal.NewInstallPrompt()
	notifications := signal.NewBroadcaster[push.Notification]()

	manager, err := offline.NewManager(offline.Config{
		Version: cfg.CacheVersion,
		Origin:  cfg.OriginURL,
	}, cacheStorage, offline.NewHTTPFetcher(cfg.OriginURL),
		offline.WithConnectivity(connectivity),
		offline.WithInstallPrompt(prompt),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create cache manager")
	}

	// until install succeeds requests go to the network first, falling back to existing stores
	go startManager(ctx, manager)

	if cfg.MQTTBrokerURL != "" {
		client, err := push.NewMQTTClient(cfg.MQTTBrokerURL, "panduan-shalat-edge-"+uuid.New().String(), cfg.MQTTTopic)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MQTT broker")
		}
		defer client.Close()

		unsubscribe, err := client.Listen(ctx, notifications)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to listen for push payloads")
		}
		defer unsubscribe()
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware())
	edge.NewGateway(manager, cfg.OriginURL, connectivity, prompt, notifications).Register(r)

	srv := &http.Server{
		Addr:              cfg.EdgeAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.EdgeAddress).Str("origin", cfg.OriginURL.String()).Msg("edge gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down edge gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func initCacheStorage(ctx context.Context, cfg *config.EdgeConfig) (offline.Storage, error) {
	if cfg.RedisAddress == "" {
		log.Info().Msg("keeping caches in memory")
		return offline.NewMemoryStorage(), nil
	}

	rdb, err := redisclient.Connect(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}
	log.Info().Str("prefix", cfg.RedisPrefix).Msg("keeping caches in redis")
	return offline.NewRedisStorage(rdb, cfg.RedisPrefix), nil
}

// startManager retries Install until it succeeds; a failed install leaves the
// previous store untouched.
func startManager(ctx context.Context, manager *offline.Manager) {
	for {
		var err error
		if manager.State() == offline.StateInstalled {
			err = manager.Activate(ctx)
		} else {
			err = manager.Start(ctx)
		}
		if err == nil {
			return
		}
		log.Warn().Err(err).Dur("retry_in", installRetryInterval).Msg("cache manager not started")

		select {
		case <-ctx.Done():
			return
		case <-time.After(installRetryInterval):
		}
	}
}
