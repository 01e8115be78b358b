package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Connect opens a client and waits for redis to answer, retrying like the origin
// waits for its other dependencies at boot.
func Connect(ctx context.Context, address, username, password string) (*redis.Client, error) {
	const maxRetries = 5
	const retryInterval = 2 * time.Second

	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = rdb.Ping(ctx).Err(); err == nil {
			log.Info().Str("address", address).Msg("connected to redis")
			return rdb, nil
		}

		log.Error().Err(err).
			Int("attempt", attempt).
			Msgf("failed to reach redis, retrying in %s", retryInterval)

		select {
		case <-ctx.Done():
			rdb.Close()
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	rdb.Close()
	return nil, fmt.Errorf("could not connect to redis after %d attempts: %w", maxRetries, err)
}
