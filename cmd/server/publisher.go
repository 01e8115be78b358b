package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/config"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/push"
)

// InitPublisher wires every configured push transport. It returns a nil publisher
// when none is configured. The returned func releases broker connections.
func InitPublisher(ctx context.Context, cfg *config.ServerConfig) (push.Publisher, func(), error) {
	var (
		fanout push.Fanout
		closer = func() {}
	)

	if cfg.MQTTBrokerURL != "" {
		client, err := push.NewMQTTClient(cfg.MQTTBrokerURL, "panduan-shalat-origin-"+uuid.New().String(), cfg.MQTTTopic)
		if err != nil {
			return nil, closer, err
		}
		fanout = append(fanout, client)
		closer = client.Close
	}

	if cfg.FCMTopic != "" {
		fcm, err := push.NewFCMPublisher(ctx, cfg.FirebaseServiceAccountPath, cfg.FCMTopic)
		if err != nil {
			closer()
			return nil, func() {}, err
		}
		fanout = append(fanout, fcm)
	}

	if len(fanout) == 0 {
		log.Info().Msg("no push transport configured")
		return nil, closer, nil
	}
	return fanout, closer, nil
}
