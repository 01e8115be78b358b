package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FCMPublisher forwards push payloads to a Firebase Cloud Messaging topic so
// installed devices get them while no page is open.
type FCMPublisher struct {
	client *messaging.Client
	topic  string
}

var _ Publisher = (*FCMPublisher)(nil)

// NewFCMPublisher uses the service account file when given, application default
// credentials otherwise.
func NewFCMPublisher(ctx context.Context, serviceAccountPath, topic string) (*FCMPublisher, error) {
	var opts []option.ClientOption
	if serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firebase messaging client: %w", err)
	}

	log.Info().Str("topic", topic).Msg("FCM publisher initialized")
	return &FCMPublisher{client: client, topic: topic}, nil
}

func buildFCMMessage(topic string, n Notification) *messaging.Message {
	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: n.Title,
				Body:  n.Body,
				Icon:  n.Icon,
				Badge: n.Badge,
			},
		},
	}
}

func (p *FCMPublisher) Publish(ctx context.Context, payload []byte) error {
	id, err := p.client.Send(ctx, buildFCMMessage(p.topic, FromPayload(payload)))
	if err != nil {
		return fmt.Errorf("failed to send FCM message to topic %s: %w", p.topic, err)
	}
	log.Info().Str("topic", p.topic).Str("messageID", id).Msg("FCM message sent")
	return nil
}
