package push

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/signal"
)

const (
	DefaultTopic = "panduan-shalat/push"
	qos          = 1
	quiesce      = 250
)

// MQTTClient carries raw push payloads over one broker topic. The origin publishes,
// the edge listens.
type MQTTClient struct {
	client mqtt.Client
	topic  string
}

var _ Publisher = (*MQTTClient)(nil)

// MQTT connection handlers
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// NewMQTTClient connects to brokerURL (e.g. tcp://localhost:1883).
func NewMQTTClient(brokerURL, clientID, topic string) (*MQTTClient, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Info().Str("broker", brokerURL).Str("clientID", clientID).Msg("MQTT client initialized")
	return newMQTTClient(client, topic), nil
}

func newMQTTClient(client mqtt.Client, topic string) *MQTTClient {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTClient{client: client, topic: topic}
}

func (c *MQTTClient) Topic() string { return c.topic }

// wait blocks until the token completes or ctx ends.
func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *MQTTClient) Publish(ctx context.Context, payload []byte) error {
	token := c.client.Publish(c.topic, qos, false, payload)
	if err := wait(ctx, token); err != nil {
		return fmt.Errorf("failed to publish push payload on %s: %w", c.topic, err)
	}
	log.Info().Str("topic", c.topic).Int("bytes", len(payload)).Msg("push payload published")
	return nil
}

// Listen turns every payload received on the topic into a Notification for the hub.
// Calling the returned function unsubscribes.
func (c *MQTTClient) Listen(ctx context.Context, hub *signal.Broadcaster[Notification]) (func(), error) {
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		n := FromPayload(msg.Payload())
		log.Debug().Str("topic", msg.Topic()).Msg("push payload received")
		hub.Publish(n)
	}

	if err := wait(ctx, c.client.Subscribe(c.topic, qos, handler)); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", c.topic, err)
	}
	log.Info().Str("topic", c.topic).Msg("listening for push payloads")

	return func() {
		if token := c.client.Unsubscribe(c.topic); token.WaitTimeout(time.Second) && token.Error() != nil {
			log.Error().Err(token.Error()).Str("topic", c.topic).Msg("failed to unsubscribe")
		}
	}, nil
}

func (c *MQTTClient) Close() {
	c.client.Disconnect(quiesce)
	log.Info().Msg("MQTT client disconnected")
}
