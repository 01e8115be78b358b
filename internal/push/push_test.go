package push

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/signal"
)

func TestFromPayload(t *testing.T) {
	n := FromPayload([]byte("Waktu Maghrib telah tiba"))
	assert.Equal(t, Notification{
		Title: "Panduan Shalat",
		Body:  "Waktu Maghrib telah tiba",
		Icon:  "/icons/icon-192x192.png",
		Badge: "/icons/icon-72x72.png",
	}, n)

	// verbatim, surrounding whitespace included
	assert.Equal(t, "  spasi ", FromPayload([]byte("  spasi ")).Body)

	for _, bad := range [][]byte{nil, {}, []byte("   \n\t"), {0xff, 0xfe, 0xfd}} {
		assert.Equal(t, FallbackBody, FromPayload(bad).Body, "payload %q", bad)
	}
}

type recordingPublisher struct {
	got [][]byte
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, payload []byte) error {
	p.got = append(p.got, payload)
	return p.err
}

func TestFanoutPublishesToAll(t *testing.T) {
	a := &recordingPublisher{}
	b := &recordingPublisher{err: errors.New("broker down")}
	c := &recordingPublisher{}

	err := Fanout{a, b, c}.Publish(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, a.got, 1)
	assert.Len(t, c.got, 1)

	assert.NoError(t, Fanout{a}.Publish(context.Background(), []byte("y")))
	assert.NoError(t, Fanout{}.Publish(context.Background(), []byte("z")))
}

// doneToken is an already completed mqtt.Token.
type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

// fakeBroker routes publishes on the client straight to its subscribers.
type fakeBroker struct {
	mqtt.Client
	mu       sync.Mutex
	handlers map[string]mqtt.MessageHandler
	failSub  error
}

func (b *fakeBroker) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	b.mu.Lock()
	h := b.handlers[topic]
	b.mu.Unlock()
	if h != nil {
		h(b, fakeMessage{topic: topic, payload: payload.([]byte)})
	}
	return doneToken{}
}

func (b *fakeBroker) Subscribe(topic string, _ byte, h mqtt.MessageHandler) mqtt.Token {
	if b.failSub != nil {
		return doneToken{err: b.failSub}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = map[string]mqtt.MessageHandler{}
	}
	b.handlers[topic] = h
	return doneToken{}
}

func (b *fakeBroker) Unsubscribe(topics ...string) mqtt.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, topic := range topics {
		delete(b.handlers, topic)
	}
	return doneToken{}
}

func TestMQTTRoundTripIntoHub(t *testing.T) {
	ctx := context.Background()
	broker := &fakeBroker{}
	c := newMQTTClient(broker, "")
	assert.Equal(t, DefaultTopic, c.Topic())

	hub := signal.NewBroadcaster[Notification]()
	var got []Notification
	sub := hub.Subscribe(func(n Notification) { got = append(got, n) })
	defer sub.Close()

	stop, err := c.Listen(ctx, hub)
	require.NoError(t, err)

	require.NoError(t, c.Publish(ctx, []byte("Jangan lupa shalat Isya")))
	require.NoError(t, c.Publish(ctx, []byte("")))
	stop()
	require.NoError(t, c.Publish(ctx, []byte("after unsubscribe")))

	require.Len(t, got, 2)
	assert.Equal(t, "Jangan lupa shalat Isya", got[0].Body)
	assert.Equal(t, FallbackBody, got[1].Body)
}

func TestMQTTListenSubscribeFailure(t *testing.T) {
	c := newMQTTClient(&fakeBroker{failSub: errors.New("not authorized")}, "t")
	_, err := c.Listen(context.Background(), signal.NewBroadcaster[Notification]())
	assert.ErrorContains(t, err, "not authorized")
}

func TestBuildFCMMessage(t *testing.T) {
	msg := buildFCMMessage("panduan", FromPayload([]byte("halo")))
	assert.Equal(t, "panduan", msg.Topic)
	assert.Equal(t, "halo", msg.Notification.Body)
	assert.Equal(t, Title, msg.Notification.Title)
	require.NotNil(t, msg.Webpush)
	assert.Equal(t, Icon, msg.Webpush.Notification.Icon)
	assert.Equal(t, Badge, msg.Webpush.Notification.Badge)
}
