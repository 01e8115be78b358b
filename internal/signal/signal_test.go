package signal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterDeliversUntilClosed(t *testing.T) {
	b := NewBroadcaster[int]()
	var got []int
	sub := b.Subscribe(func(v int) { got = append(got, v) })
	assert.Equal(t, 1, b.Len())

	b.Publish(1)
	b.Publish(2)
	sub.Close()
	b.Publish(3)

	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, b.Len())

	// closing twice is harmless
	sub.Close()
	var nilSub *Subscription
	nilSub.Close()
}

func TestBroadcasterConcurrentSubscribers(t *testing.T) {
	b := NewBroadcaster[string]()
	var mu sync.Mutex
	count := 0

	var wg sync.WaitGroup
	subs := make([]*Subscription, 10)
	for i := range subs {
		subs[i] = b.Subscribe(func(string) {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish("x")
		}()
	}
	wg.Wait()
	for _, s := range subs {
		s.Close()
	}

	assert.Equal(t, 50, count)
}

func TestBroadcasterHandlerMayCloseSubscriptions(t *testing.T) {
	b := NewBroadcaster[int]()

	var once, other []int
	var self, peer *Subscription
	self = b.Subscribe(func(v int) {
		once = append(once, v)
		self.Close()
		peer.Close()
	})
	peer = b.Subscribe(func(v int) { other = append(other, v) })

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		b.Publish(1)
		b.Publish(2)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish deadlocked when a handler closed a subscription")
	}

	assert.Equal(t, []int{1}, once)
	assert.LessOrEqual(t, len(other), 1, "peer closed during the first publish gets at most that value")
	assert.Equal(t, 0, b.Len())
}

func TestConnectivityPublishesTransitionsOnly(t *testing.T) {
	c := NewConnectivity()
	assert.Equal(t, Online, c.Status())

	var got []Status
	sub := c.Subscribe(func(s Status) { got = append(got, s) })
	defer sub.Close()

	c.Report(Online)
	c.Report(Offline)
	c.Report(Offline)
	c.Report(Online)

	assert.Equal(t, []Status{Offline, Online}, got)
	assert.Equal(t, Online, c.Status())
}

func TestInstallPrompt(t *testing.T) {
	p := NewInstallPrompt()
	assert.ErrorIs(t, p.Resolve(Accepted), ErrNoPrompt)

	var events []PromptEvent
	sub := p.Subscribe(func(e PromptEvent) { events = append(events, e) })
	defer sub.Close()

	p.Offer()
	p.Offer()
	assert.True(t, p.Available())

	assert.ErrorIs(t, p.Resolve("maybe"), ErrUnknownOutcome)
	require.NoError(t, p.Resolve(Dismissed))
	assert.False(t, p.Available())

	assert.Equal(t, []PromptEvent{
		{Available: true},
		{Available: false, Outcome: Dismissed},
	}, events)
}
