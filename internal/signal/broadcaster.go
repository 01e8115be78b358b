// Package signal models lifecycle notifications (connectivity, install prompt,
// push messages) as explicit subscriptions that the subscriber must close.
package signal

import (
	"sync"
	"sync/atomic"
)

// Broadcaster fans a value out to every live subscriber. Handlers run on the
// publishing goroutine without any broadcaster lock held, so they may
// subscribe or close subscriptions (their own included). They must not block.
type Broadcaster[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*subscriber[T]
}

type subscriber[T any] struct {
	fn     func(T)
	closed atomic.Bool
}

func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[uint64]*subscriber[T])}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Close stops deliveries: no delivery starts after Close returns, though one
// already running on another goroutine may still finish. It is safe to call
// more than once.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

func (b *Broadcaster[T]) Subscribe(fn func(T)) *Subscription {
	sub := &subscriber[T]{fn: fn}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	return &Subscription{cancel: func() {
		sub.closed.Store(true)
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}}
}

func (b *Broadcaster[T]) Publish(v T) {
	b.mu.RLock()
	snapshot := make([]*subscriber[T], 0, len(b.subs))
	for _, sub := range b.subs {
		snapshot = append(snapshot, sub)
	}
	b.mu.RUnlock()

	for _, sub := range snapshot {
		if sub.closed.Load() {
			continue
		}
		sub.fn(v)
	}
}

// Len reports the number of live subscriptions.
func (b *Broadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
