package signal

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Status string

const (
	Online  Status = "online"
	Offline Status = "offline"
)

// Connectivity tracks whether the origin is reachable and publishes transitions only.
type Connectivity struct {
	mu     sync.Mutex
	status Status
	b      *Broadcaster[Status]
}

func NewConnectivity() *Connectivity {
	return &Connectivity{status: Online, b: NewBroadcaster[Status]()}
}

func (c *Connectivity) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Report records the outcome of a network round trip.
func (c *Connectivity) Report(s Status) {
	c.mu.Lock()
	if c.status == s {
		c.mu.Unlock()
		return
	}
	c.status = s
	c.mu.Unlock()

	log.Info().Str("status", string(s)).Msg("connectivity changed")
	c.b.Publish(s)
}

func (c *Connectivity) Subscribe(fn func(Status)) *Subscription {
	return c.b.Subscribe(fn)
}
