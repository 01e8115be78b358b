package signal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoPrompt       = errors.New("no install prompt is pending")
	ErrUnknownOutcome = errors.New("unknown install prompt outcome")
)

type Outcome string

const (
	Accepted  Outcome = "accepted"
	Dismissed Outcome = "dismissed"
)

// PromptEvent is published when the install prompt becomes available or is resolved.
type PromptEvent struct {
	Available bool    `json:"available"`
	Outcome   Outcome `json:"outcome,omitempty"`
}

// InstallPrompt holds a deferred "add to home screen" offer until the page resolves it.
type InstallPrompt struct {
	mu      sync.Mutex
	pending bool
	b       *Broadcaster[PromptEvent]
}

func NewInstallPrompt() *InstallPrompt {
	return &InstallPrompt{b: NewBroadcaster[PromptEvent]()}
}

func (p *InstallPrompt) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Offer stashes the prompt. Offering twice is a no-op.
func (p *InstallPrompt) Offer() {
	p.mu.Lock()
	if p.pending {
		p.mu.Unlock()
		return
	}
	p.pending = true
	p.mu.Unlock()

	p.b.Publish(PromptEvent{Available: true})
}

func (p *InstallPrompt) Resolve(o Outcome) error {
	if o != Accepted && o != Dismissed {
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, o)
	}

	p.mu.Lock()
	if !p.pending {
		p.mu.Unlock()
		return ErrNoPrompt
	}
	p.pending = false
	p.mu.Unlock()

	if o == Accepted {
		log.Info().Msg("user accepted the install prompt")
	} else {
		log.Info().Msg("user dismissed the install prompt")
	}
	p.b.Publish(PromptEvent{Available: false, Outcome: o})
	return nil
}

func (p *InstallPrompt) Subscribe(fn func(PromptEvent)) *Subscription {
	return p.b.Subscribe(fn)
}
