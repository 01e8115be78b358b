package push

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	Title = "Panduan Shalat"
	Icon  = "/icons/icon-192x192.png"
	Badge = "/icons/icon-72x72.png"

	// FallbackBody replaces payloads that carry no usable text.
	FallbackBody = "Ada pembaruan pada Panduan Shalat."
)

// Notification is what an open page displays when a push payload arrives.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
}

// FromPayload uses the payload text verbatim as the body. Empty, blank or
// non UTF-8 payloads get FallbackBody.
func FromPayload(payload []byte) Notification {
	body := string(payload)
	if !utf8.Valid(payload) || strings.TrimSpace(body) == "" {
		body = FallbackBody
	}
	return Notification{Title: Title, Body: body, Icon: Icon, Badge: Badge}
}

// Publisher delivers a raw push payload to subscribers somewhere.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// Fanout publishes to every publisher, even when some of them fail.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, payload []byte) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
