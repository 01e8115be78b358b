package edge

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/push"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/signal"
)

const (
	eventsPingInterval = 30 * time.Second
	eventsWriteTimeout = 10 * time.Second
	eventsReadTimeout  = 60 * time.Second
	eventsBuffer       = 32
)

// Event types sent to pages.
const (
	EventConnected     = "connected"
	EventConnectivity  = "connectivity"
	EventInstallPrompt = "install_prompt"
	EventNotification  = "notification"
	EventError         = "error"
)

type Event struct {
	Type         string             `json:"type"`
	Session      string             `json:"session,omitempty"`
	Status       signal.Status      `json:"status,omitempty"`
	Available    bool               `json:"available,omitempty"`
	Outcome      signal.Outcome     `json:"outcome,omitempty"`
	Notification *push.Notification `json:"notification,omitempty"`
	Message      string             `json:"message,omitempty"`
}

// ClientMessage is what a page may send back. Only "install" is understood.
type ClientMessage struct {
	Type    string         `json:"type"`
	Outcome signal.Outcome `json:"outcome,omitempty"`
}

// GET /_edge/events
// Streams signals to one page until it disconnects. Every subscription taken
// here is closed when the socket goes away.
func (g *Gateway) events(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := uuid.New().String()
	send := make(chan Event, eventsBuffer)
	enqueue := func(e Event) {
		select {
		case send <- e:
		default:
			log.Warn().Str("session", session).Str("type", e.Type).Msg("page is not keeping up, dropping event")
		}
	}

	subs := []*signal.Subscription{
		g.connectivity.Subscribe(func(s signal.Status) {
			enqueue(Event{Type: EventConnectivity, Status: s})
		}),
		g.prompt.Subscribe(func(p signal.PromptEvent) {
			enqueue(Event{Type: EventInstallPrompt, Available: p.Available, Outcome: p.Outcome})
		}),
		g.notifications.Subscribe(func(n push.Notification) {
			enqueue(Event{Type: EventNotification, Notification: &n})
		}),
	}
	log.Info().Str("session", session).Msg("page connected to edge events")

	enqueue(Event{Type: EventConnected, Session: session})
	enqueue(Event{Type: EventConnectivity, Status: g.connectivity.Status()})
	if g.prompt.Available() {
		enqueue(Event{Type: EventInstallPrompt, Available: true})
	}

	done := make(chan struct{})

	// Write pump
	go func() {
		ticker := time.NewTicker(eventsPingInterval)
		defer ticker.Stop()
		defer conn.Close()

		for {
			select {
			case e := <-send:
				_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteTimeout))
				if err := conn.WriteJSON(e); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Read pump (blocks until disconnect)
	defer func() {
		for _, s := range subs {
			s.Close()
		}
		close(done)
		log.Info().Str("session", session).Msg("page disconnected from edge events")
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventsReadTimeout))
	})
	for {
		_ = conn.SetReadDeadline(time.Now().Add(eventsReadTimeout))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			enqueue(Event{Type: EventError, Message: "invalid message format"})
			continue
		}

		switch msg.Type {
		case "install":
			if apiErr := g.resolvePrompt(msg.Outcome); apiErr != nil {
				enqueue(Event{Type: EventError, Message: apiErr.Message})
			}
		default:
			enqueue(Event{Type: EventError, Message: "unknown message type"})
		}
	}
}
