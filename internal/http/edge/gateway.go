// Package edge is the HTTP face of the offline cache manager: every request a
// page makes goes through Gateway, which answers it cache first.
package edge

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/offline"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/push"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/signal"
)

// maxForwardBody bounds request bodies forwarded to the origin.
const maxForwardBody = 64 << 10

type Gateway struct {
	manager       *offline.Manager
	origin        *url.URL
	connectivity  *signal.Connectivity
	prompt        *signal.InstallPrompt
	notifications *signal.Broadcaster[push.Notification]

	upgrader websocket.Upgrader
}

func NewGateway(
	manager *offline.Manager,
	origin *url.URL,
	connectivity *signal.Connectivity,
	prompt *signal.InstallPrompt,
	notifications *signal.Broadcaster[push.Notification],
) *Gateway {
	return &Gateway{
		manager:       manager,
		origin:        origin,
		connectivity:  connectivity,
		prompt:        prompt,
		notifications: notifications,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Register mounts the /_edge control endpoints and sends everything else through the cache.
func (g *Gateway) Register(r *gin.Engine) {
	api.MountGroup(r, api.GroupConfig{Prefix: "/_edge"}, api.ModuleFunc(func(c *api.Controller) {
		c.GET("/status", g.status)
		c.POST("/install", g.install)
		c.Handle(http.MethodGet, "/events", g.events)
	}))
	r.NoRoute(g.proxy)
}

// hopHeaders are dropped in both directions.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
	"Content-Length":    true,
}

func requestMode(r *http.Request) offline.Mode {
	switch offline.Mode(r.Header.Get("Sec-Fetch-Mode")) {
	case offline.ModeNavigate:
		return offline.ModeNavigate
	case offline.ModeCORS:
		return offline.ModeCORS
	case offline.ModeNoCORS:
		return offline.ModeNoCORS
	}
	// clients without fetch metadata: a GET asking for HTML is a page load
	if r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html") {
		return offline.ModeNavigate
	}
	return offline.ModeSameOrigin
}

func (g *Gateway) toRequest(c *gin.Context) (*offline.Request, error) {
	target := g.origin.ResolveReference(&url.URL{
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	})

	header := c.Request.Header.Clone()
	for h := range hopHeaders {
		header.Del(h)
	}

	req := &offline.Request{
		Method: c.Request.Method,
		URL:    target.String(),
		Mode:   requestMode(c.Request),
		Header: header,
	}
	if c.Request.Body != nil && c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxForwardBody))
		if err != nil {
			return nil, err
		}
		req.Body = body
	}
	return req, nil
}

func (g *Gateway) proxy(c *gin.Context) {
	req, err := g.toRequest(c)
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}

	resp, err := g.manager.Handle(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, offline.ErrNetwork) {
			log.Warn().Err(err).Str("url", req.URL).Str("mode", string(req.Mode)).Msg("origin unreachable and nothing cached")
		} else {
			log.Error().Err(err).Str("url", req.URL).Msg("edge request failed")
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "origin unreachable"})
		return
	}

	for k, vs := range resp.Header {
		if hopHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		for _, v := range vs {
			c.Writer.Header().Add(k, v)
		}
	}
	c.Data(resp.Status, resp.Header.Get("Content-Type"), resp.Body)
}

type statusResponse struct {
	Version          string        `json:"version"`
	State            string        `json:"state"`
	Connectivity     signal.Status `json:"connectivity"`
	InstallAvailable bool          `json:"install_available"`
	Stores           []string      `json:"stores"`
}

// GET /_edge/status
func (g *Gateway) status(c *gin.Context) (any, *api.APIError) {
	stores, err := g.manager.Stores(c.Request.Context())
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list caches"}
	}
	return statusResponse{
		Version:          g.manager.Version(),
		State:            g.manager.State().String(),
		Connectivity:     g.connectivity.Status(),
		InstallAvailable: g.prompt.Available(),
		Stores:           stores,
	}, nil
}

type installRequest struct {
	Outcome signal.Outcome `json:"outcome" binding:"required"`
}

// POST /_edge/install
func (g *Gateway) install(c *gin.Context) (any, *api.APIError) {
	var request installRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if apiErr := g.resolvePrompt(request.Outcome); apiErr != nil {
		return nil, apiErr
	}
	return signal.PromptEvent{Available: false, Outcome: request.Outcome}, nil
}

func (g *Gateway) resolvePrompt(o signal.Outcome) *api.APIError {
	err := g.prompt.Resolve(o)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, signal.ErrNoPrompt):
		return &api.APIError{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, signal.ErrUnknownOutcome):
		return &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	default:
		return &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
}
