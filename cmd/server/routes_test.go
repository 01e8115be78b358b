package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/config"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/dataset"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/push"
)

type capturePublisher struct {
	payloads []string
}

func (c *capturePublisher) Publish(_ context.Context, payload []byte) error {
	c.payloads = append(c.payloads, string(payload))
	return nil
}

func setupRouter(t *testing.T, cfg *config.ServerConfig, publisher push.Publisher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storageSystem, err := InitStorage(cfg)
	require.NoError(t, err)
	ds, err := dataset.Load(context.Background(), storageSystem)
	require.NoError(t, err)
	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, cfg, ds, storageSystem, publisher, tmpl)
	return r
}

func testConfig() *config.ServerConfig {
	return &config.ServerConfig{
		JWTSecret: "supersecret",
		RateLimit: 100,
		RateBurst: 100,
	}
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesServeShellAndAPI(t *testing.T) {
	r := setupRouter(t, testConfig(), nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Panduan Shalat")

	req := httptest.NewRequest(http.MethodGet, "/api/prayers", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/manifest.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// no publisher, no push endpoint
	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/admin/push", strings.NewReader("x")))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutesPushWithOperatorToken(t *testing.T) {
	cfg := testConfig()
	pub := &capturePublisher{}
	r := setupRouter(t, cfg, pub)

	token, err := middleware.GenerateJWT("ops", cfg.JWTSecret, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/push", strings.NewReader("Pembaruan bacaan tasyahud"))
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, []string{"Pembaruan bacaan tasyahud"}, pub.payloads)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/admin/push", strings.NewReader("x")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutesRateLimitAPI(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit, cfg.RateBurst = 0.001, 1
	r := setupRouter(t, cfg, nil)

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/prayers", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/api/prayers", nil)).Code)

	// the shell is not rate limited
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestInitPublisherWithoutTransports(t *testing.T) {
	pub, closer, err := InitPublisher(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Nil(t, pub)
	closer()
}
