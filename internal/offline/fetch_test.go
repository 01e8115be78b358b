package offline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherClassifiesResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Path", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	f := NewHTTPFetcher(u)

	resp, err := f.Fetch(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL + "/a", Mode: ModeSameOrigin})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, TypeBasic, resp.Type)
	assert.Equal(t, "hello", string(resp.Body))
	assert.Equal(t, "/a", resp.Header.Get("X-Path"))

	other, err := url.Parse("http://elsewhere.test")
	require.NoError(t, err)
	f.Origin = other
	resp, err = f.Fetch(context.Background(), &Request{URL: srv.URL + "/b", Mode: ModeCORS})
	require.NoError(t, err)
	assert.Equal(t, TypeCORS, resp.Type)

	resp, err = f.Fetch(context.Background(), &Request{URL: srv.URL + "/c", Mode: ModeNoCORS})
	require.NoError(t, err)
	assert.Equal(t, TypeOpaque, resp.Type)
}

func TestHTTPFetcherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	u, err := url.Parse(addr)
	require.NoError(t, err)
	_, err = NewHTTPFetcher(u).Fetch(context.Background(), &Request{URL: addr + "/"})
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPFetcherForwardsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Method", r.Method)
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	resp, err := NewHTTPFetcher(u).Fetch(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    srv.URL + "/api/navigation",
		Body:   []byte(`{"action":{"type":"next_prayer"}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, resp.Header.Get("X-Method"))
	assert.Equal(t, `{"action":{"type":"next_prayer"}}`, string(resp.Body))
}
