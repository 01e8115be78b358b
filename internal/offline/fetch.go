package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrNetwork marks a request that never produced a response.
var ErrNetwork = errors.New("network request failed")

// Fetcher performs the real network round trip.
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) (*Response, error)
}

// HTTPFetcher fetches over net/http. No timeout is set: a request that never
// completes stays pending until ctx is cancelled.
type HTTPFetcher struct {
	Client *http.Client
	Origin *url.URL
}

func NewHTTPFetcher(origin *url.URL) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{}, Origin: origin}
}

// hopHeaders are not forwarded to the origin.
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for _, h := range hopHeaders {
		httpReq.Header.Del(h)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, req.URL, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNetwork, req.URL, err)
	}

	return &Response{
		URL:    req.URL,
		Status: httpResp.StatusCode,
		Header: httpResp.Header.Clone(),
		Body:   respBody,
		Type:   f.classify(req),
	}, nil
}

func (f *HTTPFetcher) classify(req *Request) ResponseType {
	if f.Origin == nil || sameOrigin(f.Origin, req.URL) {
		return TypeBasic
	}
	if req.Mode == ModeNoCORS {
		return TypeOpaque
	}
	return TypeCORS
}

func sameOrigin(origin *url.URL, raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, origin.Scheme) && strings.EqualFold(u.Host, origin.Host)
}
