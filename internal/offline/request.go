package offline

import (
	"net/http"
	"net/url"
)

// Mode says how the page issued a request. Only navigations get the shell fallback.
type Mode string

const (
	ModeNavigate   Mode = "navigate"
	ModeSameOrigin Mode = "same-origin"
	ModeCORS       Mode = "cors"
	ModeNoCORS     Mode = "no-cors"
)

// ResponseType classifies a network response. Only basic responses are cached.
type ResponseType string

const (
	TypeBasic  ResponseType = "basic"
	TypeCORS   ResponseType = "cors"
	TypeOpaque ResponseType = "opaque"
)

type Request struct {
	Method string
	URL    string
	Mode   Mode
	Header http.Header
	// Body is forwarded as is; GET requests normally carry none.
	Body []byte
}

// Key is the cache key of the request: its absolute URL without fragment.
func (r *Request) Key() string {
	return cacheKey(r.URL)
}

func (r *Request) isGet() bool {
	return r.Method == "" || r.Method == http.MethodGet
}

func cacheKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

type Response struct {
	URL    string       `json:"url"`
	Status int          `json:"status"`
	Header http.Header  `json:"header"`
	Body   []byte       `json:"body"`
	Type   ResponseType `json:"type"`
}

// Clone returns a deep copy, so a cached entry never shares buffers with a caller.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Header = r.Header.Clone()
	if r.Body != nil {
		out.Body = append([]byte(nil), r.Body...)
	}
	return &out
}

func (r *Response) ok() bool {
	return r.Status >= 200 && r.Status < 300
}
