package offline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/signal"
)

var (
	ErrInstallFailed     = errors.New("cache install failed")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)

type State int

const (
	StateUninstalled State = iota
	StateInstalling
	StateInstalled
	StateActive
)

func (s State) String() string {
	switch s {
	case StateUninstalled:
		return "uninstalled"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultVersion is the cache version tag. Bumping it makes the next start install a
// fresh store and garbage-collect the old one on activation.
const DefaultVersion = "panduan-shalat-v1"

// ShellPath is the application shell served to navigations while offline.
const ShellPath = "/"

// DefaultManifest lists the assets pre-fetched at install.
var DefaultManifest = []string{
	ShellPath,
	"/manifest.json",
	"/data/prayers.json",
	"/icons/icon-512x512.png",
	"/icons/icon-192x192.png",
}

type Config struct {
	Version  string
	Origin   *url.URL
	Manifest []string
}

type Option func(*Manager)

// WithConnectivity makes the manager report network outcomes.
func WithConnectivity(c *signal.Connectivity) Option {
	return func(m *Manager) { m.connectivity = c }
}

// WithInstallPrompt offers the install prompt once the manager is active.
func WithInstallPrompt(p *signal.InstallPrompt) Option {
	return func(m *Manager) { m.prompt = p }
}

// Manager is the cache-first request interceptor. It owns the store named by its
// version tag and never touches stores of other versions except to delete them
// on activation.
type Manager struct {
	cfg     Config
	storage Storage
	fetcher Fetcher

	connectivity *signal.Connectivity
	prompt       *signal.InstallPrompt

	mu    sync.RWMutex
	state State
}

func NewManager(cfg Config, storage Storage, fetcher Fetcher, opts ...Option) (*Manager, error) {
	if cfg.Origin == nil {
		return nil, errors.New("offline: origin is required")
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Manifest == nil {
		cfg.Manifest = DefaultManifest
	}
	m := &Manager{cfg: cfg, storage: storage, fetcher: fetcher}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) Version() string { return m.cfg.Version }

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// transition moves from one of the allowed states to next.
func (m *Manager) transition(next State, from ...State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range from {
		if m.state == f {
			m.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, next)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// resolve turns a manifest path or request path into an absolute URL on the origin.
func (m *Manager) resolve(p string) string {
	ref, err := url.Parse(p)
	if err != nil {
		return p
	}
	return m.cfg.Origin.ResolveReference(ref).String()
}

// Install fetches every manifest entry and commits them to the versioned store in one
// batch. Any failure leaves storage untouched and the manager Uninstalled, so the
// next start retries.
func (m *Manager) Install(ctx context.Context) error {
	if err := m.transition(StateInstalling, StateUninstalled); err != nil {
		return err
	}

	entries, err := m.fetchManifest(ctx)
	if err == nil {
		err = m.commit(ctx, entries)
	}
	if err != nil {
		m.setState(StateUninstalled)
		log.Error().Err(err).Str("version", m.cfg.Version).Msg("cache install failed")
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	m.setState(StateInstalled)
	log.Info().Str("version", m.cfg.Version).Int("assets", len(entries)).Msg("cache installed")
	return nil
}

func (m *Manager) fetchManifest(ctx context.Context) ([]Entry, error) {
	entries := make([]Entry, 0, len(m.cfg.Manifest))
	for _, p := range m.cfg.Manifest {
		req := &Request{Method: "GET", URL: m.resolve(p), Mode: ModeSameOrigin}
		resp, err := m.fetch(ctx, req)
		if err != nil {
			return nil, err
		}
		if !resp.ok() {
			return nil, fmt.Errorf("fetching %s: unexpected status %d", req.URL, resp.Status)
		}
		entries = append(entries, Entry{Key: req.Key(), Response: resp})
	}
	return entries, nil
}

func (m *Manager) commit(ctx context.Context, entries []Entry) error {
	cache, err := m.storage.Open(ctx, m.cfg.Version)
	if err != nil {
		return err
	}
	return cache.PutAll(ctx, entries)
}

// Activate deletes every store that is not the current version and starts
// intercepting requests.
func (m *Manager) Activate(ctx context.Context) error {
	m.mu.RLock()
	state := m.state
	m.mu.RUnlock()
	if state != StateInstalled {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, state, StateActive)
	}

	names, err := m.storage.Keys(ctx)
	if err != nil {
		return fmt.Errorf("listing caches: %w", err)
	}
	for _, name := range names {
		if name == m.cfg.Version {
			continue
		}
		if _, err := m.storage.Delete(ctx, name); err != nil {
			return fmt.Errorf("deleting stale cache %q: %w", name, err)
		}
		log.Info().Str("cache", name).Msg("deleted stale cache")
	}

	if err := m.transition(StateActive, StateInstalled); err != nil {
		return err
	}
	log.Info().Str("version", m.cfg.Version).Msg("cache manager active")

	if m.prompt != nil {
		m.prompt.Offer()
	}
	return nil
}

// Start installs and activates right away instead of waiting for old pages to close.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.Install(ctx); err != nil {
		return err
	}
	return m.Activate(ctx)
}

// Handle answers one intercepted request, cache first. Until this version is
// active it goes to the network first and only falls back to the stores an
// earlier run left behind.
func (m *Manager) Handle(ctx context.Context, req *Request) (*Response, error) {
	if !req.isGet() {
		return m.fetch(ctx, req)
	}
	if m.State() != StateActive {
		return m.handleInactive(ctx, req)
	}

	cache, err := m.storage.Open(ctx, m.cfg.Version)
	if err != nil {
		log.Error().Err(err).Msg("failed to open cache, going to network")
		return m.fetch(ctx, req)
	}

	key := req.Key()
	cached, err := cache.Match(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache lookup failed, going to network")
	}
	if cached != nil {
		log.Debug().Str("key", key).Msg("cache hit")
		return cached, nil
	}

	resp, err := m.fetch(ctx, req)
	if err != nil {
		if req.Mode == ModeNavigate {
			if shell := m.shell(ctx, cache); shell != nil {
				log.Info().Str("url", req.URL).Msg("offline navigation, serving cached shell")
				return shell, nil
			}
		}
		return nil, err
	}

	if resp.Status == 200 && resp.Type == TypeBasic {
		if err := cache.Put(ctx, key, resp); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to cache response")
		}
	}
	return resp, nil
}

func (m *Manager) handleInactive(ctx context.Context, req *Request) (*Response, error) {
	resp, err := m.fetch(ctx, req)
	if err == nil {
		return resp, nil
	}
	if cached := m.matchAny(ctx, req.Key()); cached != nil {
		log.Info().Str("url", req.URL).Msg("network failed, serving from existing cache")
		return cached, nil
	}
	if req.Mode == ModeNavigate {
		if shell := m.matchAny(ctx, cacheKey(m.resolve(ShellPath))); shell != nil {
			log.Info().Str("url", req.URL).Msg("offline navigation, serving shell from existing cache")
			return shell, nil
		}
	}
	return nil, err
}

// matchAny looks key up in every existing store: this version's store first,
// then the others by descending name.
func (m *Manager) matchAny(ctx context.Context, key string) *Response {
	names, err := m.storage.Keys(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list caches")
		return nil
	}
	sort.SliceStable(names, func(i, j int) bool {
		ci, cj := names[i] == m.cfg.Version, names[j] == m.cfg.Version
		if ci != cj {
			return ci
		}
		return names[i] > names[j]
	})

	for _, name := range names {
		cache, err := m.storage.Open(ctx, name)
		if err != nil {
			log.Error().Err(err).Str("cache", name).Msg("failed to open cache")
			continue
		}
		resp, err := cache.Match(ctx, key)
		if err != nil {
			log.Error().Err(err).Str("cache", name).Str("key", key).Msg("cache lookup failed")
			continue
		}
		if resp != nil {
			return resp
		}
	}
	return nil
}

func (m *Manager) shell(ctx context.Context, cache Cache) *Response {
	resp, err := cache.Match(ctx, cacheKey(m.resolve(ShellPath)))
	if err != nil {
		log.Error().Err(err).Msg("failed to read cached shell")
		return nil
	}
	return resp
}

func (m *Manager) fetch(ctx context.Context, req *Request) (*Response, error) {
	resp, err := m.fetcher.Fetch(ctx, req)
	if m.connectivity != nil {
		if err != nil {
			m.connectivity.Report(signal.Offline)
		} else {
			m.connectivity.Report(signal.Online)
		}
	}
	if err != nil && !errors.Is(err, ErrNetwork) {
		err = fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return resp, err
}

// Stores lists the cache stores currently held in storage.
func (m *Manager) Stores(ctx context.Context) ([]string, error) {
	return m.storage.Keys(ctx)
}
