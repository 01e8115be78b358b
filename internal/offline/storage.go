package offline

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrStoreDeleted is returned by writes through a handle whose store was deleted.
var ErrStoreDeleted = errors.New("cache store was deleted")

// Entry is one request/response pair of a batch commit.
type Entry struct {
	Key      string
	Response *Response
}

// Storage holds named cache stores. Names carry the cache version tag so that an
// old and a new manager never write into the same store.
type Storage interface {
	// Open returns the named store, creating it if needed.
	Open(ctx context.Context, name string) (Cache, error)
	Has(ctx context.Context, name string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
	// Delete removes the store and reports whether it existed.
	Delete(ctx context.Context, name string) (bool, error)
}

type Cache interface {
	// Match returns nil, nil when key is absent.
	Match(ctx context.Context, key string) (*Response, error)
	// Put and PutAll never recreate a deleted store; they fail with ErrStoreDeleted.
	Put(ctx context.Context, key string, resp *Response) error
	// PutAll stores every entry or none of them.
	PutAll(ctx context.Context, entries []Entry) error
	Keys(ctx context.Context) ([]string, error)
}

type MemoryStorage struct {
	mu     sync.RWMutex
	stores map[string]map[string]*Response
}

var (
	_ Storage = (*MemoryStorage)(nil)
	_ Cache   = (*memoryCache)(nil)
)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{stores: make(map[string]map[string]*Response)}
}

func (m *MemoryStorage) Open(ctx context.Context, name string) (Cache, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[name]; !ok {
		m.stores[name] = make(map[string]*Response)
	}
	return &memoryCache{parent: m, name: name}, nil
}

func (m *MemoryStorage) Has(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.stores[name]
	return ok, nil
}

func (m *MemoryStorage) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.stores))
	for name := range m.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.stores[name]
	delete(m.stores, name)
	return ok, nil
}

type memoryCache struct {
	parent *MemoryStorage
	name   string
}

func (c *memoryCache) store() (map[string]*Response, error) {
	s, ok := c.parent.stores[c.name]
	if !ok {
		return nil, ErrStoreDeleted
	}
	return s, nil
}

func (c *memoryCache) Match(ctx context.Context, key string) (*Response, error) {
	c.parent.mu.RLock()
	defer c.parent.mu.RUnlock()
	resp, ok := c.parent.stores[c.name][key]
	if !ok {
		return nil, nil
	}
	return resp.Clone(), nil
}

func (c *memoryCache) Put(ctx context.Context, key string, resp *Response) error {
	c.parent.mu.Lock()
	defer c.parent.mu.Unlock()
	s, err := c.store()
	if err != nil {
		return err
	}
	s[key] = resp.Clone()
	return nil
}

func (c *memoryCache) PutAll(ctx context.Context, entries []Entry) error {
	c.parent.mu.Lock()
	defer c.parent.mu.Unlock()
	s, err := c.store()
	if err != nil {
		return err
	}
	for _, e := range entries {
		s[e.Key] = e.Response.Clone()
	}
	return nil
}

func (c *memoryCache) Keys(ctx context.Context) ([]string, error) {
	c.parent.mu.RLock()
	defer c.parent.mu.RUnlock()
	keys := make([]string, 0, len(c.parent.stores[c.name]))
	for k := range c.parent.stores[c.name] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
