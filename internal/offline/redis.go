package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "offline:"
	maxPutAttempts     = 5
)

// RedisStorage keeps every cache store in a redis hash and the store names in a set.
type RedisStorage struct {
	rdb    redis.UniversalClient
	prefix string
}

var (
	_ Storage = (*RedisStorage)(nil)
	_ Cache   = (*redisCache)(nil)
)

// NewRedisStorage uses prefix to namespace its keys; an empty prefix uses "offline:".
func NewRedisStorage(rdb redis.UniversalClient, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

func (s *RedisStorage) indexKey() string {
	return s.prefix + "caches"
}

func (s *RedisStorage) storeKey(name string) string {
	return s.prefix + "cache:" + name
}

func (s *RedisStorage) Open(ctx context.Context, name string) (Cache, error) {
	if err := s.rdb.SAdd(ctx, s.indexKey(), name).Err(); err != nil {
		return nil, fmt.Errorf("failed to open cache %q: %w", name, err)
	}
	return &redisCache{s: s, name: name, key: s.storeKey(name)}, nil
}

func (s *RedisStorage) Has(ctx context.Context, name string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, s.indexKey(), name).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up cache %q: %w", name, err)
	}
	return ok, nil
}

func (s *RedisStorage) Keys(ctx context.Context) ([]string, error) {
	names, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStorage) Delete(ctx context.Context, name string) (bool, error) {
	var removed *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.storeKey(name))
		removed = pipe.SRem(ctx, s.indexKey(), name)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete cache %q: %w", name, err)
	}
	return removed.Val() > 0, nil
}

type redisCache struct {
	s    *RedisStorage
	name string
	key  string
}

func (c *redisCache) Match(ctx context.Context, key string) (*Response, error) {
	raw, err := c.s.rdb.HGet(ctx, c.key, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to match %s in cache %q: %w", key, c.name, err)
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("corrupt cache entry %s in %q: %w", key, c.name, err)
	}
	return &resp, nil
}

func (c *redisCache) Put(ctx context.Context, key string, resp *Response) error {
	return c.PutAll(ctx, []Entry{{Key: key, Response: resp}})
}

// PutAll writes the whole batch inside MULTI/EXEC, so readers see all or nothing.
// The index is watched so a concurrent Delete aborts the write instead of
// leaving an orphaned hash behind.
func (c *redisCache) PutAll(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	fields := make([]any, 0, 2*len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e.Response)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", e.Key, err)
		}
		fields = append(fields, e.Key, raw)
	}

	put := func(tx *redis.Tx) error {
		ok, err := tx.SIsMember(ctx, c.s.indexKey(), c.name).Result()
		if err != nil {
			return err
		}
		if !ok {
			return ErrStoreDeleted
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, c.key, fields...)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxPutAttempts; i++ {
		// other stores being opened also touch the index, so a lost race is retried
		err = c.s.rdb.Watch(ctx, put, c.s.indexKey())
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to store %d entries in cache %q: %w", len(entries), c.name, err)
	}
	return nil
}

func (c *redisCache) Keys(ctx context.Context) ([]string, error) {
	keys, err := c.s.rdb.HKeys(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list cache %q: %w", c.name, err)
	}
	sort.Strings(keys)
	return keys, nil
}
