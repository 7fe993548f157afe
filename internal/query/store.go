package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"productpage/internal/model"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Store defines the interface for cached product records.
type Store interface {
	// Get returns the cached product for key and whether it was present.
	Get(ctx context.Context, key string) (*model.Product, bool, error)
	// Set caches product under key for ttl.
	Set(ctx context.Context, key string, product *model.Product, ttl time.Duration) error
}

type memoryEntry struct {
	product   *model.Product
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Expired entries are dropped lazily.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*model.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return entry.product, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, product *model.Product, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{product: product, expiresAt: s.now().Add(ttl)}
	return nil
}

// RedisStore keeps the product JSON in redis with a native TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on top of an existing redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisStoreFromURL parses a redis:// URL, connects and pings the server.
func NewRedisStoreFromURL(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*model.Product, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}

	var product model.Product
	if err := codec.Unmarshal(val, &product); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return &product, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, product *model.Product, ttl time.Duration) error {
	b, err := codec.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

// Close releases the redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
