package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"yashubustudio/contextanalyzer/analyzer"
)

const keyPrefix = "analyzer:emb:"

// VectorCache shares embeddings between analyzer processes through Redis.
type VectorCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ analyzer.VectorCache = (*VectorCache)(nil)

// NewClient builds a client from cfg. A redis:// prefix on Addr is accepted.
func NewClient(cfg analyzer.RedisConfig) *redis.Client {
	addr := cfg.Addr
	if len(addr) > 8 && addr[:8] == "redis://" {
		addr = addr[8:]
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// New creates a vector cache. A zero ttl keeps entries forever.
func New(client *redis.Client, ttl time.Duration) *VectorCache {
	return &VectorCache{client: client, ttl: ttl}
}

// Ping checks connectivity.
func (c *VectorCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *VectorCache) Close() error {
	return c.client.Close()
}

func (c *VectorCache) key(k string) string {
	return keyPrefix + k
}

// Get returns the cached vector. A missing key is a miss, not an error.
func (c *VectorCache) Get(ctx context.Context, k string) ([]float32, bool, error) {
	data, err := c.client.Get(ctx, c.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	vec, err := analyzer.DecodeVector(data)
	if err != nil {
		return nil, false, fmt.Errorf("redis entry %s: %w", k, err)
	}
	return vec, true, nil
}

// Put stores vec with the configured ttl.
func (c *VectorCache) Put(ctx context.Context, k string, vec []float32) error {
	return c.client.Set(ctx, c.key(k), analyzer.EncodeVector(vec), c.ttl).Err()
}
