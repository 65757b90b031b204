// Package cache holds the catalog listing caches.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"zaffira/internal/config"
)

const (
	catalogPrefix     = "catalog"
	catalogVersionKey = "catalog:version"
)

// Connect opens a redis client and checks it with a PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// RedisCatalogCache keys entries by a version counter. Invalidate bumps the
// counter, which orphans every earlier entry until its TTL runs out.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCatalogCache {
	return &RedisCatalogCache{client: client, ttl: ttl, log: log.Named("cache")}
}

func (c *RedisCatalogCache) Get(ctx context.Context, key string) ([]byte, bool) {
	versioned, err := c.versionedKey(ctx, key)
	if err != nil {
		c.log.Warn("catalog cache version read failed", zap.Error(err))
		return nil, false
	}
	raw, err := c.client.Get(ctx, versioned).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("catalog cache read failed", zap.String("key", versioned), zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

func (c *RedisCatalogCache) Set(ctx context.Context, key string, value []byte) {
	versioned, err := c.versionedKey(ctx, key)
	if err != nil {
		c.log.Warn("catalog cache version read failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, versioned, value, c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache write failed", zap.String("key", versioned), zap.Error(err))
	}
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, catalogVersionKey).Err(); err != nil {
		c.log.Error("catalog cache invalidation failed", zap.Error(err))
	}
}

func (c *RedisCatalogCache) versionedKey(ctx context.Context, key string) (string, error) {
	version, err := c.client.Get(ctx, catalogVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return catalogKey(version, key), nil
}

func catalogKey(version int64, key string) string {
	return fmt.Sprintf("%s:v%d:%s", catalogPrefix, version, key)
}

// Noop never stores anything. It is used when redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte)         {}
func (Noop) Invalidate(context.Context)                  {}
