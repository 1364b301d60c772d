package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/arzan03/productsdb-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "productsdb:"

// DistinctCache holds distinct value lists such as product categories and brands.
// A failing backend behaves like a miss.
type DistinctCache interface {
	Get(ctx context.Context, key string) ([]string, bool)
	Set(ctx context.Context, key string, values []string)
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewRedisCache(cfg config.RedisConfig, logger *zerolog.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisCache{client: client, ttl: cfg.TTL, logger: logger}
}

// Ping checks the connection once at startup.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]string, bool) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache entry is corrupt")
		return nil, false
	}
	return values, true
}

func (c *RedisCache) Set(ctx context.Context, key string, values []string) {
	data, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]string, bool) { return nil, false }

func (NopCache) Set(context.Context, string, []string) {}

func (NopCache) Close() error { return nil }
