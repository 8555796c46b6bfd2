// Package cache provides an optional short-TTL route cache backed by Redis.
// The service runs without it by default; when Redis is not configured the
// no-op implementation keeps every lookup a miss.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"curve-frontend/router-api/internal/types"
)

// RouteCache stores aggregated route lists keyed by the canonical query.
// Implementations must treat any backend error as a miss; caching is an
// optimization, never a dependency.
type RouteCache interface {
	Get(ctx context.Context, key string) ([]types.RouteResponse, bool)
	Set(ctx context.Context, key string, routes []types.RouteResponse)
	Close() error
}

// Key derives a stable cache key from every query field that affects the
// result.
func Key(query *types.RoutesQuery) string {
	providers := query.Providers()
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = string(p)
	}
	slippage := ""
	if query.Slippage != nil {
		slippage = fmt.Sprintf("%g", *query.Slippage)
	}
	return strings.Join([]string{
		fmt.Sprintf("%d", query.ChainID),
		strings.Join(names, "+"),
		string(query.TokenIn),
		string(query.TokenOut),
		query.AmountIn,
		query.AmountOut,
		string(query.UserAddress),
		slippage,
	}, ":")
}

// Config holds the Redis connection settings.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *logrus.Logger
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(cfg *Config, logger *logrus.Logger) (RouteCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{client: client, ttl: cfg.TTL, prefix: cfg.Prefix, logger: logger}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]types.RouteResponse, bool) {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Debug("route cache get failed")
		}
		return nil, false
	}
	var routes []types.RouteResponse
	if err := json.Unmarshal(payload, &routes); err != nil {
		c.logger.WithError(err).Debug("route cache entry corrupt")
		return nil, false
	}
	return routes, true
}

func (c *redisCache) Set(ctx context.Context, key string, routes []types.RouteResponse) {
	payload, err := json.Marshal(routes)
	if err != nil {
		c.logger.WithError(err).Debug("route cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("route cache set failed")
	}
}

func (c *redisCache) Close() error { return c.client.Close() }

type noopCache struct{}

// NewNoop returns a cache where every lookup misses and every write is
// dropped.
func NewNoop() RouteCache { return noopCache{} }

func (noopCache) Get(context.Context, string) ([]types.RouteResponse, bool) { return nil, false }
func (noopCache) Set(context.Context, string, []types.RouteResponse)       {}
func (noopCache) Close() error                                             { return nil }
