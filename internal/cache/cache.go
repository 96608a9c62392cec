// Package cache stores rendered read responses. Entries are namespaced by a
// version counter; bumping the counter invalidates everything at once.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coursegrid/coursegrid/internal/config"
)

// Cache is a versioned response cache.
type Cache interface {
	// Get returns the cached body for route and query. A miss is not an error.
	Get(ctx context.Context, route, query string) ([]byte, bool, error)
	Set(ctx context.Context, route, query string, body []byte) error
	// Invalidate drops every entry.
	Invalidate(ctx context.Context) error
	Close() error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, string, []byte) error         { return nil }
func (Nop) Invalidate(context.Context) error                          { return nil }
func (Nop) Close() error                                              { return nil }

// Redis keeps entries under "<prefix>:<version>:<route>:<query>" with a TTL.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, cfg config.CacheConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return &Redis{client: client, prefix: cfg.Prefix, ttl: cfg.TTLDuration()}, nil
}

func (r *Redis) versionKey() string {
	return r.prefix + ":version"
}

func (r *Redis) version(ctx context.Context) (int64, error) {
	v, err := r.client.Get(ctx, r.versionKey()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading cache version: %w", err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("reading cache version: %w", err)
	}
	return n, nil
}

func (r *Redis) Get(ctx context.Context, route, query string) ([]byte, bool, error) {
	v, err := r.version(ctx)
	if err != nil {
		return nil, false, err
	}
	body, err := r.client.Get(ctx, entryKey(r.prefix, v, route, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	return body, true, nil
}

func (r *Redis) Set(ctx context.Context, route, query string, body []byte) error {
	v, err := r.version(ctx)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, entryKey(r.prefix, v, route, query), body, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.versionKey()).Err(); err != nil {
		return fmt.Errorf("bumping cache version: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func entryKey(prefix string, version int64, route, query string) string {
	return strings.Join([]string{prefix, strconv.FormatInt(version, 10), route, query}, ":")
}

// Open returns a Redis cache when enabled and a Nop otherwise.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}
	return NewRedis(ctx, cfg)
}
