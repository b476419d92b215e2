// Package cache implements the Cache Gateway (C1) against Redis (or a
// Redis-protocol-compatible store such as Valkey/DragonflyDB), following
// the repository pattern the pack uses for its own Redis-backed stores.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// Gateway implements ports.CacheGateway. Every named map is namespaced as
// a Redis key prefix "{mapName}:{key}" so distinct maps never collide
// inside one Redis keyspace.
type Gateway struct {
	client *redis.Client
}

// New connects to a Redis instance at url (e.g. "redis://localhost:6379/0").
func New(url string) (*Gateway, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, domainerrors.New(domainerrors.CodeCacheUnavailable, "parse cache gateway url", err)
	}
	return &Gateway{client: redis.NewClient(opts)}, nil
}

// NewFromClient wraps an already-constructed client, used by tests to
// inject a miniredis-backed client.
func NewFromClient(client *redis.Client) *Gateway {
	return &Gateway{client: client}
}

func mapKey(mapName, key string) string {
	return mapName + ":" + key
}

func (g *Gateway) Get(ctx context.Context, mapName, key string) ([]byte, bool, error) {
	val, err := g.client.Get(ctx, mapKey(mapName, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, domainerrors.CacheUnavailable(err)
	}
	return val, true, nil
}

func (g *Gateway) Set(ctx context.Context, mapName, key string, value []byte, ttl time.Duration) error {
	if err := g.client.Set(ctx, mapKey(mapName, key), value, ttl).Err(); err != nil {
		return domainerrors.CacheUnavailable(err)
	}
	return nil
}

func (g *Gateway) PutIfAbsent(ctx context.Context, mapName, key string, value []byte, ttl time.Duration) (bool, error) {
	stored, err := g.client.SetNX(ctx, mapKey(mapName, key), value, ttl).Result()
	if err != nil {
		return false, domainerrors.CacheUnavailable(err)
	}
	return stored, nil
}

func (g *Gateway) Remove(ctx context.Context, mapName, key string) error {
	if err := g.client.Del(ctx, mapKey(mapName, key)).Err(); err != nil {
		return domainerrors.CacheUnavailable(err)
	}
	return nil
}

func (g *Gateway) Exists(ctx context.Context, mapName, key string) (bool, error) {
	n, err := g.client.Exists(ctx, mapKey(mapName, key)).Result()
	if err != nil {
		return false, domainerrors.CacheUnavailable(err)
	}
	return n > 0, nil
}

func (g *Gateway) GetAllEntries(ctx context.Context, mapName string, fn func(key string, value []byte) error) error {
	prefix := mapName + ":"
	iter := g.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		full := iter.Val()
		val, err := g.client.Get(ctx, full).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return domainerrors.CacheUnavailable(err)
		}
		if err := fn(full[len(prefix):], val); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return domainerrors.CacheUnavailable(err)
	}
	return nil
}

var _ ports.CacheGateway = (*Gateway)(nil)
