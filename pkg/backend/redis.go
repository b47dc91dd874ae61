package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/view-cache/pkg/logging"
)

// Redis is a Backend backed by a Redis server.
type Redis struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedis creates a Redis backend from an existing go-redis client.
func NewRedis(client *redis.Client) *Redis {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &Redis{
		client: client,
		logger: logging.NewLogger("backend-redis"),
	}
}

// Get retrieves the value stored under key.
// Returns ErrCacheMiss if the key does not exist.
func (b *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		OperationErrors.WithLabelValues("redis", "get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Set stores value under key with the given TTL.
// A ttl of 0 stores the entry without expiry (Redis SET without EX).
func (b *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		OperationErrors.WithLabelValues("redis", "set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	StoredBytes.WithLabelValues("redis").Add(float64(len(value)))

	b.logger.Debug().
		Str("key", key).
		Dur("ttl", ttl).
		Int("bytes", len(value)).
		Msg("stored cache entry")

	return nil
}
