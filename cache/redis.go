package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// errDisabled is returned when no Redis connection is available
var errDisabled = errors.New("redis client not initialized")

// RedisClient wraps redis.Client. A nil *RedisClient is valid and behaves as
// a cache that never hits.
type RedisClient struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedisClient connects to the Redis server at url (redis://host:port/db).
// It returns nil when the URL is invalid or the server does not answer, so
// callers run without caching.
func NewRedisClient(url string, log zerolog.Logger) *RedisClient {
	log = log.With().Str("component", "cache").Logger()

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️  Invalid REDIS_URL, caching disabled")
		return nil
	}
	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", opts.Addr).Msg("⚠️  Failed to connect to Redis, caching disabled")
		client.Close()
		return nil
	}

	log.Info().Str("addr", opts.Addr).Msg("✅ Connected to Redis")
	return &RedisClient{client: client, log: log}
}

// Enabled reports whether a live connection backs this client
func (r *RedisClient) Enabled() bool {
	return r != nil && r.client != nil
}

// Set stores a value in Redis as JSON with expiration
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !r.Enabled() {
		return errDisabled
	}

	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	return r.client.Set(ctx, key, jsonBytes, expiration).Err()
}

// Get decodes the JSON value stored at key into dest
func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	if !r.Enabled() {
		return ErrCacheMiss
	}

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(val, dest)
}

// Delete removes a key from Redis
func (r *RedisClient) Delete(ctx context.Context, key string) error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Del(ctx, key).Err()
}

// Ping checks the connection
func (r *RedisClient) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return errDisabled
	}
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	if r.Enabled() {
		return r.client.Close()
	}
	return nil
}

// ReportKey is the cache key of one report response
func ReportKey(id int64) string {
	return fmt.Sprintf("report:%d", id)
}
