package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cvscreen/internal/config"
	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

const keyPrefix = "cvscreen:results:"

// Cache stores assembled results of completed submissions in Redis as JSON.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis and verifies the connection with a ping.
func NewCache(cfg *config.CacheConfig) (*Cache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	return NewCacheWithClient(client), nil
}

// NewCacheWithClient wraps an existing client.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

var _ port.ResultsCache = (*Cache)(nil)

func (c *Cache) Get(ctx context.Context, submissionID uuid.UUID) (*domain.SubmissionResults, error) {
	data, err := c.client.Get(ctx, Key(submissionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("rediscache.Get: %w", err)
	}

	var results domain.SubmissionResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("rediscache.Get decode: %w", err)
	}
	return &results, nil
}

func (c *Cache) Set(ctx context.Context, results *domain.SubmissionResults, ttl time.Duration) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("rediscache.Set encode: %w", err)
	}
	if err := c.client.Set(ctx, Key(results.SubmissionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("rediscache.Set: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Key returns the Redis key for a submission's cached results.
func Key(submissionID uuid.UUID) string {
	return keyPrefix + submissionID.String()
}
