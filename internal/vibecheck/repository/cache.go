package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
)

const (
	cacheKeyPrefix = "vibecheck:cache:"
	CacheTTL       = 24 * time.Hour
)

// CachedEvaluation is what a cache entry holds for one input hash.
type CachedEvaluation struct {
	Evaluation domain.Evaluation `json:"evaluation"`
	Model      string            `json:"model"`
}

// EvaluationCache keeps model answers in Redis so identical inputs are not
// re-billed within the TTL.
type EvaluationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewEvaluationCache(rdb *redis.Client) *EvaluationCache {
	return &EvaluationCache{rdb: rdb, ttl: CacheTTL}
}

func CacheKey(hash string) string {
	return cacheKeyPrefix + hash
}

// Get returns nil, nil on a miss.
func (c *EvaluationCache) Get(ctx context.Context, hash string) (*CachedEvaluation, error) {
	raw, err := c.rdb.Get(ctx, CacheKey(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ce CachedEvaluation
	if err := json.Unmarshal(raw, &ce); err != nil {
		return nil, err
	}
	return &ce, nil
}

func (c *EvaluationCache) Set(ctx context.Context, hash string, ce CachedEvaluation) error {
	raw, err := json.Marshal(ce)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, CacheKey(hash), raw, c.ttl).Err()
}
