package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nutriconsulta/backend/internal/fatsecret"
)

// DefaultRecipeCacheTTL is how long upstream recipe details are kept.
const DefaultRecipeCacheTTL = 24 * time.Hour

// RedisRecipeCache keeps recipe.get responses in Redis
type RedisRecipeCache struct {
	redis *redis.Client
	ttl   time.Duration
}

var _ RecipeCache = (*RedisRecipeCache)(nil)

// NewRedisRecipeCache creates a cache; a non-positive ttl selects the default.
func NewRedisRecipeCache(client *redis.Client, ttl time.Duration) *RedisRecipeCache {
	if ttl <= 0 {
		ttl = DefaultRecipeCacheTTL
	}
	return &RedisRecipeCache{redis: client, ttl: ttl}
}

func recipeCacheKey(recipeID string) string {
	return fmt.Sprintf("fatsecret:recipe:%s", recipeID)
}

// Get returns the cached recipe, or nil without error on a miss.
func (c *RedisRecipeCache) Get(ctx context.Context, recipeID string) (*fatsecret.RecipeDetail, error) {
	data, err := c.redis.Get(ctx, recipeCacheKey(recipeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe from Redis: %w", err)
	}

	var recipe fatsecret.RecipeDetail
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &recipe, nil
}

// Set stores recipe for the configured TTL
func (c *RedisRecipeCache) Set(ctx context.Context, recipeID string, recipe *fatsecret.RecipeDetail) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	if err := c.redis.Set(ctx, recipeCacheKey(recipeID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save recipe to Redis: %w", err)
	}
	return nil
}
