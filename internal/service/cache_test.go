package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriconsulta/backend/internal/fatsecret"
	"github.com/nutriconsulta/backend/internal/service"
	"github.com/nutriconsulta/backend/internal/testhelpers"
)

func TestRedisRecipeCache(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	cache := service.NewRedisRecipeCache(client, time.Minute)
	ctx := context.Background()

	miss, err := cache.Get(ctx, "91")
	require.NoError(t, err)
	assert.Nil(t, miss)

	recipe := &fatsecret.RecipeDetail{RecipeID: "91", Name: "Vegetable Stir Fry", CookingTimeMin: "15"}
	recipe.Ingredients.Ingredient = fatsecret.List[fatsecret.Ingredient]{{FoodID: "1", FoodName: "Broccoli"}}
	require.NoError(t, cache.Set(ctx, "91", recipe))

	hit, err := cache.Get(ctx, "91")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, recipe.Name, hit.Name)
	assert.Equal(t, recipe.CookingTimeMin, hit.CookingTimeMin)
	assert.Len(t, hit.Ingredients.Ingredient, 1)

	ttl, err := client.TTL(ctx, "fatsecret:recipe:91").Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}
