package testhelpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nutriconsulta/backend/internal/fatsecret"
	"github.com/nutriconsulta/backend/internal/types"
)

// MockFatSecret is a mock implementation of the FatSecret API used by the services
type MockFatSecret struct {
	mock.Mock
}

func (m *MockFatSecret) SearchFoods(ctx context.Context, expression string, maxResults, pageNumber int) (*fatsecret.FoodSearchResponse, error) {
	args := m.Called(ctx, expression, maxResults, pageNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fatsecret.FoodSearchResponse), args.Error(1)
}

func (m *MockFatSecret) GetFood(ctx context.Context, foodID string) (*fatsecret.FoodDetail, error) {
	args := m.Called(ctx, foodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fatsecret.FoodDetail), args.Error(1)
}

func (m *MockFatSecret) GetRecommendedRecipes(ctx context.Context, prefs types.DietaryPreferences) ([]fatsecret.RecipeCandidate, error) {
	args := m.Called(ctx, prefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fatsecret.RecipeCandidate), args.Error(1)
}

func (m *MockFatSecret) GetRecipeDetails(ctx context.Context, recipeID string) (*fatsecret.RecipeDetail, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fatsecret.RecipeDetail), args.Error(1)
}

func (m *MockFatSecret) CreateProfile(ctx context.Context, userID string) (fatsecret.ProfileCredentials, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(fatsecret.ProfileCredentials), args.Error(1)
}

// MockRecipeCache is a mock implementation of the recipe cache
type MockRecipeCache struct {
	mock.Mock
}

func (m *MockRecipeCache) Get(ctx context.Context, recipeID string) (*fatsecret.RecipeDetail, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fatsecret.RecipeDetail), args.Error(1)
}

func (m *MockRecipeCache) Set(ctx context.Context, recipeID string, recipe *fatsecret.RecipeDetail) error {
	args := m.Called(ctx, recipeID, recipe)
	return args.Error(0)
}

// MockObjectStore is a mock implementation of the export object store
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expiration)
	return args.String(0), args.Error(1)
}
