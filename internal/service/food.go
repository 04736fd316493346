package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nutriconsulta/backend/internal/fatsecret"
	"github.com/nutriconsulta/backend/internal/types"
)

const (
	defaultFoodMaxResults = 10
	maxFoodMaxResults     = 50
)

// FoodSearchResult is the first hit of a food search plus the paging data
// FatSecret returned.
type FoodSearchResult struct {
	Foods FoodSearchPage `json:"foods"`
}

// FoodSearchPage mirrors FatSecret's foods envelope with the list collapsed
// to its first element. Food is nil when there were no hits.
type FoodSearchPage struct {
	Food         *fatsecret.Food      `json:"food,omitempty"`
	MaxResults   fatsecret.FlexString `json:"max_results"`
	PageNumber   fatsecret.FlexString `json:"page_number"`
	TotalResults fatsecret.FlexString `json:"total_results"`
}

// FoodSearchParams are the validated search parameters.
type FoodSearchParams struct {
	SearchExpression string `json:"search_expression"`
	MaxResults       int    `json:"max_results"`
	PageNumber       int    `json:"page_number"`
}

// FoodService handles food lookups
type FoodService struct {
	fatsecret FatSecretAPI
}

// Ensure FoodService implements IFoodService
var _ IFoodService = (*FoodService)(nil)

// NewFoodService creates a new FoodService instance
func NewFoodService(fatsecret FatSecretAPI) *FoodService {
	return &FoodService{fatsecret: fatsecret}
}

// ParseFoodSearchQuery validates the raw query parameters and applies the
// defaults.
func ParseFoodSearchQuery(query *types.FoodSearchQuery) (FoodSearchParams, error) {
	params := FoodSearchParams{
		SearchExpression: strings.TrimSpace(query.SearchExpression),
		MaxResults:       defaultFoodMaxResults,
	}
	if params.SearchExpression == "" {
		return params, &ValidationError{Field: "search_expression", Message: "is required"}
	}

	if raw := strings.TrimSpace(query.MaxResults); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxFoodMaxResults {
			return params, &ValidationError{
				Field:   "max_results",
				Message: fmt.Sprintf("must be a number between 1 and %d", maxFoodMaxResults),
			}
		}
		params.MaxResults = n
	}

	if raw := strings.TrimSpace(query.PageNumber); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return params, &ValidationError{Field: "page_number", Message: "must be a number greater than or equal to 0"}
		}
		params.PageNumber = n
	}

	return params, nil
}

// SearchFoods runs food.search with params from ParseFoodSearchQuery and
// keeps only the first food.
func (s *FoodService) SearchFoods(ctx context.Context, params FoodSearchParams) (*FoodSearchResult, error) {
	if params.SearchExpression == "" {
		return nil, &ValidationError{Field: "search_expression", Message: "is required"}
	}

	resp, err := s.fatsecret.SearchFoods(ctx, params.SearchExpression, params.MaxResults, params.PageNumber)
	if err != nil {
		return nil, fmt.Errorf("food search failed: %w", err)
	}

	page := FoodSearchPage{
		MaxResults:   resp.Foods.MaxResults,
		PageNumber:   resp.Foods.PageNumber,
		TotalResults: resp.Foods.TotalResults,
	}
	if len(resp.Foods.Food) > 0 {
		first := resp.Foods.Food[0]
		page.Food = &first
	}
	return &FoodSearchResult{Foods: page}, nil
}

// GetFood returns the details of one food
func (s *FoodService) GetFood(ctx context.Context, foodID string) (*fatsecret.FoodDetail, error) {
	foodID = strings.TrimSpace(foodID)
	if foodID == "" {
		return nil, &ValidationError{Field: "foodId", Message: "is required"}
	}

	food, err := s.fatsecret.GetFood(ctx, foodID)
	if err != nil {
		return nil, fmt.Errorf("failed to get food %s: %w", foodID, err)
	}
	return food, nil
}
