package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nutriconsulta/backend/internal/fatsecret"
	"github.com/nutriconsulta/backend/internal/service"
	"github.com/nutriconsulta/backend/internal/testhelpers"
	"github.com/nutriconsulta/backend/internal/types"
)

func TestParseFoodSearchQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     types.FoodSearchQuery
		want      service.FoodSearchParams
		wantField string
	}{
		{
			name:  "defaults",
			query: types.FoodSearchQuery{SearchExpression: "banana"},
			want:  service.FoodSearchParams{SearchExpression: "banana", MaxResults: 10, PageNumber: 0},
		},
		{
			name:  "explicit paging",
			query: types.FoodSearchQuery{SearchExpression: "banana", MaxResults: "50", PageNumber: "3"},
			want:  service.FoodSearchParams{SearchExpression: "banana", MaxResults: 50, PageNumber: 3},
		},
		{name: "missing expression", query: types.FoodSearchQuery{}, wantField: "search_expression"},
		{name: "blank expression", query: types.FoodSearchQuery{SearchExpression: "  "}, wantField: "search_expression"},
		{name: "max results zero", query: types.FoodSearchQuery{SearchExpression: "a", MaxResults: "0"}, wantField: "max_results"},
		{name: "max results too large", query: types.FoodSearchQuery{SearchExpression: "a", MaxResults: "51"}, wantField: "max_results"},
		{name: "max results not a number", query: types.FoodSearchQuery{SearchExpression: "a", MaxResults: "ten"}, wantField: "max_results"},
		{name: "negative page", query: types.FoodSearchQuery{SearchExpression: "a", PageNumber: "-1"}, wantField: "page_number"},
		{name: "page not a number", query: types.FoodSearchQuery{SearchExpression: "a", PageNumber: "x"}, wantField: "page_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ParseFoodSearchQuery(&tt.query)
			if tt.wantField != "" {
				var ve *service.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFoodService_SearchFoods(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps only the first food", func(t *testing.T) {
		api := new(testhelpers.MockFatSecret)
		api.On("SearchFoods", mock.Anything, "banana", 10, 0).Return(&fatsecret.FoodSearchResponse{
			Foods: fatsecret.FoodList{
				Food: fatsecret.List[fatsecret.Food]{
					{FoodID: "1", FoodName: "Banana"},
					{FoodID: "2", FoodName: "Banana Bread"},
				},
				MaxResults:   "10",
				PageNumber:   "0",
				TotalResults: "274",
			},
		}, nil)

		got, err := service.NewFoodService(api).SearchFoods(ctx, service.FoodSearchParams{SearchExpression: "banana", MaxResults: 10})
		require.NoError(t, err)
		require.NotNil(t, got.Foods.Food)
		assert.Equal(t, "Banana", got.Foods.Food.FoodName)
		assert.Equal(t, fatsecret.FlexString("274"), got.Foods.TotalResults)
	})

	t.Run("no hits", func(t *testing.T) {
		api := new(testhelpers.MockFatSecret)
		api.On("SearchFoods", mock.Anything, "xyz", 5, 1).Return(&fatsecret.FoodSearchResponse{
			Foods: fatsecret.FoodList{TotalResults: "0"},
		}, nil)

		got, err := service.NewFoodService(api).SearchFoods(ctx, service.FoodSearchParams{
			SearchExpression: "xyz", MaxResults: 5, PageNumber: 1,
		})
		require.NoError(t, err)
		assert.Nil(t, got.Foods.Food)
	})

	t.Run("parsed query is passed through unchanged", func(t *testing.T) {
		params, err := service.ParseFoodSearchQuery(&types.FoodSearchQuery{
			SearchExpression: "  apple ", MaxResults: "3", PageNumber: "2",
		})
		require.NoError(t, err)

		api := new(testhelpers.MockFatSecret)
		api.On("SearchFoods", mock.Anything, "apple", 3, 2).Return(&fatsecret.FoodSearchResponse{}, nil).Once()

		_, err = service.NewFoodService(api).SearchFoods(ctx, params)
		require.NoError(t, err)
		api.AssertExpectations(t)
	})

	t.Run("missing expression never reaches upstream", func(t *testing.T) {
		api := new(testhelpers.MockFatSecret)
		_, err := service.NewFoodService(api).SearchFoods(ctx, service.FoodSearchParams{MaxResults: 10})
		assert.True(t, service.IsValidation(err))
		api.AssertNotCalled(t, "SearchFoods", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFoodService_GetFood(t *testing.T) {
	api := new(testhelpers.MockFatSecret)
	api.On("GetFood", mock.Anything, "33691").Return(&fatsecret.FoodDetail{FoodID: "33691", FoodName: "Banana"}, nil)

	svc := service.NewFoodService(api)
	got, err := svc.GetFood(context.Background(), "33691")
	require.NoError(t, err)
	assert.Equal(t, "Banana", got.FoodName)

	_, err = svc.GetFood(context.Background(), "")
	assert.True(t, service.IsValidation(err))
}
