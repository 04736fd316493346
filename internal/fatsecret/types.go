package fatsecret

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString accepts both JSON strings and numbers. FatSecret encodes most
// numeric fields as strings but not consistently.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexString(num.String())
		return nil
	}

	return fmt.Errorf("invalid value %s", string(data))
}

// Float parses the value as a number.
func (f FlexString) Float() (float64, bool) {
	if f == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(f), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// List decodes a field that FatSecret sends as an object when there is a
// single result and as an array otherwise.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*l = List[T]{item}
	return nil
}

// Food is a single food.search hit.
type Food struct {
	FoodID          FlexString `json:"food_id"`
	FoodName        string     `json:"food_name"`
	FoodType        string     `json:"food_type"`
	BrandName       string     `json:"brand_name,omitempty"`
	FoodURL         string     `json:"food_url,omitempty"`
	FoodDescription string     `json:"food_description,omitempty"`
}

// FoodList is the foods envelope of food.search.
type FoodList struct {
	Food         List[Food] `json:"food"`
	MaxResults   FlexString `json:"max_results"`
	PageNumber   FlexString `json:"page_number"`
	TotalResults FlexString `json:"total_results"`
}

// FoodSearchResponse is the decoded body of food.search.
type FoodSearchResponse struct {
	Foods FoodList `json:"foods"`
}

// Serving is one serving size entry of food.get.
type Serving struct {
	ServingID           FlexString `json:"serving_id"`
	ServingDescription  string     `json:"serving_description"`
	MetricServingAmount FlexString `json:"metric_serving_amount,omitempty"`
	MetricServingUnit   string     `json:"metric_serving_unit,omitempty"`
	Calories            FlexString `json:"calories"`
	Carbohydrate        FlexString `json:"carbohydrate"`
	Protein             FlexString `json:"protein"`
	Fat                 FlexString `json:"fat"`
}

// FoodDetail is the food object of food.get.
type FoodDetail struct {
	FoodID    FlexString `json:"food_id"`
	FoodName  string     `json:"food_name"`
	FoodType  string     `json:"food_type"`
	BrandName string     `json:"brand_name,omitempty"`
	FoodURL   string     `json:"food_url,omitempty"`
	Servings  struct {
		Serving List[Serving] `json:"serving"`
	} `json:"servings"`
}

// FoodDetailResponse is the decoded body of food.get.
type FoodDetailResponse struct {
	Food FoodDetail `json:"food"`
}

// RecipeNutrition is the per-serving nutrition summary of a search hit.
type RecipeNutrition struct {
	Calories     FlexString `json:"calories"`
	Carbohydrate FlexString `json:"carbohydrate"`
	Fat          FlexString `json:"fat"`
	Protein      FlexString `json:"protein"`
}

// RecipeCandidate is an unfiltered recipes.search hit.
type RecipeCandidate struct {
	RecipeID    FlexString       `json:"recipe_id"`
	Name        string           `json:"recipe_name"`
	Description string           `json:"recipe_description"`
	ImageURL    string           `json:"recipe_image,omitempty"`
	Nutrition   *RecipeNutrition `json:"recipe_nutrition,omitempty"`
}

// CaloriesPerServing returns the calories per serving when upstream sent them.
func (r RecipeCandidate) CaloriesPerServing() (float64, bool) {
	if r.Nutrition == nil {
		return 0, false
	}
	return r.Nutrition.Calories.Float()
}

// RecipeList is the recipes envelope of recipes.search.
type RecipeList struct {
	Recipe       List[RecipeCandidate] `json:"recipe"`
	MaxResults   FlexString            `json:"max_results"`
	PageNumber   FlexString            `json:"page_number"`
	TotalResults FlexString            `json:"total_results"`
}

// RecipeSearchResponse is the decoded body of recipes.search.
type RecipeSearchResponse struct {
	Recipes RecipeList `json:"recipes"`
}

type RecipeServing struct {
	ServingSize  string     `json:"serving_size"`
	Calories     FlexString `json:"calories"`
	Carbohydrate FlexString `json:"carbohydrate"`
	Protein      FlexString `json:"protein"`
	Fat          FlexString `json:"fat"`
}

type Ingredient struct {
	FoodID                FlexString `json:"food_id"`
	FoodName              string     `json:"food_name"`
	IngredientDescription string     `json:"ingredient_description"`
}

type Direction struct {
	DirectionNumber      FlexString `json:"direction_number"`
	DirectionDescription string     `json:"direction_description"`
}

// RecipeDetail is the recipe object of recipe.get.
type RecipeDetail struct {
	RecipeID           FlexString `json:"recipe_id"`
	Name               string     `json:"recipe_name"`
	Description        string     `json:"recipe_description"`
	URL                string     `json:"recipe_url,omitempty"`
	NumberOfServings   FlexString `json:"number_of_servings"`
	PreparationTimeMin FlexString `json:"preparation_time_min"`
	CookingTimeMin     FlexString `json:"cooking_time_min"`
	Rating             FlexString `json:"rating,omitempty"`
	ServingSizes       struct {
		Serving RecipeServing `json:"serving"`
	} `json:"serving_sizes"`
	Ingredients struct {
		Ingredient List[Ingredient] `json:"ingredient"`
	} `json:"ingredients"`
	Directions struct {
		Direction List[Direction] `json:"direction"`
	} `json:"directions"`
}

// RecipeDetailResponse is the decoded body of recipe.get.
type RecipeDetailResponse struct {
	Recipe RecipeDetail `json:"recipe"`
}

// ProfileCredentials is the user-level token pair returned by profile.create.
type ProfileCredentials struct {
	AuthToken  string `json:"auth_token"`
	AuthSecret string `json:"auth_secret"`
}

// Valid reports whether both token and secret were returned.
func (p ProfileCredentials) Valid() bool {
	return p.AuthToken != "" && p.AuthSecret != ""
}

type profileResponse struct {
	ProfileCredentials
	Profile *ProfileCredentials `json:"profile"`
}
