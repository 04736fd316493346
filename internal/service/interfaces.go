package service

import (
	"context"
	"time"

	"github.com/nutriconsulta/backend/internal/fatsecret"
	"github.com/nutriconsulta/backend/internal/models"
	"github.com/nutriconsulta/backend/internal/types"
)

// FatSecretAPI is the subset of the FatSecret client the services call.
type FatSecretAPI interface {
	SearchFoods(ctx context.Context, expression string, maxResults, pageNumber int) (*fatsecret.FoodSearchResponse, error)
	GetFood(ctx context.Context, foodID string) (*fatsecret.FoodDetail, error)
	GetRecommendedRecipes(ctx context.Context, prefs types.DietaryPreferences) ([]fatsecret.RecipeCandidate, error)
	GetRecipeDetails(ctx context.Context, recipeID string) (*fatsecret.RecipeDetail, error)
	CreateProfile(ctx context.Context, userID string) (fatsecret.ProfileCredentials, error)
}

var _ FatSecretAPI = (*fatsecret.Client)(nil)

// RecipeCache stores upstream recipe details between requests.
type RecipeCache interface {
	Get(ctx context.Context, recipeID string) (*fatsecret.RecipeDetail, error)
	Set(ctx context.Context, recipeID string, recipe *fatsecret.RecipeDetail) error
}

// ObjectStore uploads patient exports and hands out temporary links to them.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// IPatientService defines the interface for patient record operations
type IPatientService interface {
	List(ctx context.Context) ([]models.Patient, error)
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	GetByCPF(ctx context.Context, cpf string) (*models.Patient, error)
	GetFormsAndRecipes(ctx context.Context, id string) (*FormsAndRecipes, error)
	GetRecipeEntry(ctx context.Context, patientID, entryID string) (*models.PatientRecipe, error)
}

// IFormService defines the interface for questionnaire submission
type IFormService interface {
	CreateForm(ctx context.Context, req *types.CreateFormRequest) (*models.Patient, bool, error)
}

// IRecipeService defines the interface for recipe generation and lookup
type IRecipeService interface {
	GenerateForPatient(ctx context.Context, cpf string, prefs types.DietaryPreferences) (*GeneratedRecipes, error)
	GetRecipeDetails(ctx context.Context, recipeID string) (*fatsecret.RecipeDetail, error)
}

// IFoodService defines the interface for food lookups
type IFoodService interface {
	SearchFoods(ctx context.Context, params FoodSearchParams) (*FoodSearchResult, error)
	GetFood(ctx context.Context, foodID string) (*fatsecret.FoodDetail, error)
}

// IExportService defines the interface for patient dossier exports
type IExportService interface {
	ExportPatient(ctx context.Context, id string) (*ExportResult, error)
}
