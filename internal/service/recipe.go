package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/nutriconsulta/backend/internal/fatsecret"
	"github.com/nutriconsulta/backend/internal/models"
	"github.com/nutriconsulta/backend/internal/types"
)

// GeneratedRecipes is the outcome of one generation request.
type GeneratedRecipes struct {
	Recipes []models.PatientRecipe `json:"receitas"`
	Total   int                    `json:"totalReceitas"`
}

// RecipeService handles recipe generation and lookup
type RecipeService struct {
	patients  *PatientService
	fatsecret FatSecretAPI
	cache     RecipeCache
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance. cache may be nil.
func NewRecipeService(patients *PatientService, fatsecret FatSecretAPI, cache RecipeCache) *RecipeService {
	return &RecipeService{
		patients:  patients,
		fatsecret: fatsecret,
		cache:     cache,
	}
}

// GenerateForPatient asks FatSecret for recipes matching prefs, keeps the
// ones that satisfy them and appends them to the patient's record.
func (s *RecipeService) GenerateForPatient(ctx context.Context, cpf string, prefs types.DietaryPreferences) (*GeneratedRecipes, error) {
	patient, err := s.patients.GetByCPF(ctx, strings.TrimSpace(cpf))
	if err != nil {
		return nil, err
	}

	candidates, err := s.fatsecret.GetRecommendedRecipes(ctx, prefs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.PatientRecipe, 0, len(candidates))
	for _, c := range candidates {
		entry := models.PatientRecipe{
			RecipeID:    string(c.RecipeID),
			Name:        c.Name,
			Description: c.Description,
			ImageURL:    c.ImageURL,
			Preferences: prefs,
		}
		if kcal, ok := c.CaloriesPerServing(); ok {
			entry.Calories = &kcal
		}
		entries = append(entries, entry)
	}

	if err := s.patients.AppendRecipes(ctx, patient.ID, entries); err != nil {
		return nil, err
	}

	log.Printf("[RecipeService] stored %d recipes for patient %s", len(entries), patient.ID)
	return &GeneratedRecipes{Recipes: entries, Total: len(entries)}, nil
}

// GetRecipeDetails returns upstream recipe details, served from the cache
// when present.
func (s *RecipeService) GetRecipeDetails(ctx context.Context, recipeID string) (*fatsecret.RecipeDetail, error) {
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return nil, &ValidationError{Field: "recipeId", Message: "is required"}
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, recipeID)
		if err != nil {
			log.Printf("[RecipeService] cache read failed for %s: %v", recipeID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	recipe, err := s.fatsecret.GetRecipeDetails(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %s: %w", recipeID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, recipeID, recipe); err != nil {
			log.Printf("[RecipeService] cache write failed for %s: %v", recipeID, err)
		}
	}
	return recipe, nil
}
