package fatsecret

import (
	"strings"

	"github.com/nutriconsulta/backend/internal/types"
)

// DefaultSearchTerm is used when the preferences yield no search terms.
const DefaultSearchTerm = "healthy"

var (
	vegetarianExclusions = []string{"chicken", "beef", "pork", "fish", "meat", "bacon", "ham"}
	veganExclusions      = []string{"chicken", "beef", "pork", "fish", "meat", "cheese", "milk", "egg", "butter", "cream"}
)

// Rule decides whether a candidate satisfies one dietary constraint. Rules
// are pure and see only the candidate and the preferences.
type Rule func(recipe RecipeCandidate, prefs types.DietaryPreferences) bool

// DefaultRules is the keyword heuristic used while upstream offers no
// structured ingredient or tag data on search results.
func DefaultRules() []Rule {
	return []Rule{CalorieCeiling, Vegetarian, Vegan, AllergenFree}
}

// CalorieCeiling rejects recipes above MaxCalories. Recipes without calorie
// data pass.
func CalorieCeiling(recipe RecipeCandidate, prefs types.DietaryPreferences) bool {
	if prefs.MaxCalories == nil {
		return true
	}
	calories, ok := recipe.CaloriesPerServing()
	if !ok {
		return true
	}
	return calories <= *prefs.MaxCalories
}

// Vegetarian rejects recipes naming meat or fish when "vegetarian" is declared.
func Vegetarian(recipe RecipeCandidate, prefs types.DietaryPreferences) bool {
	if !prefs.HasRestriction("vegetarian") {
		return true
	}
	return !mentionsAny(recipe, vegetarianExclusions)
}

// Vegan rejects recipes naming animal products when "vegan" is declared.
func Vegan(recipe RecipeCandidate, prefs types.DietaryPreferences) bool {
	if !prefs.HasRestriction("vegan") {
		return true
	}
	return !mentionsAny(recipe, veganExclusions)
}

// AllergenFree rejects recipes naming any declared allergen.
func AllergenFree(recipe RecipeCandidate, prefs types.DietaryPreferences) bool {
	if len(prefs.Allergens) == 0 {
		return true
	}
	return !mentionsAny(recipe, prefs.Allergens)
}

// FilterRecipes keeps the candidates that pass every rule, in their original
// order. With no rules given, DefaultRules applies.
func FilterRecipes(candidates []RecipeCandidate, prefs types.DietaryPreferences, rules ...Rule) []RecipeCandidate {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	kept := make([]RecipeCandidate, 0, len(candidates))
	for _, recipe := range candidates {
		if passesAll(recipe, prefs, rules) {
			kept = append(kept, recipe)
		}
	}
	recipesFiltered.Add(float64(len(candidates) - len(kept)))
	return kept
}

func passesAll(recipe RecipeCandidate, prefs types.DietaryPreferences, rules []Rule) bool {
	for _, rule := range rules {
		if !rule(recipe, prefs) {
			return false
		}
	}
	return true
}

// mentionsAny does a case-folded substring match of each term against the
// name and the description separately. Blank terms never match.
func mentionsAny(recipe RecipeCandidate, terms []string) bool {
	name := strings.ToLower(recipe.Name)
	description := strings.ToLower(recipe.Description)
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if strings.Contains(name, term) || strings.Contains(description, term) {
			return true
		}
	}
	return false
}

// BuildSearchQuery joins preferred ingredients, cuisine and meal type, in
// that order, with single spaces.
func BuildSearchQuery(prefs types.DietaryPreferences) string {
	terms := make([]string, 0, len(prefs.PreferredIngredients)+2)
	for _, ingredient := range prefs.PreferredIngredients {
		if s := strings.TrimSpace(ingredient); s != "" {
			terms = append(terms, s)
		}
	}
	if s := strings.TrimSpace(prefs.Cuisine); s != "" {
		terms = append(terms, s)
	}
	if s := strings.TrimSpace(prefs.MealType); s != "" {
		terms = append(terms, s)
	}

	if len(terms) == 0 {
		return DefaultSearchTerm
	}
	return strings.Join(terms, " ")
}
