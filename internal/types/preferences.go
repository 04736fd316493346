package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DietaryPreferences holds the constraints a patient declares when asking
// for recipe recommendations. It is built per request.
type DietaryPreferences struct {
	MaxCalories          *float64 `json:"maxCalories,omitempty"`
	DietaryRestrictions  []string `json:"dietaryRestrictions,omitempty"`
	Allergens            []string `json:"allergens,omitempty"`
	PreferredIngredients []string `json:"preferredIngredients,omitempty"`
	Cuisine              string   `json:"cuisine,omitempty"`
	MealType             string   `json:"mealType,omitempty"`
	SpiceLevel           string   `json:"spiceLevel,omitempty"`
}

// HasRestriction reports whether name is one of the declared dietary
// restrictions, ignoring case and surrounding whitespace.
func (p DietaryPreferences) HasRestriction(name string) bool {
	for _, r := range p.DietaryRestrictions {
		if strings.EqualFold(strings.TrimSpace(r), name) {
			return true
		}
	}
	return false
}

// Value implements the driver.Valuer interface
func (p DietaryPreferences) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (p *DietaryPreferences) Scan(value interface{}) error {
	if value == nil {
		*p = DietaryPreferences{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for DietaryPreferences: %T", value)
	}

	return json.Unmarshal(bytes, p)
}
