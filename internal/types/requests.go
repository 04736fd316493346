package types

// CreateFormRequest is the body of POST /forms. Forms carries the raw intake
// answers; their shape is owned by the frontend.
type CreateFormRequest struct {
	CPF   string                 `json:"cpf" binding:"required"`
	Name  string                 `json:"nome"`
	Forms map[string]interface{} `json:"forms"`
}

// GenerateRecipesRequest is the body of POST /recipes/generate
type GenerateRecipesRequest struct {
	CPF         string             `json:"cpf" binding:"required"`
	Preferences DietaryPreferences `json:"preferences"`
}

// FoodSearchQuery binds the query string of GET /foods/search
type FoodSearchQuery struct {
	SearchExpression string `form:"search_expression"`
	MaxResults       string `form:"max_results"`
	PageNumber       string `form:"page_number"`
}
