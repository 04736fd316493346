package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriconsulta/backend/internal/service"
	"github.com/nutriconsulta/backend/internal/types"
)

// RecipeHandler serves recipe generation and upstream recipe details
type RecipeHandler struct {
	recipes service.IRecipeService
	limiter gin.HandlerFunc
}

// NewRecipeHandler creates a handler. limiter guards the generation routes
// and may be nil.
func NewRecipeHandler(recipes service.IRecipeService, limiter gin.HandlerFunc) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		limiter: limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router gin.IRouter) {
	generate := []gin.HandlerFunc{h.GenerateRecipes}
	if h.limiter != nil {
		generate = append([]gin.HandlerFunc{h.limiter}, generate...)
	}

	recipes := router.Group("/recipes")
	{
		recipes.POST("/generate", generate...)
		recipes.GET("/:recipeId", h.GetRecipeDetails)
	}

	// legacy path still used by older frontends
	router.POST("/gerarReceita", generate...)
}

func (h *RecipeHandler) GenerateRecipes(c *gin.Context) {
	var req types.GenerateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.recipes.GenerateForPatient(c.Request.Context(), req.CPF, req.Preferences)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Recipes generated",
		"receitas":      result.Recipes,
		"totalReceitas": result.Total,
	})
}

func (h *RecipeHandler) GetRecipeDetails(c *gin.Context) {
	recipe, err := h.recipes.GetRecipeDetails(c.Request.Context(), c.Param("recipeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}
