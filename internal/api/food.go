package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriconsulta/backend/internal/service"
	"github.com/nutriconsulta/backend/internal/types"
)

// FoodHandler serves food lookups
type FoodHandler struct {
	foods service.IFoodService
}

func NewFoodHandler(foods service.IFoodService) *FoodHandler {
	return &FoodHandler{foods: foods}
}

func (h *FoodHandler) RegisterRoutes(router gin.IRouter) {
	foods := router.Group("/foods")
	{
		foods.GET("/search", h.SearchFoods)
		foods.GET("/:foodId", h.GetFood)
	}
}

func (h *FoodHandler) SearchFoods(c *gin.Context) {
	var query types.FoodSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params, err := service.ParseFoodSearchQuery(&query)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.foods.SearchFoods(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"query":   params,
	})
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	food, err := h.foods.GetFood(c.Request.Context(), c.Param("foodId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    food,
	})
}
