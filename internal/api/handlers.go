package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nutriconsulta/backend/internal/service"
)

// Services bundles what the handlers depend on. Exports and
// GenerationLimiter are optional.
type Services struct {
	Patients          service.IPatientService
	Forms             service.IFormService
	Recipes           service.IRecipeService
	Foods             service.IFoodService
	Exports           service.IExportService
	GenerationLimiter gin.HandlerFunc
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Nutrition API is running",
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services) {
	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	NewPatientHandler(svc.Patients, svc.Exports).RegisterRoutes(router)
	NewFormHandler(svc.Forms).RegisterRoutes(router)
	NewRecipeHandler(svc.Recipes, svc.GenerationLimiter).RegisterRoutes(router)
	NewFoodHandler(svc.Foods).RegisterRoutes(router)
}
