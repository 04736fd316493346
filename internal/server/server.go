package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nutriconsulta/backend/config"
	"github.com/nutriconsulta/backend/internal/api"
	"github.com/nutriconsulta/backend/internal/middleware"
	"github.com/nutriconsulta/backend/internal/service"
)

// Dependencies are the external resources the server is built on. Redis and
// Exports are optional: without Redis recipe details are not cached and
// generation is not rate limited; without Exports the export route is absent.
type Dependencies struct {
	DB        *gorm.DB
	Redis     *redis.Client
	FatSecret service.FatSecretAPI
	Exports   service.ObjectStore
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies) *Server {
	router := gin.New()
	router.Use(
		gin.Logger(),
		middleware.ErrorHandler(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	api.RegisterRoutes(router, buildServices(cfg, deps))

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.ServerAddr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func buildServices(cfg *config.Config, deps Dependencies) api.Services {
	patients := service.NewPatientService(deps.DB, deps.FatSecret)

	var cache service.RecipeCache
	if deps.Redis != nil {
		cache = service.NewRedisRecipeCache(deps.Redis, cfg.RecipeCacheTTL)
	}

	svc := api.Services{
		Patients: patients,
		Forms:    service.NewFormService(patients),
		Recipes:  service.NewRecipeService(patients, deps.FatSecret, cache),
		Foods:    service.NewFoodService(deps.FatSecret),
	}

	// assigned only when set so the interface stays nil
	if deps.Exports != nil {
		svc.Exports = service.NewExportService(patients, deps.Exports, cfg.ExportLinkTTL)
	}

	if deps.Redis != nil {
		limiter := middleware.NewRecipeGenerationRateLimiter(deps.Redis, cfg.RateLimitRequests, cfg.RateLimitWindow)
		svc.GenerationLimiter = limiter.Middleware(middleware.ClientIPKey)
	} else {
		log.Printf("[Server] Redis not configured, recipe generation is not rate limited")
	}

	return svc
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until Stop is called
func (s *Server) Start() error {
	log.Printf("[Server] Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
