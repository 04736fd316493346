package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutriconsulta/backend/config"
	"github.com/nutriconsulta/backend/internal/database"
	"github.com/nutriconsulta/backend/internal/fatsecret"
	"github.com/nutriconsulta/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	deps := server.Dependencies{
		DB: db,
		FatSecret: fatsecret.NewClient(
			fatsecret.Credentials{
				ConsumerKey:    cfg.FatSecretConsumerKey,
				ConsumerSecret: cfg.FatSecretConsumerSecret,
			},
			fatsecret.WithBaseURL(cfg.FatSecretBaseURL),
			fatsecret.WithProfileURL(cfg.FatSecretProfileURL),
			fatsecret.WithTimeout(cfg.FatSecretTimeout),
		),
	}

	// Redis is optional: caching and rate limiting are skipped without it
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: %v", err)
	} else {
		defer redisClient.Close()
		deps.Redis = redisClient
	}

	if cfg.ExportsEnabled() {
		store, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		deps.Exports = store
	}

	srv := server.New(cfg, deps)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
