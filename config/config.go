package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	env "github.com/caarlos0/env/v10"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort string `env:"SERVER_PORT" envDefault:"3000"`

	// Database configuration
	DBDriver      string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBUser        string `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBName        string `env:"DB_NAME" envDefault:"nutriconsulta"`
	DBSSLMode     string `env:"DB_SSL_MODE" envDefault:"disable"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"nutriconsulta.db"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`

	// Redis configuration
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisURL      string `env:"REDIS_URL"`

	// FatSecret configuration
	FatSecretBaseURL        string        `env:"FATSECRET_BASE_URL" envDefault:"https://platform.fatsecret.com/rest/server.api"`
	FatSecretProfileURL     string        `env:"FATSECRET_PROFILE_URL" envDefault:"https://platform.fatsecret.com/rest/profile/v1"`
	FatSecretConsumerKey    string        `env:"FATSECRET_CONSUMER_KEY"`
	FatSecretConsumerSecret string        `env:"FATSECRET_CONSUMER_SECRET"`
	FatSecretTimeout        time.Duration `env:"FATSECRET_TIMEOUT" envDefault:"30s"`

	// HTTP behaviour
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RateLimitRequests  int           `env:"RATE_LIMIT_REQUESTS" envDefault:"10"`
	RateLimitWindow    time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`
	RecipeCacheTTL     time.Duration `env:"RECIPE_CACHE_TTL" envDefault:"24h"`

	// Object storage for patient exports; exports are disabled without a bucket
	S3BucketName  string        `env:"S3_BUCKET_NAME"`
	S3Endpoint    string        `env:"S3_ENDPOINT"`
	AWSRegion     string        `env:"AWS_REGION" envDefault:"us-east-1"`
	ExportLinkTTL time.Duration `env:"EXPORT_LINK_TTL" envDefault:"15m"`
}

// secretFields maps Docker secret file names to the fields they populate.
func (c *Config) secretFields() map[string]*string {
	return map[string]*string{
		"fatsecret_consumer_key":    &c.FatSecretConsumerKey,
		"fatsecret_consumer_secret": &c.FatSecretConsumerSecret,
		"db_password":               &c.DBPassword,
		"redis_password":            &c.RedisPassword,
	}
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	environment := GetEnvironment()
	cfg := &Config{Environment: environment}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if environment.ReadsSecretFiles() {
		loadSecrets(cfg, secretsDir())
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadSecrets overlays Docker secrets onto cfg. Missing files leave the
// environment value in place.
func loadSecrets(cfg *Config, dir string) {
	for name, field := range cfg.secretFields() {
		if value := readSecret(dir, name); value != "" {
			*field = value
		}
	}
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ServerAddr is the listen address of the HTTP server.
func (c *Config) ServerAddr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisAddr is host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

// ExportsEnabled reports whether patient exports have a bucket to write to.
func (c *Config) ExportsEnabled() bool {
	return c.S3BucketName != ""
}
