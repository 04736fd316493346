package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	lines := make([]string, len(e))
	for i, err := range e {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, message string) {
		errs = append(errs, ValidationError{Field: field, Message: message})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		add("SERVER_PORT", "must be a port number")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for postgres")
		}
		if cfg.Environment.IsProduction() && cfg.DBPassword == "" {
			add("db_password", "secret is required in production")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.FatSecretConsumerKey == "" {
		add("fatsecret_consumer_key", "is required")
	}
	if cfg.FatSecretConsumerSecret == "" {
		add("fatsecret_consumer_secret", "is required")
	}
	if cfg.FatSecretTimeout <= 0 {
		add("FATSECRET_TIMEOUT", "must be positive")
	}

	if cfg.RateLimitRequests <= 0 {
		add("RATE_LIMIT_REQUESTS", "must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive")
	}
	if cfg.RecipeCacheTTL < 0 {
		add("RECIPE_CACHE_TTL", "must not be negative")
	}
	if cfg.ExportsEnabled() && cfg.ExportLinkTTL <= 0 {
		add("EXPORT_LINK_TTL", "must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
