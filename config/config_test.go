package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecrets(t *testing.T, secrets map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o600))
	}
	return dir
}

func setTestEnvironment(t *testing.T, secrets map[string]string) {
	t.Helper()
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", writeSecrets(t, secrets))
}

func TestLoadConfigWithDefaults(t *testing.T) {
	setTestEnvironment(t, map[string]string{
		"fatsecret_consumer_key":    "key",
		"fatsecret_consumer_secret": "secret",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "0.0.0.0:3000", cfg.ServerAddr())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "nutriconsulta", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, "https://platform.fatsecret.com/rest/server.api", cfg.FatSecretBaseURL)
	assert.Equal(t, "https://platform.fatsecret.com/rest/profile/v1", cfg.FatSecretProfileURL)
	assert.Equal(t, 30*time.Second, cfg.FatSecretTimeout)
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
	assert.Equal(t, 24*time.Hour, cfg.RecipeCacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.ExportLinkTTL)
	assert.False(t, cfg.ExportsEnabled())
	assert.Empty(t, cfg.CORSAllowedOrigins)

	assert.Equal(t, "key", cfg.FatSecretConsumerKey)
	assert.Equal(t, "secret", cfg.FatSecretConsumerSecret)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	setTestEnvironment(t, nil)
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/nutri.db")
	t.Setenv("FATSECRET_CONSUMER_KEY", "env-key")
	t.Setenv("FATSECRET_CONSUMER_SECRET", "env-secret")
	t.Setenv("FATSECRET_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://app.example.com")
	t.Setenv("S3_BUCKET_NAME", "patient-exports")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/nutri.db", cfg.SQLitePath)
	assert.Equal(t, "env-key", cfg.FatSecretConsumerKey)
	assert.Equal(t, 5*time.Second, cfg.FatSecretTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.ExportsEnabled())
}

func TestSecretsOverrideEnvironment(t *testing.T) {
	setTestEnvironment(t, map[string]string{
		"fatsecret_consumer_key":    "file-key",
		"fatsecret_consumer_secret": "file-secret",
		"db_password":               "file-db-password",
	})
	t.Setenv("FATSECRET_CONSUMER_KEY", "env-key")
	t.Setenv("DB_PASSWORD", "env-db-password")
	t.Setenv("REDIS_PASSWORD", "env-redis-password")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.FatSecretConsumerKey)
	assert.Equal(t, "file-db-password", cfg.DBPassword)
	assert.Equal(t, "env-redis-password", cfg.RedisPassword)
}

func TestCIIgnoresSecretFiles(t *testing.T) {
	setTestEnvironment(t, map[string]string{
		"fatsecret_consumer_key":    "file-key",
		"fatsecret_consumer_secret": "file-secret",
	})
	t.Setenv("CI", "true")
	t.Setenv("FATSECRET_CONSUMER_KEY", "ci-key")
	t.Setenv("FATSECRET_CONSUMER_SECRET", "ci-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, CI, cfg.Environment)
	assert.Equal(t, "ci-key", cfg.FatSecretConsumerKey)
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		name string
		ci   string
		env  string
		want Environment
	}{
		{name: "ci wins over env", ci: "true", env: "production", want: CI},
		{name: "ci flag is case-insensitive", ci: "TRUE", want: CI},
		{name: "production", env: "production", want: Production},
		{name: "env is trimmed and lowercased", env: " Test ", want: Test},
		{name: "ci=false is ignored", ci: "false", env: "development", want: Development},
		{name: "unknown stage", env: "staging", want: Development},
		{name: "unset", want: Development},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseEnvironment(tt.ci, tt.env))
		})
	}
}

func TestEnvironmentBehaviour(t *testing.T) {
	assert.True(t, Production.IsProduction())
	assert.False(t, CI.IsProduction())

	assert.False(t, CI.ReadsSecretFiles())
	for _, e := range []Environment{Development, Test, Production} {
		assert.True(t, e.ReadsSecretFiles(), e)
	}
}

func TestProductionEnvironmentFromENV(t *testing.T) {
	setTestEnvironment(t, map[string]string{
		"fatsecret_consumer_key":    "file-key",
		"fatsecret_consumer_secret": "file-secret",
		"db_password":               "file-db-password",
	})
	t.Setenv("ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Environment.IsProduction())
	assert.Equal(t, "file-db-password", cfg.DBPassword)
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	setTestEnvironment(t, nil)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatsecret_consumer_key")
	assert.Contains(t, err.Error(), "fatsecret_consumer_secret")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:             Development,
			ServerPort:              "3000",
			DBDriver:                "postgres",
			DBHost:                  "localhost",
			DBName:                  "nutriconsulta",
			FatSecretConsumerKey:    "key",
			FatSecretConsumerSecret: "secret",
			FatSecretTimeout:        time.Second,
			RateLimitRequests:       10,
			RateLimitWindow:         time.Hour,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		fields []string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:   "bad port",
			mutate: func(c *Config) { c.ServerPort = "http" },
			fields: []string{"SERVER_PORT"},
		},
		{
			name:   "unknown driver",
			mutate: func(c *Config) { c.DBDriver = "mysql" },
			fields: []string{"DB_DRIVER"},
		},
		{
			name:   "production needs a database password",
			mutate: func(c *Config) { c.Environment = Production },
			fields: []string{"db_password"},
		},
		{
			name: "sqlite needs no postgres settings",
			mutate: func(c *Config) {
				c.DBDriver = "sqlite"
				c.DBHost = ""
				c.SQLitePath = "nutri.db"
			},
		},
		{
			name: "several problems are reported together",
			mutate: func(c *Config) {
				c.RateLimitRequests = 0
				c.RateLimitWindow = 0
				c.FatSecretTimeout = 0
			},
			fields: []string{"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "FATSECRET_TIMEOUT"},
		},
		{
			name: "exports need a link lifetime",
			mutate: func(c *Config) {
				c.S3BucketName = "exports"
			},
			fields: []string{"EXPORT_LINK_TTL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs))
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestGeneratePresignedURL(t *testing.T) {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint: aws.String("http://localhost:9000"),
		UsePathStyle: true,
	})
	store := &S3Config{Client: client, BucketName: "patient-exports"}

	url, err := store.GeneratePresignedURL(context.Background(), "exports/patients/1/export.json", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/patient-exports/exports/patients/1/export.json")
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}
