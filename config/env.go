package config

import (
	"os"
	"strings"
)

// Environment is the deployment stage the API runs in.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads the stage from CI and ENV.
func GetEnvironment() Environment {
	return parseEnvironment(os.Getenv("CI"), os.Getenv("ENV"))
}

// parseEnvironment gives CI=true precedence over ENV. Unknown or empty ENV
// values fall back to Development.
func parseEnvironment(ci, env string) Environment {
	if strings.EqualFold(strings.TrimSpace(ci), "true") {
		return CI
	}

	switch stage := Environment(strings.ToLower(strings.TrimSpace(env))); stage {
	case Production, Test, Development:
		return stage
	default:
		return Development
	}
}

// IsProduction reports whether e is the production stage. Production puts
// gin in release mode and requires a database password.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ReadsSecretFiles reports whether Docker secret files overlay the
// environment. CI passes FatSecret and database credentials as plain
// variables, so the secrets directory is ignored there.
func (e Environment) ReadsSecretFiles() bool {
	return e != CI
}
