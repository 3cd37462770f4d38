package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the values a running server cannot do
// without are present.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.JWTSecret == "" {
		errors = append(errors, "jwt secret is required (JWT_SECRET or jwt_secret secret)")
	}
	if cfg.DBHost == "" {
		errors = append(errors, "database host is required")
	}
	if cfg.DBName == "" {
		errors = append(errors, "database name is required")
	}
	if IsProduction() {
		if cfg.DBPassword == "" {
			errors = append(errors, "database password is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errors = append(errors, "ssl must not be disabled in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}
