package config

import (
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks that the configuration is usable before the server starts
func Validate(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "SERVER_PORT", Message: "must not be empty"}
	}
	port, err := strconv.Atoi(cfg.ServerPort)
	if err != nil || port < 1 || port > 65535 {
		return ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("invalid port %q", cfg.ServerPort)}
	}

	if cfg.RecipesDir == "" {
		return ValidationError{Field: "RECIPES_DIR", Message: "must not be empty"}
	}

	if cfg.LLMAPIKey != "" && cfg.LLMAPIURL == "" {
		return ValidationError{Field: "LLM_API_URL", Message: "must not be empty when LLM_API_KEY is set"}
	}

	return nil
}
