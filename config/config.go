package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Recipe storage
	RecipesDir string

	// Watch the recipes directory and reload on changes
	WatchRecipes bool

	// LLM configuration (recipe generation is disabled when the key is empty)
	LLMAPIKey string
	LLMAPIURL string
	LLMModel  string
}

const (
	defaultServerHost = "0.0.0.0"
	defaultServerPort = "5000"
	defaultRecipesDir = "recipes"
	defaultLLMAPIURL  = "https://api.deepseek.com/v1/chat/completions"
	defaultLLMModel   = "deepseek-chat"
)

// Load creates a new Config instance from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerHost:   getEnv("SERVER_HOST", defaultServerHost),
		ServerPort:   getEnv("SERVER_PORT", defaultServerPort),
		RecipesDir:   getEnv("RECIPES_DIR", defaultRecipesDir),
		WatchRecipes: getEnv("WATCH_RECIPES", "true") != "false",
		LLMAPIURL:    getEnv("LLM_API_URL", defaultLLMAPIURL),
		LLMModel:     getEnv("LLM_MODEL", defaultLLMModel),
	}

	key, err := loadAPIKey()
	if err != nil {
		return nil, err
	}
	cfg.LLMAPIKey = key

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadAPIKey reads the LLM API key from the environment, or from the file
// named by LLM_API_KEY_FILE. An absent key is not an error: recipe
// generation is simply disabled.
func loadAPIKey() (string, error) {
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		return strings.TrimSpace(key), nil
	}

	keyFile := os.Getenv("LLM_API_KEY_FILE")
	if keyFile == "" {
		return "", nil
	}

	data, err := os.ReadFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("API key file %s is empty", keyFile)
	}
	return key, nil
}

// Addr returns the host:port the HTTP server should listen on
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// GenerationEnabled reports whether LLM recipe generation is configured
func (c *Config) GenerationEnabled() bool {
	return c.LLMAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
