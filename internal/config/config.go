// Package config reads server configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all server configuration values.
type Config struct {
	Addr   string
	DBPath string

	// Generation gateway (any OpenAI-compatible endpoint)
	OpenAIBaseURL string
	OpenAIAPIKey  string
	Model         string

	GatewayTimeoutSeconds int
	ContextTokenBudget    int
	DefaultPersona        string

	// Optional news lookup
	GNewsBaseURL string
	GNewsAPIKey  string
}

// Load reads configuration from environment variables. A zero
// NEXA_CONTEXT_TOKEN_BUDGET sends the full conversation history.
func Load() (Config, error) {
	timeout, err := envIntOrDefault("NEXA_GATEWAY_TIMEOUT_SECONDS", 30)
	if err != nil {
		return Config{}, err
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("NEXA_GATEWAY_TIMEOUT_SECONDS must be positive, got %d", timeout)
	}

	budget, err := envIntOrDefault("NEXA_CONTEXT_TOKEN_BUDGET", 0)
	if err != nil {
		return Config{}, err
	}
	if budget < 0 {
		return Config{}, fmt.Errorf("NEXA_CONTEXT_TOKEN_BUDGET must not be negative, got %d", budget)
	}

	return Config{
		Addr:                  envOrDefault("NEXA_ADDR", ":8100"),
		DBPath:                envOrDefault("NEXA_DB_PATH", "nexa.db"),
		OpenAIBaseURL:         envOrDefault("NEXA_OPENAI_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		Model:                 envOrDefault("NEXA_MODEL", "gpt-4o-mini"),
		GatewayTimeoutSeconds: timeout,
		ContextTokenBudget:    budget,
		DefaultPersona:        envOrDefault("NEXA_DEFAULT_PERSONA", "Friendly"),
		GNewsBaseURL:          os.Getenv("NEXA_GNEWS_BASE_URL"),
		GNewsAPIKey:           os.Getenv("GNEWS_API_KEY"),
	}, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
