package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config collects every environment-sourced setting the assistant needs,
// loaded from the process environment (with .env as a local convenience).
type Config struct {
	// LLM provider
	Provider string `envconfig:"LLM_PROVIDER" default:"openai"`
	Model    string `envconfig:"LLM_MODEL" default:"gpt-4o"`

	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	OllamaHost      string `envconfig:"OLLAMA_HOST"`

	// Google platform key, shared by Places, Geocoding, Air Quality and
	// Pollen endpoints.
	GoogleMapsAPIKey string `envconfig:"GOOGLE_MAPS_API_KEY"`

	// Web search
	SerperAPIKey string `envconfig:"SERPER_API_KEY"`

	// Persistence. Postgres wins when both are set; leaving both empty
	// selects the in-memory store.
	PostgresURL string `envconfig:"DATABASE_URL"`
	MongoURI    string `envconfig:"MONGODB_URI"`
	MongoDB     string `envconfig:"MONGODB_DATABASE" default:"locas"`

	// HTTP server
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Production() bool {
	return c.Environment == "production"
}

// ProviderAPIKey returns the key matching the configured LLM provider.
func (c *Config) ProviderAPIKey() string {
	switch c.Provider {
	case "anthropic", "claude":
		return c.AnthropicAPIKey
	case "gemini", "google":
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}
