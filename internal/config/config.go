package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Supported AI backends.
const (
	AIClientGemini = "gemini"
	AIClientOpenAI = "openai"
	AIClientOllama = "ollama"
)

// secretsDir is the Docker Secrets mount point.
var secretsDir = "/run/secrets"

// Config holds the settings of the director server and terminal client.
type Config struct {
	Env            string `envconfig:"ENV" default:"development"`
	HTTPServerPort string `envconfig:"HTTP_SERVER_PORT" default:"8080"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// AI settings
	AIClientType  string        `envconfig:"AI_CLIENT_TYPE" default:"gemini"`
	AIBaseURL     string        `envconfig:"AI_BASE_URL"` // empty means the backend default
	AIModel       string        `envconfig:"AI_MODEL" default:"gemini-2.5-flash"`
	AITimeout     time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AITemperature float64       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	AIAPIKey      string        `envconfig:"API_KEY"`

	// Sessions
	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SessionSweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// LoadConfig reads the configuration from the environment. The API key falls back to
// the ai_api_key Docker secret. A missing key is not an error here: generation
// reports it per call.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.AIClientType = strings.ToLower(strings.TrimSpace(cfg.AIClientType))
	switch cfg.AIClientType {
	case AIClientGemini, AIClientOpenAI, AIClientOllama:
	default:
		return nil, fmt.Errorf("unknown AI_CLIENT_TYPE '%s'", cfg.AIClientType)
	}

	if cfg.AITimeout <= 0 {
		return nil, errors.New("AI_TIMEOUT must be positive")
	}

	if strings.TrimSpace(cfg.AIAPIKey) == "" {
		secret, err := readOptionalSecret("ai_api_key")
		if err != nil {
			return nil, err
		}
		cfg.AIAPIKey = secret
	}
	cfg.AIAPIKey = strings.TrimSpace(cfg.AIAPIKey)

	return &cfg, nil
}

// HasCredential reports whether generation calls may reach the AI backend.
// Ollama runs locally and needs no key.
func (c *Config) HasCredential() bool {
	return c.AIAPIKey != "" || c.AIClientType == AIClientOllama
}

// GetAllowedOrigins splits CORSAllowedOrigins into a list.
func (c *Config) GetAllowedOrigins() []string {
	if strings.TrimSpace(c.CORSAllowedOrigins) == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// LogFields returns the configuration as zap fields with the key masked.
func (c *Config) LogFields() []zap.Field {
	keyState := "[NOT SET]"
	if c.AIAPIKey != "" {
		keyState = "[LOADED]"
	}
	return []zap.Field{
		zap.String("env", c.Env),
		zap.String("http_port", c.HTTPServerPort),
		zap.String("ai_client_type", c.AIClientType),
		zap.String("ai_base_url", c.AIBaseURL),
		zap.String("ai_model", c.AIModel),
		zap.Duration("ai_timeout", c.AITimeout),
		zap.Float64("ai_temperature", c.AITemperature),
		zap.String("ai_api_key", keyState),
		zap.Duration("session_ttl", c.SessionTTL),
	}
}

// readOptionalSecret reads a Docker secret. A missing file yields an empty value.
func readOptionalSecret(name string) (string, error) {
	path := filepath.Join(secretsDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read secret file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
