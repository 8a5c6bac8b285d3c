package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingAPIKey  = errors.New("ANTHROPIC_API_KEY is required")
	ErrMissingStorage = errors.New("DB_URL or SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
)

type Config struct {
	Port               string
	DBUrl              string
	SupabaseURL        string
	SupabaseServiceKey string
	AppEnv             string
	EnableDocs         bool
	LogLevel           string
	AnthropicAPIKey    string
	AnthropicBaseURL   string
	LLMModel           string
	LLMMaxTokens       int
	LLMTimeout         time.Duration
	CoachesPath        string
	PublicBaseURL      string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBUrl:              strings.TrimSpace(getEnv("DB_URL", "")),
		SupabaseURL:        strings.TrimSpace(getEnv("SUPABASE_URL", "")),
		SupabaseServiceKey: strings.TrimSpace(getEnv("SUPABASE_SERVICE_KEY", "")),
		AppEnv:             normalizeEnv(getEnv("APP_ENV", "production")),
		EnableDocs:         getEnvBool("ENABLE_API_DOCS", false),
		LogLevel:           getEnv("LOG_LEVEL", ""),
		AnthropicAPIKey:    strings.TrimSpace(getEnv("ANTHROPIC_API_KEY", "")),
		AnthropicBaseURL:   strings.TrimSpace(getEnv("ANTHROPIC_BASE_URL", "")),
		LLMModel:           strings.TrimSpace(getEnv("LLM_MODEL", "")),
		LLMMaxTokens:       getEnvInt("LLM_MAX_TOKENS", 4000),
		LLMTimeout:         time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
		CoachesPath:        strings.TrimSpace(getEnv("COACHES_PATH", "")),
		PublicBaseURL:      strings.TrimSpace(getEnv("PUBLIC_BASE_URL", "")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return ErrMissingAPIKey
	}
	if c.DBUrl == "" && !c.UseSupabase() {
		return ErrMissingStorage
	}
	return nil
}

// UseSupabase reports whether shares go through the Supabase REST API.
// DB_URL wins when both are configured.
func (c *Config) UseSupabase() bool {
	return c.DBUrl == "" && c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// getEnvInt returns fallback for unset, malformed or non-positive values.
func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.AppEnv == "development"
}
