package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration, read once at startup. Credentials
// are passed into client constructors from here; business logic never reads
// the environment directly.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string

	GroqAPIKey  string
	GroqModel   string
	GroqTimeout time.Duration

	ApifyToken   string
	ApifyActorID string
	ApifyTimeout time.Duration

	DefaultLocation string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of a local env file for dev convenience.
	_ = godotenv.Load()

	env := normalizeEnv(getEnv("ENV", "dev"))

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),
		Env:             env,
		GroqAPIKey:      strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		GroqModel:       getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqTimeout:     getDuration("GROQ_TIMEOUT_SECONDS", 60*time.Second),
		ApifyToken:      strings.TrimSpace(os.Getenv("APIFY_API_TOKEN")),
		ApifyActorID:    getEnv("APIFY_ACTOR_ID", "BHzefUZlZRKWxkTck"),
		ApifyTimeout:    getDuration("APIFY_TIMEOUT_SECONDS", 120*time.Second),
		DefaultLocation: getEnv("DEFAULT_LOCATION", "United States"),
	}

	if cfg.GroqAPIKey == "" && env == "production" {
		log.Fatal("GROQ_API_KEY is required in production")
	}

	return cfg
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return time.Duration(parsed) * time.Second
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}
