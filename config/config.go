package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the explicit configuration object handed to every collaborator at
// construction time. Nothing in the rest of the codebase reads the
// environment directly.
type Config struct {
	Port      string
	ClientURL string

	// FirebaseCredentials is the base64-encoded service account JSON.
	FirebaseCredentials string

	OpenAIKey string

	// MapsAPIKey enables real geocoding; empty falls back to the static
	// country table.
	MapsAPIKey string

	// NaturalLanguageCredentials is base64-encoded; empty disables the
	// entity-extraction location fallback in the parser.
	NaturalLanguageCredentials string

	WeaviateURL    string
	WeaviateScheme string

	// OutputDir is where dashboards and charts are written, ReportsDir is
	// where compiled reports land.
	OutputDir  string
	ReportsDir string

	// ArtifactMaxAgeDays bounds how long generated artifacts are kept
	// before the cleanup cron prunes them.
	ArtifactMaxAgeDays int
}

// Load reads .env (when present) and builds a Config from the environment.
func Load() (Config, error) {
	// Missing .env is fine in deployed environments, the vars come from
	// the platform there.
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment as-is")
	}

	cfg := Config{
		Port:                       getenvDefault("PORT", "8080"),
		ClientURL:                  os.Getenv("CLIENT_URL"),
		FirebaseCredentials:        os.Getenv("FIREBASE_CREDENTIALS"),
		OpenAIKey:                  os.Getenv("OPENAI_API_KEY"),
		MapsAPIKey:                 os.Getenv("MAPS_CREDENTIALS"),
		NaturalLanguageCredentials: os.Getenv("NATURAL_LANGUAGE_CREDENTIALS"),
		WeaviateURL:                os.Getenv("WEAVIATE_URL"),
		WeaviateScheme:             getenvDefault("WEAVIATE_SCHEME", "http"),
		OutputDir:                  getenvDefault("OUTPUT_DIR", "artifacts"),
		ReportsDir:                 getenvDefault("REPORTS_DIR", "reports"),
		ArtifactMaxAgeDays:         7,
	}

	if v := os.Getenv("ARTIFACT_MAX_AGE_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ARTIFACT_MAX_AGE_DAYS %q: %w", v, err)
		}
		cfg.ArtifactMaxAgeDays = days
	}

	// The event store is not optional: without credentials there is
	// nothing to analyze. This is a startup failure, not a per-request one.
	if cfg.FirebaseCredentials == "" {
		return Config{}, fmt.Errorf("FIREBASE_CREDENTIALS not set")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
