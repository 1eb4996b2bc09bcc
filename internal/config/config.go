package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Local storage
	DataDir    string
	Passphrase string // snapshot cipher passphrase; override the default in any real deployment
	// Completion endpoint
	APIKey       string
	BaseURL      string
	DefaultModel string
	// Debug flags
	Debug bool
}

// defaultPassphrase keeps first-run behavior working without any setup.
// The original tool shipped a fixed embedded secret; here it is only the
// fallback when INKWELL_PASSPHRASE is unset.
const defaultPassphrase = "inkwell-local-snapshot"

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DataDir:     getEnv("INKWELL_DATA_DIR", defaultDataDir()),
		Passphrase:  getEnv("INKWELL_PASSPHRASE", defaultPassphrase),
		// Completion endpoint (OpenRouter-compatible)
		APIKey:       getEnv("OPENROUTER_API_KEY", ""),
		BaseURL:      getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		DefaultModel: getEnv("DEFAULT_MODEL", "anthropic/claude-3.5-haiku"),
		// Debug defaults to true outside prod
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inkwell"
	}
	return home + "/.inkwell"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
