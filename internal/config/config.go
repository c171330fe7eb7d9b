package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string

	// MediaSigningKey signs time-limited media URLs; MediaURLTTL is their
	// lifetime in seconds.
	MediaSigningKey string
	MediaURLTTL     int

	// OpenAI-compatible chat endpoint for the filter assistant.
	AIBaseURL string
	AIAPIKey  string
	AIModel   string

	// Contact-form relay.
	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string
	ContactFrom string
	ContactTo   string
}

// Load reads .env when present, then the environment, with dev-safe
// defaults. The effective non-secret values are logged once at startup.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, using environment only")
	}

	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		DBDSN:    getEnv("DB_DSN", "auzland.db"),
		// Storage root; media keys (media/<listing>/<file>) resolve under it.
		MediaDir: getEnv("MEDIA_DIR", "./storage"),
		LogFile:  getEnv("LOG_FILE", "./auzland.log"),

		MediaSigningKey: getEnv("MEDIA_SIGNING_KEY", "dev-only-signing-key"),
		MediaURLTTL:     getEnvInt("MEDIA_URL_TTL", 900),

		AIBaseURL: getEnv("AI_BASE_URL", "https://api.deepinfra.com/v1/openai"),
		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIModel:   getEnv("AI_MODEL", "meta-llama/Meta-Llama-3-8B-Instruct"),

		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		ContactFrom: getEnv("CONTACT_FROM", "noreply@auzlandre.com.au"),
		ContactTo:   os.Getenv("CONTACT_TO"),
	}

	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s AI_MODEL=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.AIModel)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
