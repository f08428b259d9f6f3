package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	DatabasePath       string
	LogLevel           string
	MaxUploadSizeBytes int64
	AllowedOrigin      string

	// Analytics knobs. BaseRisk is the currency amount one R represents;
	// SessionBoundaries are the start hours of the three trading sessions
	// (adjustable so users in other timezones can shift the grid).
	BaseRisk          float64
	SessionBoundaries [3]int
	MinTradesPerSetup int

	// StartingBalance seeds the equity curve when an imported report
	// carries no deposit line of its own.
	StartingBalance float64
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	baseRisk := getEnvAsFloat("BASE_RISK", 10)
	if baseRisk <= 0 {
		log.Printf("WARNING: BASE_RISK must be positive, got %v. Using default 10.", baseRisk)
		baseRisk = 10
	}

	boundaries := [3]int{
		getEnvAsInt("SESSION_ASIA_START", 0),
		getEnvAsInt("SESSION_LONDON_START", 8),
		getEnvAsInt("SESSION_NEWYORK_START", 16),
	}
	for i, h := range boundaries {
		if h < 0 || h > 23 {
			log.Printf("WARNING: Session boundary %d out of range (%d). Using defaults 0/8/16.", i, h)
			boundaries = [3]int{0, 8, 16}
			break
		}
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "./tradevault.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,
		AllowedOrigin:      getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		BaseRisk:           baseRisk,
		SessionBoundaries:  boundaries,
		MinTradesPerSetup:  getEnvAsInt("MIN_TRADES_PER_SETUP", 1),
		StartingBalance:    getEnvAsFloat("STARTING_BALANCE", 10000),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, BaseRisk=%.2f",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.BaseRisk)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Float value for %s not set or empty, using default: %v", key, fallback)
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}
