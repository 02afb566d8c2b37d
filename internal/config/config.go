package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	HTTPPort        string
	SalesStore      string
	DetailedLogPath string
	SummaryLogPath  string
	DatabaseDSN     string
	CatalogPath     string
	LogLevel        string
	CORSOrigins     []string
}

// Load reads an optional .env file, then environment variables with reasonable defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("unable to read .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() Config {
	port := getEnv("HTTP_PORT", "8080")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	store := strings.ToLower(getEnv("SALES_STORE", "csv"))
	if store != "csv" && store != "sqlite" {
		log.Printf("invalid SALES_STORE value %q, defaulting to csv", store)
		store = "csv"
	}

	level := strings.ToLower(getEnv("LOG_LEVEL", "info"))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		log.Printf("invalid LOG_LEVEL value %q, defaulting to info", level)
		level = "info"
	}

	var origins []string
	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		HTTPPort:        port,
		SalesStore:      store,
		DetailedLogPath: getEnv("DETAILED_LOG_PATH", "detailed_sales.csv"),
		SummaryLogPath:  getEnv("SUMMARY_LOG_PATH", "summary_sales.csv"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "regi.db"),
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		LogLevel:        level,
		CORSOrigins:     origins,
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
