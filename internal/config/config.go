package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"feed-service/internal/secrets"
)

// Config holds all configuration for the feed service
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// Redis (optional category-tree cache)
	RedisURL string

	// GCP
	GCPProjectID string

	// Reference catalogs
	PhoneCatalogPath  string
	LaptopCatalogPath string

	// Templates and output
	TemplateDirs          []string
	SecondaryTemplatePath string
	NotebookSheetName     string
	OutputDir             string
	PublicBasePath        string

	// Generation
	RunTimeout        time.Duration
	MaxConcurrentRuns int

	// Rate Limiting
	DefaultRateLimit int // requests per second

	// CORS
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() *Config {
	gcpProjectID := getEnv("GCP_PROJECT_ID", "")

	// Build DATABASE_URL from components, resolving the password via GCP
	// Secret Manager when available
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbUser := getEnv("DB_USER", "postgres")
		dbPassword := resolveDBPassword(gcpProjectID)
		dbName := getEnv("DB_NAME", "store")
		dbSSLMode := getEnv("DB_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPassword, dbHost, dbPort, dbName, dbSSLMode)
	}

	config := &Config{
		Port:        getEnv("PORT", "8105"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: databaseURL,

		RedisURL: getEnv("REDIS_URL", ""),

		// GCP
		GCPProjectID: gcpProjectID,

		// Reference catalogs
		PhoneCatalogPath:  getEnv("PHONE_CATALOG_PATH", "data/catalogs/phones.txt"),
		LaptopCatalogPath: getEnv("LAPTOP_CATALOG_PATH", "data/catalogs/laptops.txt"),

		// Templates and output
		TemplateDirs:          getEnvAsList("TEMPLATE_DIRS", []string{"data/templates"}),
		SecondaryTemplatePath: getEnv("SECONDARY_TEMPLATE_PATH", ""),
		NotebookSheetName:     getEnv("NOTEBOOK_SHEET_NAME", "Ноутбуки"),
		OutputDir:             getEnv("OUTPUT_DIR", "data/feeds"),
		PublicBasePath:        getEnv("PUBLIC_BASE_PATH", "/files/feeds"),

		// Generation
		RunTimeout:        getEnvAsDuration("RUN_TIMEOUT", 10*time.Minute),
		MaxConcurrentRuns: getEnvAsInt("MAX_CONCURRENT_RUNS", 4),

		// Rate Limiting
		DefaultRateLimit: getEnvAsInt("DEFAULT_RATE_LIMIT", 10),

		// CORS
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Validate required fields
	if config.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	if config.GCPProjectID == "" {
		log.Println("Warning: GCP_PROJECT_ID not set, secrets management will be disabled")
	}

	return config
}

// resolveDBPassword prefers the env var and falls back to Secret Manager.
func resolveDBPassword(gcpProjectID string) string {
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		return password
	}
	if gcpProjectID == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	manager, err := secrets.NewManager(ctx, gcpProjectID)
	if err != nil {
		log.Printf("Warning: secret manager unavailable: %v", err)
		return ""
	}
	defer manager.Close()

	secretID := getEnv("DB_PASSWORD_SECRET_ID", "feed-service-db-password")
	password, err := manager.GetString(ctx, secretID)
	if err != nil {
		log.Printf("Warning: could not read DB password secret: %v", err)
		return ""
	}
	return password
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

// getEnvAsList gets a comma-separated environment variable as a string slice
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
