// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port   string
	AppEnv string

	// UploadSecret is the shared event code guests must present.
	UploadSecret string
	// UploadNamespace is the first path segment of every object key.
	UploadNamespace string

	// Object storage (S3-compatible: Cloudflare R2 in production, MinIO locally)
	StorageAccountID string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageEndpoint  string // overrides the endpoint derived from StorageAccountID
	StorageRegion    string
	StorageUseSSL    bool

	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),

		UploadSecret:    os.Getenv("UPLOAD_SECRET"),
		UploadNamespace: getEnv("UPLOAD_NAMESPACE", "tess60"),

		StorageAccountID: os.Getenv("R2_ACCOUNT_ID"),
		StorageAccessKey: os.Getenv("R2_ACCESS_KEY_ID"),
		StorageSecretKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		StorageBucket:    os.Getenv("R2_BUCKET"),
		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageRegion:    getEnv("STORAGE_REGION", "auto"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "true") == "true",

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Endpoint returns the object storage host. An explicit STORAGE_ENDPOINT wins;
// otherwise the R2 account endpoint is used.
func (c *Config) Endpoint() string {
	if c.StorageEndpoint != "" {
		return c.StorageEndpoint
	}
	if c.StorageAccountID == "" {
		return ""
	}
	return c.StorageAccountID + ".r2.cloudflarestorage.com"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
