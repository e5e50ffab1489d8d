package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	FrontendURL string
	LogLevel    string

	StoreDriver  string
	MongoURI     string
	MongoDB      string
	StoreTimeout time.Duration

	AuthMode                   string
	JWTSecret                  string
	JWTExpireHours             int
	FirebaseServiceAccountPath string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	PickupTimezone     string
	SessionIdleTTL     time.Duration
	RateLimitPerMinute int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StoreDriver:  getEnv("STORE_DRIVER", "mongo"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "strayrescue"),
		StoreTimeout: getDuration("STORE_TIMEOUT", 10*time.Second),

		AuthMode:                   getEnv("AUTH_MODE", "jwt"),
		JWTSecret:                  getEnv("JWT_SECRET", "secret"),
		JWTExpireHours:             getInt("JWT_EXPIRE_HOURS", 24),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "strayrescue"),

		PickupTimezone:     getEnv("PICKUP_TIMEZONE", "UTC"),
		SessionIdleTTL:     getDuration("SESSION_IDLE_TTL", 30*time.Minute),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 60),
	}
}

// IsDevelopment reports whether development-only routes and auth modes are allowed
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// AllowDebugAuth reports whether X-Debug-* identity headers are honoured.
// They need AUTH_MODE=debug and a development environment.
func (c *Config) AllowDebugAuth() bool {
	return c.AuthMode == "debug" && c.IsDevelopment()
}

// IssuesDevTokens reports whether /auth/dev-token is mounted.
func (c *Config) IssuesDevTokens() bool {
	return c.IsDevelopment() && (c.AuthMode == "jwt" || c.AuthMode == "debug")
}

// PickupLocation resolves PickupTimezone, falling back to UTC
func (c *Config) PickupLocation() *time.Location {
	loc, err := time.LoadLocation(c.PickupTimezone)
	if err != nil {
		log.Printf("Invalid PICKUP_TIMEZONE %q, using UTC", c.PickupTimezone)
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
