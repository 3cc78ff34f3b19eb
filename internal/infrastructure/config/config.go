// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string

	// PostgreSQL (flights, notification events)
	PostgresDSN string

	// MongoDB (price history ledger)
	MongoURI string
	MongoDB  string

	// Fare source
	FareSource        string // "simulated" or "scraper"
	ScraperServiceURL string
	ScraperToken      string
	SimulatedSeed     int64

	// Fetching
	RetryAttempts int
	RetryDelay    time.Duration
	FetchTimeout  time.Duration
	RequestDelay  time.Duration
	PriceBandMin  float64
	PriceBandMax  float64

	// Scheduling
	CheckCooldown   time.Duration
	BatchLimit      int
	MonitorInterval time.Duration

	// Thresholds (fractions)
	DecreaseThreshold float64
	IncreaseThreshold float64

	// Notification delivery
	MailerServiceURL string
	MailerToken      string
	AlertRecipient   string
	UnsentRetryLimit int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:       getEnv("APP_VERSION", "1.0.0"),
		Port:             getEnv("PORT", "8080"),
		ReadTimeout:      time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout:     time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		CORSAllowOrigins: strings.Split(getEnv("CORS_ALLOW_ORIGINS", "*"), ","),

		PostgresDSN: getEnv("POSTGRES_DSN", "postgres://localhost:5432/farewatch"),

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "farewatch"),

		FareSource:        getEnv("FARE_SOURCE", "simulated"),
		ScraperServiceURL: getEnv("SCRAPER_SERVICE_URL", ""),
		ScraperToken:      getEnv("SCRAPER_TOKEN", ""),
		SimulatedSeed:     int64(getEnvAsInt("SIMULATED_SEED", 0)),

		RetryAttempts: getEnvAsInt("RETRY_ATTEMPTS", 3),
		RetryDelay:    time.Duration(getEnvAsInt("RETRY_DELAY_SECONDS", 3)) * time.Second,
		FetchTimeout:  time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		RequestDelay:  time.Duration(getEnvAsInt("REQUEST_DELAY_SECONDS", 2)) * time.Second,
		PriceBandMin:  getEnvAsFloat("PRICE_BAND_MIN", 100),
		PriceBandMax:  getEnvAsFloat("PRICE_BAND_MAX", 2000),

		CheckCooldown:   time.Duration(getEnvAsInt("CHECK_COOLDOWN_HOURS", 6)) * time.Hour,
		BatchLimit:      getEnvAsInt("BATCH_LIMIT", 10),
		MonitorInterval: time.Duration(getEnvAsInt("MONITOR_INTERVAL_MINUTES", 30)) * time.Minute,

		DecreaseThreshold: getEnvAsFloat("DECREASE_THRESHOLD", 0.05),
		IncreaseThreshold: getEnvAsFloat("INCREASE_THRESHOLD", 0.10),

		MailerServiceURL: getEnv("MAILER_SERVICE_URL", ""),
		MailerToken:      getEnv("MAILER_TOKEN", ""),
		AlertRecipient:   getEnv("ALERT_RECIPIENT", ""),
		UnsentRetryLimit: getEnvAsInt("UNSENT_RETRY_LIMIT", 20),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
