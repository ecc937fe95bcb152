package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Schedule configuration
	ReportSchedule string // "daily" or "weekly"
	TimeZone       string

	// Database - Azure Cosmos DB with MongoDB fallback. The backend is
	// chosen once at startup and never switched at runtime.
	UseCosmosDB    bool
	CosmosEndpoint string
	CosmosKey      string
	CosmosDatabase string
	MongoURI       string
	MongoDatabase  string

	// Report archive (Azure Blob Storage), optional
	StorageAccount   string
	ArchiveContainer string

	// Notification configuration, optional
	WebhookURL        string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Platform API credentials. A platform without credentials stays
	// registered but disabled for the process lifetime.
	TwitterBearerToken    string
	MetaAccessToken       string
	MetaBusinessAccountID string
	YouTubeAPIKey         string
	YouTubeChannelID      string
	TikTokAPIKey          string
	TikTokSecret          string

	// Keywords to monitor
	Keywords []string

	// Per-source HTTP call timeout in seconds
	FetchTimeoutSeconds int

	// Scheduler
	SchedulerEnabled bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Debug:          getBoolEnv("DEBUG", false),
		ReportSchedule: getEnv("REPORT_SCHEDULE", "daily"),
		TimeZone:       getEnv("TIMEZONE", "UTC"),

		UseCosmosDB:    getBoolEnv("USE_COSMOS_DB", true),
		CosmosEndpoint: getEnv("COSMOS_ENDPOINT", ""),
		CosmosKey:      getEnv("COSMOS_KEY", ""),
		CosmosDatabase: getEnv("COSMOS_DATABASE", "galatasaray_analytics"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "galatasaray_analytics"),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		ArchiveContainer: getEnv("AZURE_STORAGE_CONTAINER", "reports"),

		WebhookURL:        getEnv("WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		TwitterBearerToken:    getEnv("TWITTER_BEARER_TOKEN", ""),
		MetaAccessToken:       getEnv("META_ACCESS_TOKEN", ""),
		MetaBusinessAccountID: getEnv("META_BUSINESS_ACCOUNT_ID", ""),
		YouTubeAPIKey:         getEnv("YOUTUBE_API_KEY", ""),
		YouTubeChannelID:      getEnv("YOUTUBE_CHANNEL_ID", ""),
		TikTokAPIKey:          getEnv("TIKTOK_API_KEY", ""),
		TikTokSecret:          getEnv("TIKTOK_SECRET", ""),

		Keywords: getSliceEnv("KEYWORDS", []string{
			"Galatasaray",
			"GS",
			"#Galatasaray",
		}),

		FetchTimeoutSeconds: getIntEnv("FETCH_TIMEOUT_SECONDS", 30),
		SchedulerEnabled:    getBoolEnv("SCHEDULER_ENABLED", true),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ReportSchedule != "daily" && c.ReportSchedule != "weekly" {
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily' or 'weekly'")
	}

	if c.UseCosmosDB && c.CosmosEndpoint != "" && c.CosmosKey == "" {
		return fmt.Errorf("COSMOS_KEY is required when COSMOS_ENDPOINT is set")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// CosmosConfigured reports whether the partitioned-container backend can be
// selected. Falls through to MongoDB otherwise.
func (c *Config) CosmosConfigured() bool {
	return c.UseCosmosDB && c.CosmosEndpoint != "" && c.CosmosKey != ""
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
