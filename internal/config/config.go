package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port    string
	BaseURL string

	// Storage
	DatabaseURL string
	RedisAddr   string

	// Video content service
	VideoServiceURL     string
	VideoServiceTimeout time.Duration

	// Page
	SessionTTL      time.Duration
	SessionMax      int
	DisplayTimezone *time.Location
	PlayerEmbedURL  string

	// Lead capture rate limit (events per second per client)
	LeadRateLimit float64
	LeadRateBurst int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("VIDEO_SERVICE_TIMEOUT", "10s")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_MAX", 10000)
	v.SetDefault("DISPLAY_TIMEZONE", "UTC")
	v.SetDefault("PLAYER_EMBED_URL", "https://player.captivate.fm/show/1732ebe2-8fb0-4b83-837a-109af6810a94#")
	v.SetDefault("LEAD_RATE_LIMIT", 1.0)
	v.SetDefault("LEAD_RATE_BURST", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	loc, err := time.LoadLocation(v.GetString("DISPLAY_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Port:    v.GetString("PORT"),
		BaseURL: v.GetString("BASE_URL"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		RedisAddr:   v.GetString("REDIS_ADDR"),

		VideoServiceURL:     v.GetString("VIDEO_SERVICE_URL"),
		VideoServiceTimeout: v.GetDuration("VIDEO_SERVICE_TIMEOUT"),

		SessionTTL:      v.GetDuration("SESSION_TTL"),
		SessionMax:      v.GetInt("SESSION_MAX"),
		DisplayTimezone: loc,
		PlayerEmbedURL:  v.GetString("PLAYER_EMBED_URL"),

		LeadRateLimit: v.GetFloat64("LEAD_RATE_LIMIT"),
		LeadRateBurst: v.GetInt("LEAD_RATE_BURST"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.VideoServiceURL == "" {
		return nil, fmt.Errorf("VIDEO_SERVICE_URL is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.SessionMax < 1 {
		return nil, fmt.Errorf("SESSION_MAX must be at least 1, got %d", cfg.SessionMax)
	}
	if cfg.LeadRateLimit <= 0 {
		return nil, fmt.Errorf("LEAD_RATE_LIMIT must be positive, got %g", cfg.LeadRateLimit)
	}
	if cfg.LeadRateBurst < 1 {
		return nil, fmt.Errorf("LEAD_RATE_BURST must be at least 1, got %d", cfg.LeadRateBurst)
	}

	return cfg, nil
}
