package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	PriceFeed PriceFeedConfig
	Scoring   ScoringConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PriceFeedConfig holds the price feed API configuration
type PriceFeedConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	RecencyDays     int    `mapstructure:"recency_days"`     // ignore observations older than this
	MaxCandidates   int    `mapstructure:"max_candidates"`   // per-product row cap
	RequestsPerHour int    `mapstructure:"requests_per_hour"`
}

// ScoringConfig holds the candidate scoring weights and debug switch.
// The three weights are not required to sum to 1; scores are only compared
// between candidates of the same ingredient.
type ScoringConfig struct {
	PriceWeight        float64 `mapstructure:"price_weight"`
	QualityWeight      float64 `mapstructure:"quality_weight"`
	DistanceWeight     float64 `mapstructure:"distance_weight"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pantrywise/")

	// Environment variable settings
	v.SetEnvPrefix("PANTRYWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Price feed defaults
	v.SetDefault("pricefeed.api_key", "")
	v.SetDefault("pricefeed.base_url", "https://feed.pantrywise.app")
	v.SetDefault("pricefeed.recency_days", 90)
	v.SetDefault("pricefeed.max_candidates", 100)
	v.SetDefault("pricefeed.requests_per_hour", 1000)

	// Scoring defaults
	v.SetDefault("scoring.price_weight", 0.6)
	v.SetDefault("scoring.quality_weight", 0.25)
	v.SetDefault("scoring.distance_weight", 0.15)
	v.SetDefault("scoring.enable_debug_logging", false)

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.PriceFeed.APIKey == "" {
		return fmt.Errorf("price feed API key is required (set PANTRYWISE_PRICEFEED_API_KEY)")
	}

	if config.PriceFeed.RecencyDays <= 0 {
		return fmt.Errorf("pricefeed recency_days must be positive, got: %d", config.PriceFeed.RecencyDays)
	}

	if config.PriceFeed.MaxCandidates <= 0 {
		return fmt.Errorf("pricefeed max_candidates must be positive, got: %d", config.PriceFeed.MaxCandidates)
	}

	if config.Scoring.PriceWeight < 0 || config.Scoring.QualityWeight < 0 || config.Scoring.DistanceWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}

	return nil
}
