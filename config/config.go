package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storefront StorefrontConfig
	GiftGuide  GiftGuideConfig `mapstructure:"giftguide"`
	Session    SessionConfig
	Events     EventsConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorefrontConfig holds the cart API connection settings
type StorefrontConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Root      string        `mapstructure:"root"` // Shopify.routes.root, "/" or a locale prefix like "/fr/"
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second
	Burst     int           `mapstructure:"burst"`
}

// GiftGuideConfig holds modal behavior settings
type GiftGuideConfig struct {
	BonusVariantID  int64         `mapstructure:"bonus_variant_id"` // 0 disables the bundle rule
	AddedCloseDelay time.Duration `mapstructure:"added_close_delay"`
	Currency        string        `mapstructure:"currency"`
	Locale          string        `mapstructure:"locale"`
}

// SessionConfig holds modal session store settings
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// EventsConfig holds cart event delivery settings. Kafka is optional.
type EventsConfig struct {
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/giftguide/")

	// Environment variable settings
	v.SetEnvPrefix("GIFTGUIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
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

// loadEnvFile loads .env from the working directory. Variables already set
// in the environment win; a missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Storefront defaults
	v.SetDefault("storefront.base_url", "")
	v.SetDefault("storefront.root", "/")
	v.SetDefault("storefront.timeout", "30s")
	v.SetDefault("storefront.rate_limit", 2.0)
	v.SetDefault("storefront.burst", 4)

	// Gift guide defaults
	v.SetDefault("giftguide.bonus_variant_id", 0)
	v.SetDefault("giftguide.added_close_delay", "1s")
	v.SetDefault("giftguide.currency", "USD")
	v.SetDefault("giftguide.locale", "en-US")

	// Session defaults
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.cleanup_interval", "5m")

	// Event defaults
	v.SetDefault("events.kafka_brokers", []string{})
	v.SetDefault("events.kafka_topic", "giftguide.cart")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Storefront.BaseURL == "" {
		return fmt.Errorf("storefront base URL is required (set GIFTGUIDE_STOREFRONT_BASE_URL)")
	}

	root := config.Storefront.Root
	if !strings.HasPrefix(root, "/") || !strings.HasSuffix(root, "/") {
		return fmt.Errorf("storefront root must start and end with '/', got: %q", root)
	}

	if _, err := currency.ParseISO(config.GiftGuide.Currency); err != nil {
		return fmt.Errorf("currency must be an ISO 4217 code, got: %s", config.GiftGuide.Currency)
	}

	if config.GiftGuide.BonusVariantID < 0 {
		return fmt.Errorf("bonus variant id must not be negative, got: %d", config.GiftGuide.BonusVariantID)
	}

	if config.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got: %v", config.Session.TTL)
	}

	if len(config.Events.KafkaBrokers) > 0 && config.Events.KafkaTopic == "" {
		return fmt.Errorf("kafka topic is required when kafka brokers are set")
	}

	return nil
}
