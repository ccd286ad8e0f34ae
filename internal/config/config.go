// Package config loads service settings from the environment, an optional
// .env file and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	SupabaseURL        string `mapstructure:"SUPABASE_URL"`
	SupabaseServiceKey string `mapstructure:"SUPABASE_SERVICE_ROLE_KEY"`

	// DatabaseURL switches identity lookups to a direct Postgres query.
	// When empty they go through the IdentityRPC function instead.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	IdentityRPC string `mapstructure:"IDENTITY_RPC"`

	Port              string `mapstructure:"PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage bucket guaranteed by the provisioner.
	BucketName          string `mapstructure:"STORAGE_BUCKET"`
	BucketPublic        bool   `mapstructure:"STORAGE_BUCKET_PUBLIC"`
	BucketSizeLimit     int64  `mapstructure:"STORAGE_BUCKET_SIZE_LIMIT"`
	BucketMimeTypes     string `mapstructure:"STORAGE_BUCKET_MIME_TYPES"`
	EnsureBucketOnStart bool   `mapstructure:"STORAGE_ENSURE_ON_START"`

	ReconcileConcurrency   int           `mapstructure:"RECONCILE_CONCURRENCY"`
	ReconcileLookupTimeout time.Duration `mapstructure:"RECONCILE_LOOKUP_TIMEOUT"`

	// Redis email cache, disabled when RedisAddr is empty.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	EmailCacheTTL time.Duration `mapstructure:"EMAIL_CACHE_TTL"`

	ToastLimit int `mapstructure:"TOAST_LIMIT"`
}

var defaults = map[string]any{
	"SUPABASE_URL":              "",
	"SUPABASE_SERVICE_ROLE_KEY": "",
	"DATABASE_URL":              "",
	"IDENTITY_RPC":              "execute_sql",
	"PORT":                      "8080",
	"ENV":                       "development",
	"LOG_LEVEL":                 "info",
	"ALLOWED_ORIGINS":           "*",
	"MAX_REQUESTS_PER_MIN":      120,
	"STORAGE_BUCKET":            "progress-photos",
	"STORAGE_BUCKET_PUBLIC":     true,
	"STORAGE_BUCKET_SIZE_LIMIT": 10485760,
	"STORAGE_BUCKET_MIME_TYPES": "image/png,image/jpeg,image/jpg,image/webp",
	"STORAGE_ENSURE_ON_START":   true,
	"RECONCILE_CONCURRENCY":     10,
	"RECONCILE_LOOKUP_TIMEOUT":  "0s",
	"REDIS_ADDR":                "",
	"REDIS_PASSWORD":            "",
	"REDIS_DB":                  0,
	"EMAIL_CACHE_TTL":           "10m",
	"TOAST_LIMIT":               20,
}

// Load reads configuration from the environment, falling back to
// config.yaml (current or ./config directory) and then to defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so every key gets a default.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports missing required settings.
func (c Config) Validate() error {
	var missing []string
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseServiceKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if c.BucketSizeLimit < 0 {
		return fmt.Errorf("STORAGE_BUCKET_SIZE_LIMIT must not be negative")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Origins returns the CORS allow-list.
func (c Config) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// MimeTypes returns the content types accepted by the storage bucket.
func (c Config) MimeTypes() []string {
	return splitList(c.BucketMimeTypes)
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
