// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultSecretKey   = "dev-secret-change-me"
	defaultDatabaseURI = "sqlite:///blog_posts_users.db"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	SecretKey    string        `mapstructure:"SECRET_KEY"`
	DatabaseURI  string        `mapstructure:"DB_URI"`
	Port         string        `mapstructure:"PORT"`
	RedisURL     string        `mapstructure:"REDIS_URL"`
	Env          string        `mapstructure:"APP_ENV"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	CSRFEnabled  bool          `mapstructure:"CSRF_ENABLED"`
	CookieSecure bool          `mapstructure:"COOKIE_SECURE"`
	SessionTTL   time.Duration `mapstructure:"SESSION_TTL"`
}

// LoadConfig loads application configuration from .env, an optional
// config.yml and environment variables, in increasing precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetDefault("SECRET_KEY", defaultSecretKey)
	viper.SetDefault("DB_URI", defaultDatabaseURI)
	viper.SetDefault("PORT", "5001")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CSRF_ENABLED", true)
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("SESSION_TTL", "168h")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.DatabaseURI = NormalizeDatabaseURL(config.DatabaseURI)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// NormalizeDatabaseURL applies the sqlite fallback and rewrites the legacy
// postgres:// scheme to postgresql://.
func NormalizeDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultDatabaseURI
	}
	if strings.HasPrefix(raw, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(raw, "postgres://")
	}
	return raw
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	if c.IsProduction() {
		if c.SecretKey == defaultSecretKey {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if len(c.SecretKey) < 32 {
			return errors.New("SECRET_KEY must be at least 32 characters in production")
		}
		if !c.CSRFEnabled {
			log.Println("WARNING: CSRF_ENABLED is false in production. Form posts are not protected.")
		}
		if !c.CookieSecure {
			log.Println("WARNING: COOKIE_SECURE is false in production. Session cookies will be sent over plain HTTP.")
		}
	} else if len(c.SecretKey) < 32 {
		log.Println("WARNING: SECRET_KEY is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
