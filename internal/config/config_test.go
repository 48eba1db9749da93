package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	strong := "a-very-long-secret-key-for-production-use"

	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{"Development with default secret", Config{Env: "development", SecretKey: defaultSecretKey, Port: "5001", SessionTTL: time.Hour}, false},
		{"Production with default secret", Config{Env: "production", SecretKey: defaultSecretKey, Port: "5001", SessionTTL: time.Hour}, true},
		{"Prod with short secret", Config{Env: "prod", SecretKey: "short", Port: "5001", SessionTTL: time.Hour}, true},
		{"Production with strong secret", Config{Env: "production", SecretKey: strong, Port: "5001", SessionTTL: time.Hour, CSRFEnabled: true}, false},
		{"Missing secret", Config{Env: "test", Port: "5001", SessionTTL: time.Hour}, true},
		{"Missing port", Config{Env: "test", SecretKey: strong, SessionTTL: time.Hour}, true},
		{"Zero session ttl", Config{Env: "test", SecretKey: strong, Port: "5001"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeDatabaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "sqlite:///blog_posts_users.db"},
		{"   ", "sqlite:///blog_posts_users.db"},
		{"postgres://u:p@db:5432/blog", "postgresql://u:p@db:5432/blog"},
		{"postgresql://u:p@db:5432/blog", "postgresql://u:p@db:5432/blog"},
		{"sqlite:///other.db", "sqlite:///other.db"},
		{"postgresql://u:p@db/postgres://x", "postgresql://u:p@db/postgres://x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDatabaseURL(tt.in))
		})
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("SECRET_KEY", "env-provided-secret")
	t.Setenv("DB_URI", "postgres://blog:pw@localhost:5432/blog")
	t.Setenv("CSRF_ENABLED", "false")
	t.Setenv("SESSION_TTL", "2h")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-provided-secret", c.SecretKey)
	assert.Equal(t, "postgresql://blog:pw@localhost:5432/blog", c.DatabaseURI)
	assert.False(t, c.CSRFEnabled)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, "5001", c.Port)
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_URI", "")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultDatabaseURI, c.DatabaseURI)
	assert.True(t, c.CSRFEnabled)
	assert.Equal(t, 168*time.Hour, c.SessionTTL)
	assert.False(t, c.IsProduction())
}
