package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL string
	RedisAddr   string
	BindAddr    string
	MetricsPath string
	MediaDir    string

	JWTSecret []byte
	TokenTTL  time.Duration
}

// Load reads configuration from the environment, using a .env file if one is
// present (ignored when missing).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PostgresURL: os.Getenv("POSTGRES_URL"),
		RedisAddr:   getenvDefault("REDIS_ADDR", "localhost:6379"),
		BindAddr:    getenvDefault("BIND_ADDR", ":8080"),
		MetricsPath: getenvDefault("METRICS_PATH", "/metrics"),
		MediaDir:    getenvDefault("MEDIA_DIR", "media"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
	}

	if cfg.PostgresURL == "" {
		return nil, errors.New("POSTGRES_URL must be set")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("JWT_SECRET must be set")
	}

	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: %q", v)
		}
		cfg.TokenTTL = time.Duration(minutes) * time.Minute
	} else {
		cfg.TokenTTL = 24 * time.Hour
	}

	return cfg, nil
}

func getenvDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
