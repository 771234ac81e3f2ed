package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/tautulli-snitch-go/internal/constants"
)

type Config struct {
	Tautulli TautulliConfig
	GeoIP    GeoIPConfig
	Logging  LoggingConfig
}

type TautulliConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	PageSize int
}

type GeoIPConfig struct {
	CountryDBPath string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Tautulli: TautulliConfig{
			BaseURL:  strings.TrimRight(getEnv("TAUTULLI_URL", ""), "/"),
			APIKey:   getEnv("TAUTULLI_API_KEY", ""),
			Timeout:  time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
			PageSize: getEnvInt("PAGE_SIZE", constants.APIConfig.PageSize),
		},
		GeoIP: GeoIPConfig{
			CountryDBPath: getEnv("GEOIP_COUNTRY_DB", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Tautulli.BaseURL == "" {
		return fmt.Errorf("TAUTULLI_URL is required")
	}
	if c.Tautulli.APIKey == "" {
		return fmt.Errorf("TAUTULLI_API_KEY is required")
	}
	if c.Tautulli.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
