package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Fetch modes. The browser mode renders pages through headless Chrome for
// templates that only populate client-side.
const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	CatalogBaseURL  string `mapstructure:"CATALOG_BASE_URL"`
	FetchMode       string `mapstructure:"FETCH_MODE"`
	FetchTimeoutSec int    `mapstructure:"FETCH_TIMEOUT_SECONDS"`
	PolitenessMs    int    `mapstructure:"POLITENESS_DELAY_MS"`
	DetailRetries   int    `mapstructure:"DETAIL_RETRIES"`
	LinksPerPage    int    `mapstructure:"LINKS_PER_PAGE"`
	DedupHours      int    `mapstructure:"DEDUP_EXPIRY_HOURS"`

	SizingChartPath string `mapstructure:"SIZING_CHART_PATH"`
}

// Load reads configuration from a .env file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// The .env file is optional; production configures purely via env vars.
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_USER", "catalog")
	viper.SetDefault("POSTGRES_PASSWORD", "catalog")
	viper.SetDefault("POSTGRES_DB", "resale_catalog")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CATALOG_BASE_URL", "https://www.therealreal.com")
	viper.SetDefault("FETCH_MODE", FetchModeHTTP)
	viper.SetDefault("FETCH_TIMEOUT_SECONDS", 30)
	viper.SetDefault("POLITENESS_DELAY_MS", 2500)
	viper.SetDefault("DETAIL_RETRIES", 2)
	viper.SetDefault("LINKS_PER_PAGE", 25)
	viper.SetDefault("DEDUP_EXPIRY_HOURS", 48)
	viper.SetDefault("SIZING_CHART_PATH", "data/sizing_charts.json")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// PostgresURL builds the pgx connection string.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// FetchTimeout returns the per-request timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// PolitenessDelay returns the mandatory pause between outbound requests.
func (c *Config) PolitenessDelay() time.Duration {
	return time.Duration(c.PolitenessMs) * time.Millisecond
}

// DedupExpiry returns how long a harvested URL stays in the visited set.
func (c *Config) DedupExpiry() time.Duration {
	return time.Duration(c.DedupHours) * time.Hour
}
