package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	UI      UIConfig
	Session SessionConfig
	CORS    CORSConfig
	Lookup  LookupConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// APIConfig points at the employee REST API
type APIConfig struct {
	BaseURL string
}

// UIConfig holds presentation settings
type UIConfig struct {
	Locale      string
	Timezone    string
	FeedbackTTL time.Duration
}

// SessionConfig holds console session configuration
type SessionConfig struct {
	Secret        string
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LookupConfig rate limits self-service lookups per session
type LookupConfig struct {
	RatePerSecond float64
	Burst         int
}

// Load reads the environment, after merging a .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	} else if err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.API = APIConfig{
		BaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
	}

	// UI configuration
	feedbackTTL, err := time.ParseDuration(getEnv("FEEDBACK_TTL", "2.5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FEEDBACK_TTL: %w", err)
	}

	config.UI = UIConfig{
		Locale:      getEnv("UI_LOCALE", "ko-KR"),
		Timezone:    getEnv("UI_TIMEZONE", "Local"),
		FeedbackTTL: feedbackTTL,
	}

	// Session configuration
	idleTimeout, err := time.ParseDuration(getEnv("SESSION_IDLE_TIMEOUT", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("SESSION_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL: %w", err)
	}

	config.Session = SessionConfig{
		Secret:        getEnv("SESSION_SECRET", ""),
		IdleTimeout:   idleTimeout,
		SweepInterval: sweepInterval,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// Lookup rate limit
	lookupRate, err := strconv.ParseFloat(getEnv("LOOKUP_RATE_PER_SEC", "2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOOKUP_RATE_PER_SEC: %w", err)
	}
	lookupBurst, err := strconv.Atoi(getEnv("LOOKUP_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOOKUP_BURST: %w", err)
	}

	config.Lookup = LookupConfig{
		RatePerSecond: lookupRate,
		Burst:         lookupBurst,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL")
	}
	if c.UI.FeedbackTTL <= 0 {
		return fmt.Errorf("FEEDBACK_TTL must be positive")
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.Lookup.RatePerSecond <= 0 || c.Lookup.Burst <= 0 {
		return fmt.Errorf("LOOKUP_RATE_PER_SEC and LOOKUP_BURST must be positive")
	}
	return nil
}

// Location resolves UI_TIMEZONE. "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.UI.Timezone == "" || c.UI.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid UI_TIMEZONE: %w", err)
	}
	return loc, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
