package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/forecast-screen/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// WeatherAPI.com settings.
	APIKey         string
	Coordinates    string
	Days           int
	WeatherBaseURL string
	WeatherTimeout time.Duration

	// Screen settings.
	HourlyLimit     int
	CardStyle       domain.CardStyle
	RetryRate       float64
	RetryBurst      int
	TerminalEnabled bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Snapshot publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("WEATHER_TIMEOUT", "10s"))
	if err != nil || weatherTimeout <= 0 {
		return nil, errors.New("invalid WEATHER_TIMEOUT")
	}

	days, err := parsePositiveInt("WEATHER_DAYS", 3)
	if err != nil {
		return nil, err
	}

	hourlyLimit, err := parsePositiveInt("HOURLY_LIMIT", domain.DefaultHourlyLimit)
	if err != nil {
		return nil, err
	}

	retryBurst, err := parsePositiveInt("RETRY_BURST", 2)
	if err != nil {
		return nil, err
	}

	retryRate, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RETRY_RATE", "0.5"), 64)
	if err != nil || retryRate <= 0 {
		return nil, errors.New("invalid RETRY_RATE: must be a positive number")
	}

	cfg := &Config{
		APIKey:         os.Getenv("WEATHER_API_KEY"),
		Coordinates:    sharedcfg.EnvOrDefault("WEATHER_COORDINATES", "55.7569,37.6151"),
		Days:           days,
		WeatherBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.weatherapi.com/v1"), "/"),
		WeatherTimeout: weatherTimeout,

		HourlyLimit:     hourlyLimit,
		CardStyle:       domain.CardStyle(sharedcfg.EnvOrDefault("CARD_STYLE", string(domain.StyleDetailed))),
		RetryRate:       retryRate,
		RetryBurst:      retryBurst,
		TerminalEnabled: sharedcfg.EnvOrDefault("TERMINAL_ENABLED", "true") == "true",

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "forecast-snapshots"),
	}

	if cfg.APIKey == "" {
		return nil, errors.New("WEATHER_API_KEY is required")
	}
	if err := validateCoordinates(cfg.Coordinates); err != nil {
		return nil, err
	}
	if cfg.CardStyle != domain.StyleDetailed && cfg.CardStyle != domain.StyleCompact {
		return nil, fmt.Errorf("invalid CARD_STYLE %q: must be detailed or compact", cfg.CardStyle)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// ViewOptions returns the mapper options derived from the configuration.
func (c *Config) ViewOptions() domain.ViewOptions {
	return domain.ViewOptions{HourlyLimit: c.HourlyLimit, Style: c.CardStyle}
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

// validateCoordinates checks a "lat,lon" pair.
func validateCoordinates(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return fmt.Errorf("invalid WEATHER_COORDINATES %q: expected lat,lon", s)
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("invalid WEATHER_COORDINATES %q: expected lat,lon", s)
	}
	return nil
}
