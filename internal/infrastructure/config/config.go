package config

import (
	"errors"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the placeholder signing key used when JWT_SECRET is unset.
const DefaultJWTSecret = "change-me"

var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set when DATABASE_URL is set")

// Config holds environment-driven configuration.
type Config struct {
	Addr         string `env:"ADDR,default=:8080"`
	RealtimeAddr string `env:"REALTIME_ADDR,default=:8081"`

	// DatabaseURL selects the Postgres store; empty runs on seeded in-memory repositories.
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	JWTSecret string `env:"JWT_SECRET,default=change-me"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`

	CartNotifyChannel string  `env:"CART_NOTIFY_CHANNEL,default=cart_changes"`
	CartRatePerSec    float64 `env:"CART_RATE_PER_SEC,default=5"`
	CartRateBurst     int     `env:"CART_RATE_BURST,default=10"`

	WeatherLocation string `env:"WEATHER_LOCATION"`
}

// Load reads an optional .env file and then decodes the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, err
	}
	return cfg, nil
}

// InMemory reports whether the service runs without Postgres.
func (c Config) InMemory() bool {
	return c.DatabaseURL == ""
}

// DefaultSecret reports whether tokens are signed with the placeholder key.
func (c Config) DefaultSecret() bool {
	return c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret
}

// Validate rejects settings that are only acceptable for local demo runs.
func (c Config) Validate() error {
	if !c.InMemory() && c.DefaultSecret() {
		return ErrDefaultJWTSecret
	}
	return nil
}
