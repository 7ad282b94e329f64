package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avelez/tonewheel/internal/shared/infrastructure/database"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Mongo   database.MongoConfig
	Redis   database.RedisConfig
	Session SessionConfig
	Bcrypt  BcryptConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

// SessionConfig holds cookie session configuration
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
}

// BcryptConfig holds password hashing configuration
type BcryptConfig struct {
	Cost int
}

// Load reads configuration from environment variables
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:4200"),
		},
		Mongo: database.MongoConfig{
			URI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:  getEnv("MONGO_DB", "tonewheel"),
			OpTimeout: parseDuration(getEnv("MONGO_OP_TIMEOUT", "5s"), 5*time.Second),
		},
		Redis: database.RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "default-dev-secret"),
			TTL:        parseDuration(getEnv("SESSION_TTL", "24h"), 24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE", "tonewheel_session"),
		},
		Bcrypt: BcryptConfig{
			Cost: parseBcryptCost(getEnv("BCRYPT_COST", "16"), 16),
		},
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}

// parseInt parses an integer or returns a default value
func parseInt(value string, defaultValue int) int {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}

// parseBcryptCost parses the hashing cost, clamped to what bcrypt accepts so
// a typo cannot silently disable hashing work.
func parseBcryptCost(value string, defaultValue int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
		return defaultValue
	}
	return n
}
