package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"blackjack-platform/backend/internal/blackjack"
	"blackjack-platform/backend/internal/db"
	"blackjack-platform/backend/internal/redis"
)

// Config holds all configuration values for the application
type Config struct {
	// Database configuration
	DBConfig db.Config

	// Redis configuration
	RedisConfig redis.Config

	// Server configuration
	ServerPort  string
	Environment string

	// Authentication
	JWTSecret string

	// Game rules
	Rules blackjack.Rules
}

// LoadConfig loads configuration from environment variables
func LoadConfig() Config {
	// Load .env file if it exists
	godotenv.Load()

	rules := blackjack.DefaultRules()
	rules.MaxSeats = getEnvInt("MAX_SEATS_PER_GAME", rules.MaxSeats)
	rules.StartingChips = getEnvInt("STARTING_CHIPS", rules.StartingChips)

	return Config{
		DBConfig: db.Config{
			Driver:   getEnv("DB_DRIVER", "mysql"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "blackjack_platform"),
		},
		RedisConfig: redis.Config{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		Rules:       rules,
	}
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
