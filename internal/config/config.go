package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration loaded from the environment.
type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	TokenExpiry   time.Duration
	RedisAddr     string
	AllowedOrigin string
}

// LoadConfig reads configuration from a .env file (if present) and the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "carepulse"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}

	expiry, err := time.ParseDuration(getEnv("TOKEN_EXPIRY", "72h"))
	if err != nil {
		logrus.WithError(err).Warn("Invalid TOKEN_EXPIRY, falling back to 72h")
		expiry = 72 * time.Hour
	}
	cfg.TokenExpiry = expiry

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
