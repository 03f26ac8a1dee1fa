package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration, loaded from the environment
type Config struct {
	MongoURI string
	Database string
	Addr     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	SessionTTL    time.Duration
	RefreshTTL    time.Duration
	ResetTokenTTL time.Duration

	ProtectedPrefix string
}

// Load reads configuration from the environment, after loading a local .env
// file when one is present. Defaults are suitable for development only.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017/"),
		Database: getenv("MONGO_DATABASE", "hrm"),
		Addr:     getenv("LISTEN_ADDR", ":8080"),

		RedisHost:     getenv("REDIS_HOST", "localhost"),
		RedisPort:     getenv("REDIS_PORT", "6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		SessionTTL:    time.Duration(getenvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		RefreshTTL:    time.Duration(getenvInt("REFRESH_TTL_HOURS", 168)) * time.Hour,
		ResetTokenTTL: time.Duration(getenvInt("RESET_TOKEN_TTL_MINUTES", 30)) * time.Minute,

		ProtectedPrefix: getenv("PROTECTED_PREFIX", "/dashboard"),
	}
}

// getenv returns the value of an environment variable, or the default when
// it is unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getenvInt returns an environment variable as an integer, or the default
// when it is unset or invalid.
func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
