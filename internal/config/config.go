package config

import (
	"log"
	"os"

	"github.com/spf13/cast"
)

// Config holds all application configuration for the tile server.
type Config struct {
	Addr    string
	DBPath  string
	MinZoom int
	MaxZoom int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Addr:    getEnv("TILESERVER_ADDR", ":8080"),
		DBPath:  getEnv("TILESERVER_DB", "./roadtiles.db"),
		MinZoom: getEnvInt("TILESERVER_MIN_ZOOM", 0),
		MaxZoom: getEnvInt("TILESERVER_MAX_ZOOM", 22),
	}
}

// getEnv gets an environment variable with a fallback default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a fallback default
// value, using cast for the same permissive coercion the rest of the pack
// relies on rather than strconv's stricter parsing.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := cast.ToIntE(value)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s: %s, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

// Validate checks that the configured zoom range is sane, clamping and
// warning rather than failing startup.
func (c *Config) Validate() error {
	if c.MinZoom < 0 {
		log.Printf("Warning: TILESERVER_MIN_ZOOM %d < 0, clamping to 0", c.MinZoom)
		c.MinZoom = 0
	}
	if c.MaxZoom > 22 {
		log.Printf("Warning: TILESERVER_MAX_ZOOM %d > 22, clamping to 22", c.MaxZoom)
		c.MaxZoom = 22
	}
	if c.MinZoom > c.MaxZoom {
		log.Printf("Warning: TILESERVER_MIN_ZOOM %d > TILESERVER_MAX_ZOOM %d, swapping", c.MinZoom, c.MaxZoom)
		c.MinZoom, c.MaxZoom = c.MaxZoom, c.MinZoom
	}
	return nil
}
