// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all driver configuration. The CLI surface stays positional;
// everything tunable comes from the environment.
type Config struct {
	Filter       string // DECLGEN_FILTER, jq expression applied to each document before inference
	Workers      int    // DECLGEN_WORKERS, parse parallelism, default 8
	SchemaExport bool   // DECLGEN_SCHEMA_EXPORT, also emit an OpenAPI document, default false
	Color        string // DECLGEN_COLOR, auto|always|never, default "auto"

	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Filter:       getEnvString("DECLGEN_FILTER", ""),
		Workers:      getEnvInt("DECLGEN_WORKERS", 8),
		SchemaExport: getEnvBool("DECLGEN_SCHEMA_EXPORT", false),
		Color:        getEnvString("DECLGEN_COLOR", "auto"),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}
