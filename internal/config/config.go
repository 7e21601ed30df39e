// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBPath string // path to the SQLite database file
}

// Load reads configuration values from environment variables and returns a
// Config. A .env file in the working directory is applied first when
// present. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // best effort; real env vars win

	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBPath: getenv("DB_PATH", "database.db"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of an optional environment variable, falling
// back to def when it is unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
