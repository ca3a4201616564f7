// Package config loads server configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   int
	DBPath string

	// CORSOrigins is the allowed origin list; "*" during development.
	CORSOrigins []string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in when present; real env vars win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:        8080,
		DBPath:      "payroll.db",
		CORSOrigins: []string{"*"},
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		cfg.CORSOrigins = []string{v}
	}
	return cfg
}
