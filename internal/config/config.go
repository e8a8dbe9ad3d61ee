package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath     = "./dev.db"
	defaultPort       = "8080"
	defaultEnv        = "dev"
	defaultStorageKey = "mk_trip_pricing_counts_v2"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env            string
	DBPath         string
	Port           string
	PresetPath     string
	StorageKey     string
	AllowedOrigins []string
}

// IsDev reports whether the service runs in local development.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	return load(".env")
}

func load(dotenvPath string) Config {
	// Local development convenience. godotenv never overrides variables that are
	// already set, so real environment injection wins in production.
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: could not read %s: %v", dotenvPath, err)
	}

	cfg := Config{
		Env:            os.Getenv("APP_ENV"),
		DBPath:         os.Getenv("DB_PATH"),
		Port:           os.Getenv("PORT"),
		PresetPath:     os.Getenv("PRESET_PATH"),
		StorageKey:     os.Getenv("STORAGE_KEY"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = defaultStorageKey
	}

	if len(cfg.AllowedOrigins) == 0 {
		if !cfg.IsDev() {
			log.Print("warning: ALLOWED_ORIGINS is not set, allowing any origin")
		}
		cfg.AllowedOrigins = []string{"*"}
	}

	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
