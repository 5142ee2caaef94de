package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// DefaultExternalSystemURL is the hosted system linked from the dashboard.
const DefaultExternalSystemURL = "https://instrument-management-system.vercel.app/"

// Config holds the server settings read from the environment.
type Config struct {
	Host              string
	Port              string
	LogLevel          string
	LogFormat         string // "text" or "json"
	ExternalSystemURL string
	SeedFile          string // empty uses the embedded sample data
	ReadTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Load reads an optional .env file and then the environment.
// A missing env file is not an error; variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Host:              os.Getenv("HOST"),
		Port:              get("PORT", "8080"),
		LogLevel:          get("LOG_LEVEL", "info"),
		LogFormat:         get("LOG_FORMAT", "text"),
		ExternalSystemURL: get("EXTERNAL_SYSTEM_URL", DefaultExternalSystemURL),
		SeedFile:          os.Getenv("SEED_FILE"),
		ReadTimeout:       15 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}

	var err error
	if cfg.ReadTimeout, err = duration("READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log format %q: must be text or json", c.LogFormat)
	}
	return nil
}

// NewLogger builds the logrus logger described by the config.
func (c Config) NewLogger() *log.Logger {
	logger := log.New()
	if level, err := log.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
