// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Env             string
	ListenAddr      string
	DatabaseURL     string
	RedisAddr       string
	ReputationKey   string
	SafeBrowsingKey string
	DetectorTimeout time.Duration
}

// Load reads the environment. A missing DATABASE_URL is returned as an
// error value so callers can decide whether it is fatal.
func Load() (Config, error) {
	cfg := Config{
		Env:             getenv("APP_ENV", "development"),
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		ReputationKey:   os.Getenv("REPUTATION_API_KEY"),
		SafeBrowsingKey: os.Getenv("SAFE_BROWSING_API_KEY"),
		DetectorTimeout: getenvDuration("DETECTOR_TIMEOUT", 10*time.Second),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
