package config

// loader.go - configuration loading from files and environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables, including a .env file  (this file)
//   3. YAML config file  (this file)
//   4. Defaults   (defaults.go)

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default returns a Config populated from defaults.go.
func Default() *Config {
	return &Config{
		CacheSize: DefaultCacheSize,
		Format:    DefaultFormat,
	}
}

// LoadFile overlays the YAML document at path onto cfg.  Keys absent
// from the file leave the existing value untouched.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv reads KEY=value pairs from path into the process
// environment without overriding variables that are already set.  A
// missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the CIBUILD_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  Apply CLI flags afterwards so
// that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("CIBUILD_COMPONENT"); v != "" {
		cfg.ComponentName = v
	}
	if v, ok := envInt("CIBUILD_CACHE_SIZE"); ok {
		cfg.CacheSize = v
	}
	if v := os.Getenv("CIBUILD_FORMAT"); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if envBool("CIBUILD_STATS") {
		cfg.Stats = true
	}
	if v, ok := envInt("CIBUILD_VERBOSE"); ok && v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
