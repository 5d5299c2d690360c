// Package config loads client settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Session backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	BaseURL        string `yaml:"baseURL"`
	LogLevel       string `yaml:"logLevel"`
	RequestTimeout string `yaml:"requestTimeout"`
	SessionBackend string `yaml:"sessionBackend"`
	SessionFile    string `yaml:"sessionFile"`
	RedisAddr      string `yaml:"redisAddr"`
	RedisPassword  string `yaml:"redisPassword"`
}

// Load reads config from path, then applies environment overrides. A
// missing path loads defaults only.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{
		LogLevel:       "info",
		RequestTimeout: "10s",
		SessionBackend: BackendFile,
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if v := os.Getenv("SHOP_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOP_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOP_SESSION_BACKEND"); v != "" {
		cfg.SessionBackend = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOP_SESSION_FILE"); v != "" {
		cfg.SessionFile = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOP_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOP_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Timeout parses the request timeout.
func (c FileConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid requestTimeout: %w", err)
	}
	return d, nil
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return errors.New("config: baseURL is required (set in config file or SHOP_BASE_URL)")
	}
	switch cfg.SessionBackend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: redisAddr is required for the redis session backend")
		}
	default:
		return fmt.Errorf("config: unknown sessionBackend %q", cfg.SessionBackend)
	}
	if _, err := cfg.Timeout(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shop-session.json"
	}
	return filepath.Join(home, ".config", "shopctl", "session.json")
}
