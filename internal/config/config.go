package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDialTimeout = 5 * time.Second
	DefaultVerifyDelay = 200 * time.Millisecond
)

type ProjectConfig struct {
	Version int           `yaml:"version"`
	Host    HostConfig    `yaml:"host"`
	Verify  VerifyConfig  `yaml:"verify"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
	Hints   string        `yaml:"hints"`
}

type HostConfig struct {
	URL         string        `yaml:"url"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type VerifyConfig struct {
	Delay time.Duration `yaml:"delay"`
}

type JournalConfig struct {
	DSN string `yaml:"dsn"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Host.DialTimeout == 0 {
		cfg.Host.DialTimeout = DefaultDialTimeout
	}
	if cfg.Verify.Delay == 0 {
		cfg.Verify.Delay = DefaultVerifyDelay
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Host.URL) == "" {
		return fmt.Errorf("host url is required")
	}
	u, err := url.Parse(cfg.Host.URL)
	if err != nil {
		return fmt.Errorf("invalid host url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("host url must use ws or wss, got %q", u.Scheme)
	}
	if cfg.Host.DialTimeout < 0 {
		return fmt.Errorf("host dial_timeout must not be negative")
	}
	if cfg.Verify.Delay < 0 {
		return fmt.Errorf("verify delay must not be negative")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", cfg.Log.Format)
	}
	if dsn := strings.TrimSpace(cfg.Journal.DSN); dsn != "" {
		if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") && !strings.HasPrefix(dsn, "sqlite://") {
			return fmt.Errorf("journal dsn must start with postgres://, postgresql:// or sqlite://")
		}
	}
	return nil
}
