package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"execdesk/internal/backend"
	"execdesk/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHistoryFile = ".execdesk_history"
	DefaultLogLevel    = "warn"
	DefaultLogOutput   = "stderr"
)

// Config holds CLI configuration.
type Config struct {
	BaseURL     string        `yaml:"baseURL"`
	Timeout     time.Duration `yaml:"timeout"`
	HistoryFile string        `yaml:"historyFile"`
	Logger      logger.Config `yaml:"logger"`
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("read config file failed: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file failed: %w", err)
		}
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = backend.DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = backend.DefaultTimeout
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = DefaultHistoryFile
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = DefaultLogLevel
	}
	if cfg.Logger.OutputPath == "" {
		cfg.Logger.OutputPath = DefaultLogOutput
	}
}
