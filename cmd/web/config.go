package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"execdesk/internal/backend"
	"execdesk/internal/common/cache"
	"execdesk/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8080"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 45 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxHeaderBytes  = 1 << 20

	defaultViewTTL       = 30 * time.Minute
	defaultViewLocalSize = 1024
	defaultMetricsPath   = "/metrics"

	viewStoreMemory = "memory"
	viewStoreRedis  = "redis"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	MaxHeaderBytes int           `yaml:"maxHeaderBytes"`
}

// BackendConfig locates the execution backend.
type BackendConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

// ViewStoreConfig controls where list-view snapshots live.
type ViewStoreConfig struct {
	Driver    string        `yaml:"driver"` // memory | redis
	TTL       time.Duration `yaml:"ttl"`
	LocalSize int           `yaml:"localSize"`
}

// MetricsConfig exposes prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// AppConfig holds the web client configuration.
type AppConfig struct {
	Server    ServerConfig      `yaml:"server"`
	Logger    logger.Config     `yaml:"logger"`
	Backend   BackendConfig     `yaml:"backend"`
	ViewStore ViewStoreConfig   `yaml:"viewStore"`
	Redis     cache.RedisConfig `yaml:"redis"`
	Metrics   MetricsConfig     `yaml:"metrics"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = defaultMaxHeaderBytes
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = backend.DefaultBaseURL
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = backend.DefaultTimeout
	}
	cfg.ViewStore.Driver = strings.ToLower(strings.TrimSpace(cfg.ViewStore.Driver))
	if cfg.ViewStore.Driver == "" {
		cfg.ViewStore.Driver = viewStoreMemory
	}
	if cfg.ViewStore.TTL == 0 {
		cfg.ViewStore.TTL = defaultViewTTL
	}
	if cfg.ViewStore.LocalSize == 0 {
		cfg.ViewStore.LocalSize = defaultViewLocalSize
	}
	if cfg.ViewStore.Driver == viewStoreRedis {
		cfg.Redis.ApplyDefaults()
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}
}

func validate(cfg *AppConfig) error {
	switch cfg.ViewStore.Driver {
	case viewStoreMemory:
	case viewStoreRedis:
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when viewStore.driver is redis")
		}
	default:
		return fmt.Errorf("unknown viewStore.driver %q", cfg.ViewStore.Driver)
	}
	if cfg.ViewStore.TTL < 0 {
		return fmt.Errorf("viewStore.ttl must be positive")
	}
	return nil
}
