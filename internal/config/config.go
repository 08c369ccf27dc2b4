package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents runtime configuration for the desk and the CLI.
type Config struct {
	BasicConfig BasicConfig    `json:"basic_config"`
	Upstream    UpstreamConfig `json:"upstream"`
	Redis       RedisConfig    `json:"redis"`
	Downloads   DownloadConfig `json:"downloads"`
}

type BasicConfig struct {
	ServerAddress      string `json:"server_address"`
	SessionIdleTimeout int    `json:"session_idle_timeout"` // minutes
}

// UpstreamConfig points at the OCR service exposing /api/ocr and friends.
type UpstreamConfig struct {
	BaseURL string `json:"base_url"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type DownloadConfig struct {
	Dir string `json:"dir"`
	TTL int    `json:"ttl"` // minutes a desk download link stays valid
}

const defaultPath = "config.json"

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		BasicConfig: BasicConfig{
			ServerAddress:      ":8090",
			SessionIdleTimeout: 30,
		},
		Upstream:  UpstreamConfig{BaseURL: "http://127.0.0.1:5000"},
		Redis:     RedisConfig{Host: "127.0.0.1", Port: 6379},
		Downloads: DownloadConfig{Dir: "downloads", TTL: 10},
	}
}

// Load reads configuration from the provided path (defaults to config.json) and
// applies environment overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	cfg := Default()
	file, err := os.Open(absPath)
	switch {
	case err == nil:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
		if cfg.Downloads.Dir != "" && !filepath.IsAbs(cfg.Downloads.Dir) {
			cfg.Downloads.Dir = filepath.Join(filepath.Dir(absPath), cfg.Downloads.Dir)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("upstream base_url must be configured")
	}
	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("OCRDESK_UPSTREAM_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("OCRDESK_ADDR"); v != "" {
		c.BasicConfig.ServerAddress = v
	}
	if v := os.Getenv("OCRDESK_DOWNLOAD_DIR"); v != "" {
		c.Downloads.Dir = v
	}
	if v := os.Getenv("OCRDESK_REDIS_ADDR"); v != "" {
		host, portStr, err := net.SplitHostPort(v)
		if err != nil {
			return fmt.Errorf("parse OCRDESK_REDIS_ADDR: %w", err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("parse OCRDESK_REDIS_ADDR port: %w", err)
		}
		c.Redis.Enabled = true
		c.Redis.Host = host
		c.Redis.Port = port
	}
	return nil
}
